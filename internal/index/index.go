// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/mealplan-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotIndexed    = errors.New("conversations not indexed")
	ErrDatabaseError = errors.New("database error")
	ErrInvalidPath   = errors.New("invalid path")
)

// =============================================================================
// CONVERSATION INDEX
// =============================================================================

// ConversationIndex maintains a SQLite FTS index over the per-conversation
// JSON files the store writes. The chat flow keeps it current through
// IndexConversation/RemoveConversation; the optional watcher picks up
// external edits to the files.
type ConversationIndex struct {
	db      *sql.DB
	watcher *Watcher
	dir     string
	mu      sync.RWMutex

	lastIndexed time.Time
}

// Config holds index configuration.
type Config struct {
	// Dir is the directory of conversation JSON files
	Dir string

	// DatabasePath is where to store the SQLite database
	DatabasePath string

	// EnableWatch enables file watching for incremental updates
	EnableWatch bool

	// WatchDebounce is the debounce duration for file change events
	WatchDebounce time.Duration
}

// DefaultConfig returns default configuration for a conversation directory.
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:           dir,
		DatabasePath:  filepath.Join(filepath.Dir(dir), "search.db"),
		EnableWatch:   true,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Open opens (creating if necessary) the index database.
func Open(config *Config) (*ConversationIndex, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	info, err := os.Stat(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidPath)
	}

	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	idx := &ConversationIndex{
		db:  db,
		dir: config.Dir,
	}

	if err := idx.setMetadata("schema_version", fmt.Sprintf("%d", SchemaVersion)); err != nil {
		db.Close()
		return nil, err
	}

	if config.EnableWatch {
		w, err := NewWatcher(idx, config.WatchDebounce)
		if err != nil {
			db.Close()
			return nil, err
		}
		idx.watcher = w
		if err := w.Watch(); err != nil {
			w.Close()
			db.Close()
			return nil, err
		}
	}

	return idx, nil
}

// Close stops the watcher and closes the database.
func (idx *ConversationIndex) Close() error {
	if idx.watcher != nil {
		idx.watcher.Close()
	}
	return idx.db.Close()
}

// =============================================================================
// INDEXING
// =============================================================================

// Rebuild re-indexes every conversation file in the directory.
func (idx *ConversationIndex) Rebuild(ctx context.Context) error {
	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return fmt.Errorf("failed to read conversation directory: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		// Corrupted files lose their index entry, nothing more.
		if err := idx.indexFile(filepath.Join(idx.dir, entry.Name())); err != nil {
			continue
		}
	}

	idx.mu.Lock()
	idx.lastIndexed = time.Now()
	idx.mu.Unlock()
	return nil
}

// indexFile parses one conversation file and indexes it.
func (idx *ConversationIndex) indexFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var c model.Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return idx.IndexConversation(&c)
}

// IndexConversation replaces the index entry for one conversation.
func (idx *ConversationIndex) IndexConversation(c *model.Conversation) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	// Replace wholesale: delete-then-insert keeps the FTS triggers simple.
	if _, err := tx.Exec(`DELETE FROM messages WHERE conv_id = ?`, c.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, c.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(
		`INSERT INTO conversations (id, title, message_count, updated_at, indexed_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Title, len(c.Messages), c.UpdatedAt.Unix(), now,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	for i := range c.Messages {
		msg := &c.Messages[i]
		// Placeholders and error text are transient UI state, not content.
		if msg.Loading || msg.Error {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO messages (conv_id, msg_id, role, content) VALUES (?, ?, ?, ?)`,
			c.ID, msg.ID, string(msg.Role), msg.Content,
		); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// RemoveConversation drops a conversation from the index.
func (idx *ConversationIndex) RemoveConversation(id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conv_id = ?`, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return tx.Commit()
}

// =============================================================================
// STATS
// =============================================================================

// Stats summarizes the index contents.
type Stats struct {
	Conversations int
	Messages      int
	LastIndexed   time.Time
}

// Stats returns index counts.
func (idx *ConversationIndex) Stats() (*Stats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var s Stats
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&s.Conversations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&s.Messages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	s.LastIndexed = idx.lastIndexed
	return &s, nil
}

func (idx *ConversationIndex) setMetadata(key, value string) error {
	_, err := idx.db.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}
