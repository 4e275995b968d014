// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
	"github.com/jeranaias/mealplan-tui/internal/util"
)

// =============================================================================
// SESSION DATA
// =============================================================================

const sessionFileName = "session.json"

// Data is the persisted session record.
type Data struct {
	// SessionID identifies this install across runs; minted once.
	SessionID string `json:"session_id"`
	// Theme is "light" or "dark" once chosen, empty before any choice.
	Theme string `json:"theme,omitempty"`
	// ThemeExplicit is true once the user has toggled the theme; from then
	// on the platform dark-mode signal is never consulted again.
	ThemeExplicit bool `json:"theme_explicit,omitempty"`
	// LastActiveID mirrors the store's active conversation id.
	LastActiveID string    `json:"last_active_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the session file. Safe for concurrent use: the location
// report runs off the event loop and reads the session id.
type Manager struct {
	mu   sync.Mutex
	path string
	data Data
}

// NewManager loads (or creates) the session record under baseDir.
func NewManager(baseDir string) *Manager {
	m := &Manager{path: filepath.Join(baseDir, sessionFileName)}
	if err := m.load(); err != nil {
		// Malformed or missing session data is never fatal.
		m.data = Data{}
	}
	if m.data.SessionID == "" {
		m.data.SessionID = uuid.NewString()
		m.persistLocked()
	}
	return m
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &m.data)
}

// persistLocked writes the record atomically. Callers hold the lock (or are
// inside NewManager before the manager escapes).
func (m *Manager) persistLocked() {
	m.data.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		log.Printf("session: marshal: %v", err)
		return
	}
	// Session record carries the install id; keep its directory private too.
	if err := util.AtomicWriteFileWithDir(m.path, data, 0600, 0700); err != nil {
		log.Printf("session: write: %v", err)
	}
}

// SessionID returns the stable install identifier.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SessionID
}

// =============================================================================
// THEME PREFERENCE
// =============================================================================

// ResolveTheme picks the startup theme mode: the explicitly chosen theme if
// one was ever set, else the configured value (which may itself be "auto"
// and fall through to the terminal's dark-background signal).
func (m *Manager) ResolveTheme(configured string) styles.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data.ThemeExplicit && m.data.Theme != "" {
		return styles.ResolveMode(m.data.Theme)
	}
	return styles.ResolveMode(configured)
}

// SetTheme records an explicit theme choice. Persisted immediately; from
// now on ResolveTheme returns it unconditionally.
func (m *Manager) SetTheme(mode styles.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Theme = string(mode)
	m.data.ThemeExplicit = true
	m.persistLocked()
}

// =============================================================================
// ACTIVE CONVERSATION MIRROR
// =============================================================================

// SetActiveConversation mirrors the store's active id on every change.
func (m *Manager) SetActiveConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data.LastActiveID == id {
		return
	}
	m.data.LastActiveID = id
	m.persistLocked()
}

// LastActiveConversation returns the mirrored active id, empty if unknown.
func (m *Manager) LastActiveConversation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.LastActiveID
}
