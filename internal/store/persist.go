// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/util"
)

// =============================================================================
// PERSISTENCE
// =============================================================================

const (
	stateFileName    = "state.json"
	conversationsDir = "conversations"
)

// storeState is the on-disk record of collection order and active pointer.
type storeState struct {
	Order    []string `json:"order"`
	ActiveID string   `json:"active_id"`
}

// ConversationsDir returns the directory holding one JSON file per
// conversation. The search index watches this directory for changes.
func (s *Store) ConversationsDir() string {
	return filepath.Join(s.baseDir, conversationsDir)
}

func (s *Store) statePath() string {
	return filepath.Join(s.baseDir, stateFileName)
}

func (s *Store) conversationPath(id string) string {
	return filepath.Join(s.ConversationsDir(), id+".json")
}

// load rehydrates the collection and active id from disk.
func (s *Store) load() error {
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		return err
	}

	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	conversations := make([]model.Conversation, 0, len(state.Order))
	for _, id := range state.Order {
		c, err := s.loadConversation(id)
		if err != nil {
			// RELIABILITY: a corrupted file loses one conversation, not
			// the whole collection.
			log.Printf("store: skipping conversation %s: %v", id, err)
			continue
		}
		conversations = append(conversations, c)
	}

	s.conversations = conversations
	s.activeID = state.ActiveID
	return nil
}

func (s *Store) loadConversation(id string) (model.Conversation, error) {
	data, err := os.ReadFile(s.conversationPath(id))
	if err != nil {
		return model.Conversation{}, err
	}
	var c model.Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Conversation{}, err
	}
	if c.ID == "" {
		c.ID = id
	}
	if c.Messages == nil {
		c.Messages = []model.Message{}
	}
	return c, nil
}

// persistState writes the order and active id atomically.
func (s *Store) persistState() {
	order := make([]string, len(s.conversations))
	for i := range s.conversations {
		order[i] = s.conversations[i].ID
	}
	state := storeState{Order: order, ActiveID: s.activeID}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("store: marshal state: %v", err)
		return
	}
	if err := util.AtomicWriteFile(s.statePath(), data, 0600); err != nil {
		log.Printf("store: write state: %v", err)
	}
}

// persistConversation writes one conversation file atomically.
func (s *Store) persistConversation(c model.Conversation) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Printf("store: marshal conversation %s: %v", c.ID, err)
		return
	}
	if err := util.AtomicWriteFile(s.conversationPath(c.ID), data, 0600); err != nil {
		log.Printf("store: write conversation %s: %v", c.ID, err)
	}
}

// persistAll writes every conversation plus the state file.
func (s *Store) persistAll() {
	for i := range s.conversations {
		s.persistConversation(s.conversations[i])
	}
	s.persistState()
}

func (s *Store) removeConversationFile(id string) {
	if err := os.Remove(s.conversationPath(id)); err != nil && !os.IsNotExist(err) {
		log.Printf("store: remove conversation %s: %v", id, err)
	}
}
