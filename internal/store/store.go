// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"log"

	"github.com/jeranaias/mealplan-tui/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store holds the ordered conversation collection and the active id.
//
// Mutations always replace the collection with a newly computed slice rather
// than editing entries in place, so persistence fires deterministically on
// every logical change.
type Store struct {
	baseDir       string
	conversations []model.Conversation
	activeID      string
}

// New creates a Store rooted at baseDir and rehydrates any persisted state.
// Missing or malformed state falls back to a single default conversation.
func New(baseDir string) *Store {
	s := &Store{baseDir: baseDir}
	if err := s.load(); err != nil {
		log.Printf("store: rehydration failed, starting fresh: %v", err)
		s.reset()
	}
	if len(s.conversations) == 0 {
		s.reset()
	}
	// Stale active id falls back to the first conversation.
	if s.indexOf(s.activeID) < 0 {
		s.activeID = s.conversations[0].ID
	}
	return s
}

// reset replaces the collection with a single default conversation.
func (s *Store) reset() {
	def := model.DefaultConversation()
	s.conversations = []model.Conversation{def}
	s.activeID = def.ID
	s.persistAll()
}

// Conversations returns the ordered collection. The returned slice is a
// copy; callers cannot mutate store state through it.
func (s *Store) Conversations() []model.Conversation {
	out := make([]model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// ActiveID returns the id of the active conversation.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns the active conversation.
func (s *Store) Active() model.Conversation {
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.conversations[i]
	}
	// Invariant: the collection is never empty.
	return s.conversations[0]
}

// Get returns the conversation with the given id.
func (s *Store) Get(id string) (model.Conversation, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.conversations[i], nil
	}
	return model.Conversation{}, notFound(id)
}

// Count returns the number of conversations.
func (s *Store) Count() int {
	return len(s.conversations)
}

func (s *Store) indexOf(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// COLLECTION OPERATIONS
// =============================================================================

// CreateConversation starts a new chat. If an existing conversation has zero
// messages it is selected instead of creating a duplicate, so repeated "new
// chat" actions are idempotent. Otherwise a fresh conversation is prepended
// and made active.
func (s *Store) CreateConversation() model.Conversation {
	for i := range s.conversations {
		if s.conversations[i].Empty() {
			s.activeID = s.conversations[i].ID
			s.persistState()
			return s.conversations[i]
		}
	}

	c := model.NewConversation()
	next := make([]model.Conversation, 0, len(s.conversations)+1)
	next = append(next, c)
	next = append(next, s.conversations...)
	s.conversations = next
	s.activeID = c.ID
	s.persistConversation(c)
	s.persistState()
	return c
}

// DeleteConversation removes the conversation with the given id. Deleting
// the last remaining conversation replaces the collection with a single
// fresh default conversation. If the deleted conversation was active, the
// first remaining conversation (index 0 of the filtered list) becomes
// active.
func (s *Store) DeleteConversation(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return notFound(id)
	}

	if len(s.conversations) == 1 {
		removed := s.conversations[0]
		s.reset()
		s.removeConversationFile(removed.ID)
		return nil
	}

	next := make([]model.Conversation, 0, len(s.conversations)-1)
	for i := range s.conversations {
		if i != idx {
			next = append(next, s.conversations[i])
		}
	}
	s.conversations = next
	if s.activeID == id {
		s.activeID = s.conversations[0].ID
	}
	s.removeConversationFile(id)
	s.persistState()
	return nil
}

// SelectConversation makes the conversation with the given id active.
func (s *Store) SelectConversation(id string) error {
	if s.indexOf(id) < 0 {
		return notFound(id)
	}
	s.activeID = id
	s.persistState()
	return nil
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// AppendMessage appends a message to the named conversation. If the
// conversation is empty and the message is a user message, the title is
// rewritten from the message text first.
func (s *Store) AppendMessage(convID string, msg model.Message) error {
	idx := s.indexOf(convID)
	if idx < 0 {
		return notFound(convID)
	}

	c := s.conversations[idx]
	if c.Empty() && msg.Role == model.RoleUser {
		c.Title = model.TitleFromPrompt(msg.Content)
	}
	msgs := make([]model.Message, 0, len(c.Messages)+1)
	msgs = append(msgs, c.Messages...)
	msgs = append(msgs, msg)
	c.Messages = msgs
	c.UpdatedAt = msg.Timestamp

	s.replace(idx, c)
	return nil
}

// SetMessageContent overwrites a message's content and loading flag. Used by
// the reveal path: intermediate writes keep loading true, the final write
// clears it.
func (s *Store) SetMessageContent(convID, msgID, content string, loading bool) error {
	return s.updateMessage(convID, msgID, func(m *model.Message) {
		m.Content = content
		m.Loading = loading
		m.Error = false
	})
}

// FailMessage settles a message on the error path: content becomes the
// failure description, error is set, loading is cleared. Terminal.
func (s *Store) FailMessage(convID, msgID, failure string) error {
	return s.updateMessage(convID, msgID, func(m *model.Message) {
		m.Content = failure
		m.Error = true
		m.Loading = false
	})
}

// updateMessage applies fn to one message and persists the conversation.
// A missing conversation or message returns an error; callers handling late
// network responses treat that as a no-op.
func (s *Store) updateMessage(convID, msgID string, fn func(*model.Message)) error {
	idx := s.indexOf(convID)
	if idx < 0 {
		return notFound(convID)
	}

	c := s.conversations[idx]
	mi := c.MessageIndex(msgID)
	if mi < 0 {
		return messageNotFound(msgID)
	}

	msgs := make([]model.Message, len(c.Messages))
	copy(msgs, c.Messages)
	fn(&msgs[mi])
	c.Messages = msgs

	s.replace(idx, c)
	return nil
}

// replace swaps one conversation in a freshly built collection slice and
// persists it.
func (s *Store) replace(idx int, c model.Conversation) {
	next := make([]model.Conversation, len(s.conversations))
	copy(next, s.conversations)
	next[idx] = c
	s.conversations = next
	s.persistConversation(c)
	s.persistState()
}
