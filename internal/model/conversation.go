// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"sync/atomic"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultConversationID is the id of the conversation the store falls
	// back to when it would otherwise be empty.
	DefaultConversationID = "default"

	// DefaultTitle is the label a conversation carries before its first
	// user message.
	DefaultTitle = "New Chat"

	// TitleMaxRunes bounds a title derived from the first user message.
	TitleMaxRunes = 25
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is a titled, ordered sequence of messages. Messages are
// append-only from the perspective of normal use; removal only happens by
// deleting the whole conversation.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation with a fresh id and the
// default title.
func NewConversation() Conversation {
	now := time.Now()
	return Conversation{
		ID:        generateConversationID(now),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultConversation creates the fallback conversation used whenever the
// store must not be left empty.
func DefaultConversation() Conversation {
	c := NewConversation()
	c.ID = DefaultConversationID
	return c
}

// Empty reports whether the conversation has no messages yet.
func (c *Conversation) Empty() bool {
	return len(c.Messages) == 0
}

// LastUserMessage returns the most recent user message, or false if the
// conversation contains none.
func (c *Conversation) LastUserMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// MessageIndex returns the index of the message with the given id, or -1.
func (c *Conversation) MessageIndex(id string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// TitleFromPrompt derives a conversation title from the first user prompt:
// the text verbatim, or its first TitleMaxRunes runes plus an ellipsis
// marker when longer.
//
// UNICODE: rune-aware so multi-byte characters are never split.
func TitleFromPrompt(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxRunes {
		return text
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// =============================================================================
// ID GENERATION
// =============================================================================

var idSeq atomic.Uint64

// nextSeq returns a per-process monotonic counter used to disambiguate ids
// minted within the same timestamp tick.
func nextSeq() uint64 {
	return idSeq.Add(1)
}

// generateConversationID builds a timestamp-derived conversation id.
func generateConversationID(t time.Time) string {
	return "conv_" + strconv.FormatInt(t.UnixNano(), 10) + "_" + strconv.FormatUint(nextSeq(), 10)
}
