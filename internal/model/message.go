// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies who produced a message.
type Role string

const (
	// RoleUser marks a message typed (or picked as a suggestion) by the user.
	RoleUser Role = "user"

	// RoleBot marks a message produced by the assistant, including the
	// loading placeholder that precedes the real reply.
	RoleBot Role = "bot"
)

// PlaceholderContent is the short "working" string shown inside a bot
// placeholder while the reply is still being produced.
const PlaceholderContent = "Thinking..."

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single chat message. A user message is created complete. A
// bot message is created as a placeholder (Loading=true) and then settled in
// place exactly once: the reveal path grows Content and finally clears
// Loading, or the error path writes a failure description and sets Error.
// A settled message is never mutated again.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Loading   bool      `json:"loading,omitempty"`
	Error     bool      `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a completed user message.
func NewUserMessage(content string) Message {
	now := time.Now()
	return Message{
		ID:        generateMessageID(RoleUser, now),
		Role:      RoleUser,
		Content:   content,
		Timestamp: now,
	}
}

// NewBotPlaceholder creates a bot message in the loading state. Its content
// is a short working indicator until the reveal or error path settles it.
func NewBotPlaceholder() Message {
	now := time.Now()
	return Message{
		ID:        generateMessageID(RoleBot, now),
		Role:      RoleBot,
		Content:   PlaceholderContent,
		Loading:   true,
		Timestamp: now,
	}
}

// NewBotMessage creates an already-settled bot message. Used by the one-shot
// CLI paths, which have the full reply in hand and skip the loading state.
func NewBotMessage(content string) Message {
	now := time.Now()
	return Message{
		ID:        generateMessageID(RoleBot, now),
		Role:      RoleBot,
		Content:   content,
		Timestamp: now,
	}
}

// Settled reports whether the message has reached a terminal state.
// User messages are settled at creation.
func (m *Message) Settled() bool {
	return !m.Loading
}

// generateMessageID builds a role-prefixed, timestamp-derived id, unique
// within a conversation (nanosecond resolution plus a per-process counter
// guards against same-tick collisions).
func generateMessageID(role Role, t time.Time) string {
	return string(role) + "_" + strconv.FormatInt(t.UnixNano(), 10) + "_" + strconv.FormatUint(nextSeq(), 10)
}
