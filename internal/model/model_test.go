// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewConversation(t *testing.T) {
	c := NewConversation()

	if c.ID == "" {
		t.Error("expected non-empty id")
	}
	if !strings.HasPrefix(c.ID, "conv_") {
		t.Errorf("expected conv_ prefix, got %q", c.ID)
	}
	if c.Title != DefaultTitle {
		t.Errorf("expected title %q, got %q", DefaultTitle, c.Title)
	}
	if len(c.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(c.Messages))
	}
	if !c.Empty() {
		t.Error("expected Empty() to be true")
	}
}

func TestDefaultConversation(t *testing.T) {
	c := DefaultConversation()

	if c.ID != DefaultConversationID {
		t.Errorf("expected id %q, got %q", DefaultConversationID, c.ID)
	}
	if c.Title != DefaultTitle {
		t.Errorf("expected title %q, got %q", DefaultTitle, c.Title)
	}
}

func TestConversationIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c := NewConversation()
		if seen[c.ID] {
			t.Fatalf("duplicate conversation id: %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestTitleFromPrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "short prompt verbatim",
			prompt: "Plan my week",
			want:   "Plan my week",
		},
		{
			name:   "exactly at limit",
			prompt: strings.Repeat("a", TitleMaxRunes),
			want:   strings.Repeat("a", TitleMaxRunes),
		},
		{
			name:   "one over limit",
			prompt: strings.Repeat("a", TitleMaxRunes+1),
			want:   strings.Repeat("a", TitleMaxRunes) + "...",
		},
		{
			name:   "long prompt truncated",
			prompt: "What should I cook for dinner this week given my budget",
			want:   "What should I cook for di...",
		},
		{
			name:   "multibyte runes preserved",
			prompt: strings.Repeat("日", 30),
			want:   strings.Repeat("日", TitleMaxRunes) + "...",
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleFromPrompt(tt.prompt)
			if got != tt.want {
				t.Errorf("TitleFromPrompt(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello")

	if m.Role != RoleUser {
		t.Errorf("expected role %q, got %q", RoleUser, m.Role)
	}
	if m.Content != "hello" {
		t.Errorf("expected content %q, got %q", "hello", m.Content)
	}
	if m.Loading {
		t.Error("user message should not be loading")
	}
	if m.Error {
		t.Error("user message should not be an error")
	}
	if !strings.HasPrefix(m.ID, "user_") {
		t.Errorf("expected user_ prefix, got %q", m.ID)
	}
	if !m.Settled() {
		t.Error("user message should be settled at creation")
	}
}

func TestNewBotPlaceholder(t *testing.T) {
	m := NewBotPlaceholder()

	if m.Role != RoleBot {
		t.Errorf("expected role %q, got %q", RoleBot, m.Role)
	}
	if !m.Loading {
		t.Error("placeholder should be loading")
	}
	if m.Error {
		t.Error("placeholder should not be an error")
	}
	if m.Content != PlaceholderContent {
		t.Errorf("expected content %q, got %q", PlaceholderContent, m.Content)
	}
	if !strings.HasPrefix(m.ID, "bot_") {
		t.Errorf("expected bot_ prefix, got %q", m.ID)
	}
	if m.Settled() {
		t.Error("placeholder should not be settled")
	}
}

func TestLastUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
		found    bool
	}{
		{
			name:     "empty conversation",
			messages: nil,
			found:    false,
		},
		{
			name: "single user message",
			messages: []Message{
				NewUserMessage("first"),
			},
			want:  "first",
			found: true,
		},
		{
			name: "user then bot",
			messages: []Message{
				NewUserMessage("question"),
				NewBotPlaceholder(),
			},
			want:  "question",
			found: true,
		},
		{
			name: "picks most recent user",
			messages: []Message{
				NewUserMessage("old"),
				NewBotPlaceholder(),
				NewUserMessage("new"),
			},
			want:  "new",
			found: true,
		},
		{
			name: "bot only",
			messages: []Message{
				NewBotPlaceholder(),
			},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConversation()
			c.Messages = tt.messages

			m, ok := c.LastUserMessage()
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if ok && m.Content != tt.want {
				t.Errorf("content = %q, want %q", m.Content, tt.want)
			}
		})
	}
}

func TestMessageIndex(t *testing.T) {
	c := NewConversation()
	u := NewUserMessage("hi")
	b := NewBotPlaceholder()
	c.Messages = []Message{u, b}

	if i := c.MessageIndex(u.ID); i != 0 {
		t.Errorf("expected index 0, got %d", i)
	}
	if i := c.MessageIndex(b.ID); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := c.MessageIndex("missing"); i != -1 {
		t.Errorf("expected -1 for missing id, got %d", i)
	}
}
