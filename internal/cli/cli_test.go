// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/mealplan-tui/internal/model"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserFlags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		sub  string
		flag map[string]string
		bool map[string]bool
	}{
		{
			name: "long flags with values",
			raw:  []string{"list", "--limit", "20", "--format", "json"},
			sub:  "list",
			flag: map[string]string{"limit": "20", "format": "json"},
		},
		{
			name: "equals form",
			raw:  []string{"--out=dinner.md"},
			flag: map[string]string{"out": "dinner.md"},
		},
		{
			name: "boolean flags",
			raw:  []string{"show", "--json", "-q"},
			sub:  "show",
			bool: map[string]bool{"json": true, "q": true},
		},
		{
			name: "explicit boolean",
			raw:  []string{"--json=false"},
			bool: map[string]bool{"json": false},
		},
		{
			name: "short flag with value",
			raw:  []string{"-l", "5"},
			flag: map[string]string{"l": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.raw)
			if p.Subcommand() != tt.sub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.sub)
			}
			for k, v := range tt.flag {
				if got := p.Flag(k); got != v {
					t.Errorf("Flag(%q) = %q, want %q", k, got, v)
				}
			}
			for k, v := range tt.bool {
				if got := p.BoolFlag(k); got != v {
					t.Errorf("BoolFlag(%q) = %v, want %v", k, got, v)
				}
			}
		})
	}
}

func TestArgParserPositional(t *testing.T) {
	p := NewArgParser([]string{"search", "lentil", "curry", "--limit", "5"})

	if p.PositionalCount() != 3 {
		t.Fatalf("PositionalCount() = %d, want 3", p.PositionalCount())
	}
	if got := strings.Join(p.PositionalFrom(1), " "); got != "lentil curry" {
		t.Errorf("joined positionals = %q", got)
	}
	if p.Positional(10) != "" {
		t.Error("out-of-range positional should be empty")
	}
	if p.FlagIntOrDefault("limit", 50) != 5 {
		t.Error("FlagIntOrDefault should parse the flag")
	}
	if p.FlagIntOrDefault("missing", 50) != 50 {
		t.Error("FlagIntOrDefault should fall back")
	}
}

// =============================================================================
// GLOBAL FLAG PARSING
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--theme", "dark", "ask", "what's", "for", "dinner", "--json"})

	if args.Theme != "dark" {
		t.Errorf("Theme = %q", args.Theme)
	}
	if !args.JSON {
		t.Error("JSON flag not picked up")
	}
	if strings.Join(remaining, " ") != "ask what's for dinner" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseGlobalFlagsThemeEquals(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--theme=light", "dashboard"})
	if args.Theme != "light" {
		t.Errorf("Theme = %q", args.Theme)
	}
	if len(remaining) != 1 || remaining[0] != "dashboard" {
		t.Errorf("remaining = %v", remaining)
	}
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

func TestWrapText(t *testing.T) {
	out := WrapText("one two three four five six seven eight nine ten", 20)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 20 {
			t.Errorf("line too long: %q", line)
		}
	}

	// Existing newlines are preserved.
	out = WrapText("a\nb", 40)
	if out != "a\nb" {
		t.Errorf("WrapText altered short lines: %q", out)
	}
}

// =============================================================================
// MARKDOWN EXPORT
// =============================================================================

func TestFormatMarkdown(t *testing.T) {
	now := time.Now()
	c := model.Conversation{
		ID:        "conv_1",
		Title:     "Dinner plans",
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []model.Message{
			{ID: "u1", Role: model.RoleUser, Content: "what's for dinner?", Timestamp: now},
			{ID: "b1", Role: model.RoleBot, Content: "How about risotto?", Timestamp: now},
			{ID: "b2", Role: model.RoleBot, Content: "Thinking...", Loading: true, Timestamp: now},
			{ID: "b3", Role: model.RoleBot, Content: "request timed out", Error: true, Timestamp: now},
		},
	}

	md := FormatMarkdown(c)

	if !strings.HasPrefix(md, "# Dinner plans\n") {
		t.Error("missing title heading")
	}
	if !strings.Contains(md, "**You:** what's for dinner?") {
		t.Error("missing user message")
	}
	if !strings.Contains(md, "**Assistant:** How about risotto?") {
		t.Error("missing bot message")
	}
	if strings.Contains(md, "Thinking...") {
		t.Error("loading placeholder should be skipped")
	}
	if !strings.Contains(md, "(error)") {
		t.Error("failed reply should be marked")
	}
}
