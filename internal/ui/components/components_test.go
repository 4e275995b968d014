// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "salad", 10, "salad"},
		{"exact", "salad", 5, "salad"},
		{"cut", "grocery list", 8, "grocery…"},
		{"zero width", "anything", 0, ""},
		{"wide runes", "寿司と天ぷら", 6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.width)
			if tt.name == "wide runes" {
				// Double-width runes: just assert the width cap holds.
				if len([]rune(got)) > 4 {
					t.Errorf("truncate(%q, %d) = %q, too wide", tt.input, tt.width, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestFmtMoney(t *testing.T) {
	if got := fmtMoney(12.5); got != "12.50" {
		t.Errorf("fmtMoney(12.5) = %q", got)
	}
	if got := fmtMoney(0); got != "0.00" {
		t.Errorf("fmtMoney(0) = %q", got)
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

func sampleConversations() []model.Conversation {
	return []model.Conversation{
		{ID: "conv_1", Title: "Dinner plans"},
		{ID: "conv_2", Title: "Weekly groceries"},
		{ID: "conv_3", Title: "New Chat"},
	}
}

func TestSidebarMarksActiveConversation(t *testing.T) {
	sb := NewSidebar(testTheme())
	sb.SetSize(24, 20)

	out := sb.View(sampleConversations(), "conv_2")
	if !strings.Contains(out, "Weekly groceries") {
		t.Error("active title missing from sidebar")
	}
	if !strings.Contains(out, "> Weekly groceries") {
		t.Error("active marker missing")
	}
}

func TestSidebarCursorClamps(t *testing.T) {
	sb := NewSidebar(testTheme())

	sb.MoveCursor(-5, 3)
	if sb.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", sb.Cursor())
	}
	sb.MoveCursor(10, 3)
	if sb.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", sb.Cursor())
	}
}

func TestSidebarSyncCursor(t *testing.T) {
	sb := NewSidebar(testTheme())
	convs := sampleConversations()

	sb.SyncCursor(convs, "conv_3")
	if sb.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", sb.Cursor())
	}

	// Unknown id falls back to the top.
	sb.SyncCursor(convs, "conv_gone")
	if sb.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", sb.Cursor())
	}
}

func TestSidebarTruncatesLongTitles(t *testing.T) {
	sb := NewSidebar(testTheme())
	sb.SetSize(20, 10)

	convs := []model.Conversation{
		{ID: "c1", Title: "a very long conversation title that cannot fit"},
	}
	out := sb.View(convs, "c1")
	if strings.Contains(out, "cannot fit") {
		t.Error("long title was not truncated")
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboardRendersSections(t *testing.T) {
	d := NewDashboard(testTheme())
	d.SetSize(44, 30)
	d.SetData(api.Dashboard{
		Favorites:      []api.Favorite{{Name: "oat milk", Count: 7}},
		Recipes:        []api.Recipe{{Title: "Lentil curry"}},
		Recommendation: "Try the paneer tikka tonight",
	})
	d.SetSummary(api.Summary{
		GroceryList: []string{"rice", "tomatoes"},
		Shops:       []api.ShopTotal{{Name: "Rewe", Total: 42.31}},
		TotalSpent:  42.31,
	})

	out := d.View()
	for _, want := range []string{"oat milk", "×7", "Lentil curry", "paneer", "rice", "Rewe", "42.31"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboardLoadingAndError(t *testing.T) {
	d := NewDashboard(testTheme())
	d.SetSize(44, 30)

	if out := d.View(); !strings.Contains(out, "Loading") {
		t.Error("expected loading placeholder before first fetch")
	}

	d.SetError(errors.New("connection refused"))
	if out := d.View(); !strings.Contains(out, "unavailable") {
		t.Error("expected unavailable notice after failed fetch")
	}

	// A later success clears the error.
	d.SetData(api.Dashboard{Recommendation: "soup"})
	if out := d.View(); strings.Contains(out, "unavailable") {
		t.Error("error notice should clear after successful fetch")
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBarStates(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusWaiting, "Thinking..."},
		{StatusRevealing, "Replying..."},
		{StatusError, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			sb := NewStatusBar(testTheme())
			sb.Status = tt.status
			sb.SetWidth(100)
			if out := sb.View(); !strings.Contains(out, tt.want) {
				t.Errorf("status bar missing %q", tt.want)
			}
		})
	}
}

func TestStatusBarHealthSegment(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(100)

	sb.Health = HealthOK
	if out := sb.View(); !strings.Contains(out, "online") {
		t.Error("missing online segment")
	}
	sb.Health = HealthDown
	if out := sb.View(); !strings.Contains(out, "offline") {
		t.Error("missing offline segment")
	}
}

// =============================================================================
// WELCOME
// =============================================================================

func TestWelcomeSuggestionSelection(t *testing.T) {
	w := NewWelcome(testTheme())

	if w.Selected() != DefaultSuggestions[0] {
		t.Errorf("initial selection = %q", w.Selected())
	}

	w.MoveCursor(1)
	if w.Selected() != DefaultSuggestions[1] {
		t.Errorf("after down = %q", w.Selected())
	}

	w.MoveCursor(-10)
	if w.Selected() != DefaultSuggestions[0] {
		t.Errorf("cursor should clamp at top, got %q", w.Selected())
	}
	w.MoveCursor(100)
	if w.Selected() != DefaultSuggestions[len(DefaultSuggestions)-1] {
		t.Errorf("cursor should clamp at bottom, got %q", w.Selected())
	}
}

func TestWelcomeViewContainsSuggestions(t *testing.T) {
	w := NewWelcome(testTheme())
	w.SetSize(100, 30)
	w.SetVersion("1.2.0")

	out := w.View()
	if !strings.Contains(out, "Meal Planner") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "1.2.0") {
		t.Error("missing version")
	}
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func TestParseCodeBlocks(t *testing.T) {
	text := "Here is the scaled recipe:\n```\n2x flour\n4x eggs\n```\nEnjoy!"
	out := ParseCodeBlocks(text, 80, styles.ModeDark)

	if !strings.Contains(out, "2x flour") {
		t.Error("code content missing")
	}
	if !strings.Contains(out, "Enjoy!") {
		t.Error("prose after fence missing")
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers should not survive rendering")
	}
}

func TestParseCodeBlocksUnterminated(t *testing.T) {
	text := "```python\nprint('hi')"
	out := ParseCodeBlocks(text, 80, styles.ModeLight)
	if !strings.Contains(out, "hi") {
		t.Error("unterminated fence content missing")
	}
}

func TestHighlightCodeFallsBackToPlain(t *testing.T) {
	code := "SELECT * FROM recipes"
	out := highlightCode(code, "not-a-language", true)
	if out == "" {
		t.Error("expected non-empty output")
	}
}
