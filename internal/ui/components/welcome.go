// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// DefaultSuggestions are the starter prompts shown on an empty conversation.
// Selecting one submits it verbatim as the first user message.
var DefaultSuggestions = []string{
	"What should I cook for dinner tonight?",
	"Plan my meals for the week",
	"What's on my grocery list?",
	"Suggest a recipe with what I usually buy",
}

// Welcome is the empty-conversation screen: a title, a short tagline, and a
// row of selectable suggestion buttons.
type Welcome struct {
	theme   *styles.Theme
	width   int
	height  int
	version string

	suggestions []string
	cursor      int
}

// NewWelcome creates a welcome screen with the default suggestions.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		theme:       theme,
		version:     "dev",
		suggestions: DefaultSuggestions,
	}
}

// SetTheme swaps the style set after a theme toggle.
func (w *Welcome) SetTheme(theme *styles.Theme) {
	w.theme = theme
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// MoveCursor moves the suggestion highlight by delta, clamped.
func (w *Welcome) MoveCursor(delta int) {
	w.cursor += delta
	if w.cursor < 0 {
		w.cursor = 0
	}
	if w.cursor >= len(w.suggestions) {
		w.cursor = len(w.suggestions) - 1
	}
}

// Selected returns the highlighted suggestion text.
func (w Welcome) Selected() string {
	if len(w.suggestions) == 0 {
		return ""
	}
	return w.suggestions[w.cursor]
}

// View renders the welcome screen centered in the available space.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 56
	if width < 64 {
		boxWidth = width - 8
	}
	if boxWidth < 32 {
		boxWidth = 32
	}

	var b strings.Builder
	b.WriteString(w.theme.Title.Render("Meal Planner"))
	b.WriteString("\n")
	b.WriteString(w.theme.Help.Render("v" + w.version + " · ask anything about meals, recipes, and groceries"))
	b.WriteString("\n\n")

	for i, s := range w.suggestions {
		style := w.theme.SidebarItem
		prefix := "  "
		if i == w.cursor {
			style = w.theme.SidebarActiveItem
			prefix = "> "
		}
		b.WriteString(style.Render(truncate(prefix+s, boxWidth-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.theme.Help.Render("↑/↓ choose · enter ask · or just start typing"))

	box := w.theme.Border.Width(boxWidth).Padding(1, 2).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
