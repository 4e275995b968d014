// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar renders the conversation list. The list itself lives in the store;
// the sidebar only tracks a cursor for keyboard navigation, which is distinct
// from the active conversation until the user confirms a selection.
type Sidebar struct {
	theme  *styles.Theme
	width  int
	height int

	cursor  int
	focused bool
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme, width: 24}
}

// SetTheme swaps the style set after a theme toggle.
func (s *Sidebar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetSize updates the dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetFocused marks whether keyboard navigation targets the sidebar.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the sidebar has keyboard focus.
func (s Sidebar) Focused() bool {
	return s.focused
}

// Cursor returns the highlighted list position.
func (s Sidebar) Cursor() int {
	return s.cursor
}

// MoveCursor moves the highlight by delta, clamped to the list bounds.
func (s *Sidebar) MoveCursor(delta, listLen int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= listLen {
		s.cursor = listLen - 1
	}
}

// SyncCursor snaps the cursor to the conversation with the given id, falling
// back to the top of the list. Called after creates, deletes, and selections
// so the highlight never points at a stale position.
func (s *Sidebar) SyncCursor(conversations []model.Conversation, activeID string) {
	s.cursor = 0
	for i := range conversations {
		if conversations[i].ID == activeID {
			s.cursor = i
			return
		}
	}
}

// View renders the sidebar for the given conversation list.
func (s Sidebar) View(conversations []model.Conversation, activeID string) string {
	if s.width <= 0 {
		return ""
	}

	// One cell border, one cell padding each side.
	itemWidth := s.width - 3
	if itemWidth < 4 {
		itemWidth = 4
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	for i := range conversations {
		c := &conversations[i]

		marker := "  "
		if c.ID == activeID {
			marker = "> "
		}
		label := truncate(marker+c.Title, itemWidth)

		style := s.theme.SidebarItem
		if c.ID == activeID {
			style = s.theme.SidebarActiveItem
		} else if s.focused && i == s.cursor {
			style = s.theme.SidebarItem.Foreground(styles.TextPrimary).Bold(true)
		}
		b.WriteString(style.Render(padRight(label, itemWidth)))
		b.WriteString("\n")
	}

	hint := "n new · d delete"
	if !s.focused {
		hint = "tab to focus"
	}
	b.WriteString("\n")
	b.WriteString(s.theme.Help.Render(truncate(hint, itemWidth)))

	body := b.String()
	if s.height > 0 {
		body = lipgloss.NewStyle().Height(s.height).Render(body)
	}
	return s.theme.Sidebar.Width(s.width - 1).Render(body)
}
