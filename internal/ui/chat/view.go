// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/model"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages lays out the active conversation as alternating bubbles:
// user messages on the right, bot messages on the left.
func (m *Model) renderMessages() string {
	active := m.store.Active()
	if len(active.Messages) == 0 {
		return m.theme.Help.Render("\n  Start planning - ask about meals, groceries, or budgets.")
	}

	bubbleWidth := m.width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = m.width - 4
	}

	var b strings.Builder
	for i := range active.Messages {
		msg := &active.Messages[i]
		b.WriteString(m.renderMessage(msg, bubbleWidth))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) renderMessage(msg *model.Message, maxWidth int) string {
	content := msg.Content
	if msg.Loading && msg.Content == model.PlaceholderContent {
		content = m.spin.View() + " " + msg.Content
	}

	var bubble string
	switch {
	case msg.Error:
		bubble = m.theme.ErrorBubble.MaxWidth(maxWidth).Render(content)
	case msg.Role == model.RoleUser:
		bubble = m.theme.UserBubble.MaxWidth(maxWidth).Render(content)
	default:
		bubble = m.theme.BotBubble.MaxWidth(maxWidth).Render(content)
	}

	if msg.Role == model.RoleUser {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
	}
	return bubble
}
