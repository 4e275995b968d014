// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusWaiting
	StatusRevealing
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusWaiting:
		return "Thinking..."
	case StatusRevealing:
		return "Replying..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: distinct shapes alongside colors for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return "+"
	case StatusWaiting:
		return "o"
	case StatusRevealing:
		return "~"
	case StatusError:
		return "x"
	default:
		return "?"
	}
}

// Health mirrors the backend health endpoint for the connection segment.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthDegraded
	HealthDown
)

// StatusBar is the bottom status bar: status, active conversation title,
// backend health, and key hints.
type StatusBar struct {
	theme *styles.Theme

	Width     int
	Status    Status
	ConvTitle string
	Health    Health
	ShowHints bool
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		theme:     theme,
		Width:     80,
		Status:    StatusReady,
		Health:    HealthUnknown,
		ShowHints: true,
	}
}

// SetTheme swaps the style set after a theme toggle.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// healthSegment renders the backend connection state.
func (s *StatusBar) healthSegment() string {
	switch s.Health {
	case HealthOK:
		return s.theme.Accent.Render("online")
	case HealthDegraded:
		return s.theme.Warning.Render("degraded")
	case HealthDown:
		return s.theme.ErrorText.Render("offline")
	default:
		return s.theme.Help.Render("...")
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	statusStyle := s.theme.Help
	if s.Status == StatusError {
		statusStyle = s.theme.ErrorText
	}
	left := statusStyle.Render(s.Status.Icon() + " " + s.Status.String())

	mid := ""
	if s.ConvTitle != "" {
		mid = s.theme.Help.Render(truncate(s.ConvTitle, 30))
	}

	right := s.healthSegment()
	if s.ShowHints {
		right = s.theme.Help.Render("^N new · ^T theme · ^C quit") + "  " + right
	}

	// Pad the middle so left and right hug the edges.
	used := lipgloss.Width(left) + lipgloss.Width(mid) + lipgloss.Width(right)
	gapTotal := s.Width - used - 2
	if gapTotal < 2 {
		gapTotal = 2
	}
	gapL := gapTotal / 2
	gapR := gapTotal - gapL

	line := " " + left + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right + " "
	return s.theme.StatusBar.MaxWidth(s.Width).Render(line)
}
