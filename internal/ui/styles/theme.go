// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode is the binary theme choice.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ResolveMode turns a configured theme value ("light", "dark", "auto" or
// empty) into a concrete Mode. The auto path falls back to the terminal's
// dark-background signal, mirroring a platform dark-mode preference. Once a
// user has explicitly chosen a theme the session persists it and this
// detection never runs again.
func ResolveMode(configured string) Mode {
	switch strings.ToLower(configured) {
	case "light":
		return ModeLight
	case "dark":
		return ModeDark
	default:
		if termenv.HasDarkBackground() {
			return ModeDark
		}
		return ModeLight
	}
}

// Toggle flips between light and dark.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Apply tells the Lip Gloss renderer which side of every AdaptiveColor to
// use. Must be called before styles are rendered, and again on toggle.
func (m Mode) Apply() {
	lipgloss.SetHasDarkBackground(m == ModeDark)
}

// =============================================================================
// LAYOUT MODES
// =============================================================================

// LayoutMode describes how much horizontal space the UI has to work with.
type LayoutMode int

const (
	// LayoutNarrow hides the sidebar and stacks panels (< 80 columns).
	LayoutNarrow LayoutMode = iota
	// LayoutMedium shows a slim sidebar (80-119 columns).
	LayoutMedium
	// LayoutWide shows the full sidebar and dashboard pane (>= 120 columns).
	LayoutWide
)

// LayoutForWidth picks the layout mode for a terminal width.
func LayoutForWidth(width int) LayoutMode {
	switch {
	case width < 80:
		return LayoutNarrow
	case width < 120:
		return LayoutMedium
	default:
		return LayoutWide
	}
}

// SidebarWidth returns the sidebar's column budget for a layout.
func (l LayoutMode) SidebarWidth() int {
	switch l {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 24
	default:
		return 32
	}
}

// =============================================================================
// THEME
// =============================================================================

// Theme bundles every style the UI renders with. Components receive a
// *Theme instead of reaching for package globals so the whole tree re-renders
// consistently after a theme toggle.
type Theme struct {
	Mode Mode

	// Chrome
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style

	// Sidebar
	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarActiveItem lipgloss.Style

	// Messages
	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	ErrorBubble lipgloss.Style
	Loading     lipgloss.Style
	Timestamp   lipgloss.Style

	// Dashboard
	PanelTitle lipgloss.Style
	PanelBody  lipgloss.Style
	Accent     lipgloss.Style
	Warning    lipgloss.Style
	ErrorText  lipgloss.Style
}

// NewTheme builds the style set for a mode and applies the mode to the
// renderer.
func NewTheme(mode Mode) *Theme {
	mode.Apply()

	return &Theme{
		Mode: mode,

		Title: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(SurfaceDim),

		Help: lipgloss.NewStyle().
			Foreground(TextMuted),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(Overlay),

		SidebarTitle: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true).
			Padding(0, 1),

		SidebarItem: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1),

		SidebarActiveItem: lipgloss.NewStyle().
			Foreground(TextInverse).
			Background(Emerald).
			Bold(true).
			Padding(0, 1),

		UserBubble: lipgloss.NewStyle().
			Foreground(UserBubbleFg).
			Background(UserBubbleBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(UserBubbleBorder).
			Padding(0, 1),

		BotBubble: lipgloss.NewStyle().
			Foreground(BotBubbleFg).
			Background(BotBubbleBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BotBubbleBorder).
			Padding(0, 1),

		ErrorBubble: lipgloss.NewStyle().
			Foreground(ErrorBubbleFg).
			Background(ErrorBubbleBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Rose).
			Padding(0, 1),

		Loading: lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true),

		Timestamp: lipgloss.NewStyle().
			Foreground(TextMuted),

		PanelTitle: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),

		PanelBody: lipgloss.NewStyle().
			Foreground(TextPrimary),

		Accent: lipgloss.NewStyle().
			Foreground(Emerald),

		Warning: lipgloss.NewStyle().
			Foreground(Amber),

		ErrorText: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),
	}
}
