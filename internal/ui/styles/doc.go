// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the mealplan TUI color palette, the light/dark
// theme, and responsive layout breakpoints.
//
// Colors are Lip Gloss AdaptiveColor pairs; the Theme picks a side by
// applying its Mode to the renderer. "auto" resolves against the terminal's
// dark-background signal until the user makes an explicit choice, which the
// session then persists.
package styles
