// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mealplan TUI:
// the conversation sidebar, the dashboard pane, the status bar, the welcome
// screen with its suggestion buttons, and the code block renderer used for
// assistant replies that contain fenced code.
//
// Components are plain view structs. They hold no business state beyond what
// the root model hands them each frame, so toggling the theme or resizing the
// terminal only requires re-rendering.
package components
