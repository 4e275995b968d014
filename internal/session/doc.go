// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists per-user preferences (theme, last active
// conversation) across runs and performs the one-shot startup location
// report.
//
// The theme preference distinguishes "never chosen" from an explicit
// choice: until the user toggles the theme, startup re-resolves it from the
// terminal's dark-background signal; after an explicit choice that value
// wins forever.
package session
