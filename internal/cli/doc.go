// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of mealplan: one-shot
// questions, an interactive REPL, dashboard and health views, history,
// search, export, and configuration management.
//
// The package owns argument parsing (Parse and ArgParser) and the shared
// terminal-aware styling used by every command. Command handlers print to
// stdout and return errors; exit codes are decided in main.
package cli
