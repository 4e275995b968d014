// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates mealplan configuration from
// ~/.mealplan/config.toml (or config.json), applies environment overrides,
// and exposes a thread-safe global accessor.
package config
