// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// truncate shortens s to fit within width terminal cells, appending an
// ellipsis when anything was cut. UNICODE: width is measured in display
// cells, not runes, so CJK and emoji titles truncate cleanly.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads s with spaces to exactly width display cells, truncating
// first if it is too long.
func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// fmtMoney renders a float as a currency amount with two decimals.
func fmtMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
