// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// DASHBOARD PANE
// =============================================================================

// Dashboard renders the favorites / recipes / recommendation pane plus the
// grocery summary. Data is fetched by the root model; the pane renders
// whatever it was last given, falling back to typed zero values so the layout
// never collapses while a fetch is in flight or failed.
type Dashboard struct {
	theme  *styles.Theme
	width  int
	height int

	data     api.Dashboard
	summary  api.Summary
	loaded   bool
	fetchErr error
}

// NewDashboard creates an empty dashboard pane.
func NewDashboard(theme *styles.Theme) Dashboard {
	return Dashboard{theme: theme, summary: api.DefaultSummary}
}

// SetTheme swaps the style set after a theme toggle.
func (d *Dashboard) SetTheme(theme *styles.Theme) {
	d.theme = theme
}

// SetSize updates the dimensions.
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetData stores a fetched dashboard payload.
func (d *Dashboard) SetData(data api.Dashboard) {
	d.data = data
	d.loaded = true
	d.fetchErr = nil
}

// SetSummary stores a fetched grocery summary.
func (d *Dashboard) SetSummary(summary api.Summary) {
	d.summary = summary
}

// SetError records a failed fetch. Existing data keeps rendering.
func (d *Dashboard) SetError(err error) {
	d.fetchErr = err
}

// View renders the dashboard pane.
func (d Dashboard) View() string {
	width := d.width
	if width <= 0 {
		width = 40
	}
	inner := width - 4

	var sections []string

	if d.fetchErr != nil {
		sections = append(sections, d.theme.ErrorText.Render(truncate("dashboard unavailable", inner)))
	} else if !d.loaded {
		sections = append(sections, d.theme.Loading.Render("Loading dashboard..."))
	}

	if len(d.data.Favorites) > 0 {
		var b strings.Builder
		b.WriteString(d.theme.PanelTitle.Render("Favorites"))
		for _, f := range d.data.Favorites {
			b.WriteString("\n")
			line := f.Name + " ×" + toStr(f.Count)
			b.WriteString(d.theme.PanelBody.Render(truncate(line, inner)))
		}
		sections = append(sections, b.String())
	}

	if len(d.data.Recipes) > 0 {
		var b strings.Builder
		b.WriteString(d.theme.PanelTitle.Render("Recipes"))
		for _, r := range d.data.Recipes {
			b.WriteString("\n")
			b.WriteString(d.theme.PanelBody.Render(truncate("• "+r.Title, inner)))
		}
		sections = append(sections, b.String())
	}

	if d.data.Recommendation != "" {
		rec := d.theme.PanelTitle.Render("Today") + "\n" +
			d.theme.Accent.Render(wrap(d.data.Recommendation, inner))
		sections = append(sections, rec)
	}

	if s := d.renderSummary(inner); s != "" {
		sections = append(sections, s)
	}

	body := strings.Join(sections, "\n\n")
	return d.theme.Border.Width(width - 2).Render(body)
}

// renderSummary renders the grocery list and per-shop spending.
func (d Dashboard) renderSummary(inner int) string {
	if len(d.summary.GroceryList) == 0 && len(d.summary.Shops) == 0 && d.summary.TotalSpent == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(d.theme.PanelTitle.Render("Groceries"))
	for _, item := range d.summary.GroceryList {
		b.WriteString("\n")
		b.WriteString(d.theme.PanelBody.Render(truncate("· "+item, inner)))
	}
	for _, shop := range d.summary.Shops {
		b.WriteString("\n")
		line := padRight(shop.Name, inner-8) + fmtMoney(shop.Total)
		b.WriteString(d.theme.PanelBody.Render(line))
	}
	if d.summary.TotalSpent > 0 {
		b.WriteString("\n")
		b.WriteString(d.theme.Accent.Render(padRight("Total", inner-8) + fmtMoney(d.summary.TotalSpent)))
	}
	return b.String()
}

// wrap soft-wraps text at width using lipgloss.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// toStr converts an integer to a string without fmt.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + toStr(-n)
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
