// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Dashboard and health commands for the mealplan CLI.
//
// Command: dashboard
//   Shows favorites, suggested recipes, the daily recommendation, and the
//   grocery summary fetched from the backend.
//
// Command: health
//   Checks the backend health endpoint and reports per-service status.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/config"
)

const fetchTimeout = 15 * time.Second

// HandleDashboard implements `mealplan dashboard`.
func HandleDashboard(args Args) error {
	cfg := config.Global()
	client := api.New(cfg)
	if !client.IsConfigured() {
		return fmt.Errorf("no backend configured; set api.base_url or MEALPLAN_API_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	dash, err := client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	// Summary failures degrade to the typed default rather than aborting.
	summary, err := client.Summary(ctx)
	if err != nil {
		s := api.DefaultSummary
		summary = &s
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"dashboard": dash,
			"summary":   summary,
		})
	}

	fmt.Println(TitleStyle.Render("Dashboard"))

	if dash.Recommendation != "" {
		fmt.Println(SectionStyle.Render("Today"))
		fmt.Println("  " + ValueStyle.Render(WrapText(dash.Recommendation, GetTerminalWidth()-2)))
	}

	if len(dash.Favorites) > 0 {
		fmt.Println(SectionStyle.Render("Favorites"))
		for _, f := range dash.Favorites {
			fmt.Printf("  %s %s\n", ValueStyle.Render(f.Name), DimStyle.Render(fmt.Sprintf("×%d", f.Count)))
		}
	}

	if len(dash.Recipes) > 0 {
		fmt.Println(SectionStyle.Render("Recipes"))
		for _, r := range dash.Recipes {
			fmt.Println("  • " + ValueStyle.Render(r.Title))
		}
	}

	if len(summary.GroceryList) > 0 || len(summary.Shops) > 0 {
		fmt.Println(SectionStyle.Render("Groceries"))
		for _, item := range summary.GroceryList {
			fmt.Println("  · " + ValueStyle.Render(item))
		}
		for _, shop := range summary.Shops {
			fmt.Printf("  %s %s\n", LabelStyle.Render(shop.Name), ValueStyle.Render(fmt.Sprintf("%.2f", shop.Total)))
		}
		if summary.TotalSpent > 0 {
			fmt.Printf("  %s %s\n", LabelStyle.Render("Total"), SuccessStyle.Render(fmt.Sprintf("%.2f", summary.TotalSpent)))
		}
	}
	return nil
}

// HandleHealth implements `mealplan health`.
func HandleHealth(args Args) error {
	cfg := config.Global()
	client := api.New(cfg)
	if !client.IsConfigured() {
		return fmt.Errorf("no backend configured; set api.base_url or MEALPLAN_API_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		if args.JSON {
			fmt.Printf("{\"status\":\"down\",\"error\":%q}\n", err.Error())
		} else {
			fmt.Printf("%s backend unreachable: %v\n", RenderStatus("down"), err)
		}
		return fmt.Errorf("health: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(health)
	}

	fmt.Printf("%s %s\n", RenderStatus(health.Status), ValueStyle.Render(client.BaseURL()))
	if health.Timestamp != "" {
		fmt.Printf("%s %s\n", LabelStyle.Render("reported"), DimStyle.Render(health.Timestamp))
	}

	if len(health.Services) > 0 {
		names := make([]string, 0, len(health.Services))
		for name := range health.Services {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s %s\n", LabelStyle.Render(name), RenderStatus(health.Services[name]))
		}
	}
	return nil
}
