// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command for the mealplan CLI.
//
// Command: config [show|set|path]
//   show            Print the effective configuration
//   set <key> <val> Set a configuration value and save
//   path            Print the configuration file locations

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/mealplan-tui/internal/config"
)

// HandleConfig implements `mealplan config`.
func HandleConfig(args Args) error {
	p := NewArgParser(args.Raw)

	switch p.Subcommand() {
	case "", "show":
		return configShow(args)
	case "set":
		return configSet(p.Positional(1), p.Positional(2))
	case "path":
		return configPath()
	default:
		return fmt.Errorf("config: unknown subcommand %q (expected show, set, or path)", p.Subcommand())
	}
}

func configShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s %s\n", LabelStyle.Render("api.base_url"), ValueStyle.Render(cfg.API.BaseURL))
	fmt.Printf("%s %s\n", LabelStyle.Render("api.timeout_secs"), ValueStyle.Render(strconv.Itoa(cfg.API.TimeoutSecs)))
	fmt.Printf("%s %s\n", LabelStyle.Render("api.max_retries"), ValueStyle.Render(strconv.Itoa(cfg.API.MaxRetries)))
	fmt.Printf("%s %s\n", LabelStyle.Render("ui.theme"), ValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("%s %s\n", LabelStyle.Render("storage.data_dir"), ValueStyle.Render(cfg.Storage.DataDir))
	fmt.Printf("%s %s\n", LabelStyle.Render("location.enabled"), ValueStyle.Render(strconv.FormatBool(cfg.Location.Enabled)))
	fmt.Printf("%s %s\n", LabelStyle.Render("search.enabled"), ValueStyle.Render(strconv.FormatBool(cfg.Search.Enabled)))
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("config set: usage: mealplan config set <key> <value>")
	}

	cfg := config.Global()

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config set: %s must be an integer", key)
		}
		cfg.API.TimeoutSecs = n
	case "api.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config set: %s must be an integer", key)
		}
		cfg.API.MaxRetries = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "storage.data_dir":
		cfg.Storage.DataDir = value
	case "location.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config set: %s must be true or false", key)
		}
		cfg.Location.Enabled = b
	case "search.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config set: %s must be true or false", key)
		}
		cfg.Search.Enabled = b
	default:
		return fmt.Errorf("config set: unknown key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config set: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("config set: %w", err)
	}
	fmt.Println(SuccessStyle.Render("saved ") + key + " = " + value)
	return nil
}

func configPath() error {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	jsonPath, err := config.ConfigPathJSON()
	if err != nil {
		return err
	}

	exists := func(p string) string {
		if _, err := os.Stat(p); err == nil {
			return SuccessStyle.Render(" (exists)")
		}
		return DimStyle.Render(" (not found)")
	}
	fmt.Println(LabelStyle.Render("toml") + ValueStyle.Render(tomlPath) + exists(tomlPath))
	fmt.Println(LabelStyle.Render("json") + ValueStyle.Render(jsonPath) + exists(jsonPath))
	return nil
}
