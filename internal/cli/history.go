// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Conversation history and search commands for the mealplan CLI.
//
// Command: history [id]
//   Without an id, lists saved conversations newest-first. With an id,
//   prints that conversation as a transcript.
//
// Command: search "query"
//   Full-text search across all saved conversations using the local index.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/index"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
)

// HandleHistory implements `mealplan history [id]`.
func HandleHistory(args Args) error {
	dataDir, err := config.Global().DataDir()
	if err != nil {
		return err
	}
	st := store.New(dataDir)

	if args.ConvID != "" {
		c, err := st.Get(args.ConvID)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		printTranscript(c, args)
		return nil
	}

	conversations := st.Conversations()
	limit := args.Limit
	if limit > 0 && limit < len(conversations) {
		conversations = conversations[:limit]
	}

	if args.JSON {
		type row struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Messages int    `json:"messages"`
			Updated  string `json:"updated_at"`
		}
		rows := make([]row, 0, len(conversations))
		for _, c := range conversations {
			rows = append(rows, row{c.ID, c.Title, len(c.Messages), c.UpdatedAt.Format("2006-01-02 15:04")})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Println(TitleStyle.Render("Conversations"))
	for _, c := range conversations {
		marker := "  "
		if c.ID == st.ActiveID() {
			marker = PromptStyle.Render("> ")
		}
		fmt.Printf("%s%s  %s %s\n",
			marker,
			ValueStyle.Render(c.Title),
			DimStyle.Render(c.ID),
			DimStyle.Render(fmt.Sprintf("(%d messages)", len(c.Messages))))
	}
	return nil
}

// printTranscript prints a conversation as a readable transcript.
func printTranscript(c model.Conversation, args Args) {
	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(c)
		return
	}

	fmt.Println(TitleStyle.Render(c.Title))
	fmt.Println(DimStyle.Render(c.ID))
	fmt.Println()

	for _, m := range c.Messages {
		label := PromptStyle.Render("you")
		if m.Role == model.RoleBot {
			label = SuccessStyle.Render("bot")
		}
		if m.Error {
			label = ErrorStyle.Render("err")
		}
		ts := DimStyle.Render(m.Timestamp.Format("15:04"))
		fmt.Printf("%s %s\n%s\n\n", label, ts, WrapText(m.Content, GetTerminalWidth()))
	}
}

// HandleSearch implements `mealplan search "query"`.
func HandleSearch(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("search: query is required")
	}

	dataDir, err := config.Global().DataDir()
	if err != nil {
		return err
	}
	st := store.New(dataDir)

	cfg := index.DefaultConfig(st.ConversationsDir())
	cfg.EnableWatch = false
	idx, err := index.Open(cfg)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Rebuild(ctx); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	opts := index.DefaultSearchOptions()
	if args.Limit > 0 {
		opts.MaxResults = args.Limit
	}
	results, err := idx.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println(DimStyle.Render("no matches"))
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s %s\n", PromptStyle.Render(r.Title), DimStyle.Render("("+r.ConvID+")"))
		fmt.Println("  " + r.Snippet)
	}
	return nil
}
