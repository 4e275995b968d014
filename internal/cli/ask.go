// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the mealplan CLI.
//
// USABILITY: Markdown rendering for readable answers
//
// Command: ask
// Examples:
//   mealplan ask "what should I cook tonight?"
//   mealplan ask --conv conv_171... "and a vegetarian option?"
//
// The answer is saved to the conversation store like a TUI exchange, so a
// follow-up in the TUI picks up where the CLI left off.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
)

const askTimeout = 60 * time.Second

// markdownRenderer is the shared glamour renderer for markdown output.
// Initialized lazily; a nil renderer falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func renderMarkdown(text string) string {
	if markdownRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()),
		)
		if err != nil {
			return text
		}
		markdownRenderer = r
	}
	out, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// HandleAsk implements `mealplan ask "question"`.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("ask: question is required")
	}

	cfg := config.Global()
	client := api.New(cfg)
	if !client.IsConfigured() {
		return fmt.Errorf("no backend configured; set api.base_url or MEALPLAN_API_URL")
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}
	st := store.New(dataDir)

	// Reuse an existing conversation when asked, otherwise start a new one
	// (which reuses the active conversation if it is still empty).
	convID := args.ConvID
	if convID == "" {
		convID = st.CreateConversation().ID
	} else if _, err := st.Get(convID); err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if err := st.AppendMessage(convID, model.NewUserMessage(query)); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render("thinking..."))
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	resp, err := client.Chat(ctx, query, convID)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if err := st.AppendMessage(convID, model.NewBotMessage(resp.Response)); err != nil {
		return err
	}

	if args.JSON {
		fmt.Printf("{\"conversation_id\":%q,\"response\":%q}\n", convID, resp.Response)
		return nil
	}

	fmt.Print(renderMarkdown(resp.Response))
	if args.Verbose {
		fmt.Println(DimStyle.Render("conversation: " + convID))
	}
	return nil
}
