// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the mealplan CLI.
//
// USABILITY: Markdown rendering and input history for better CLI experience
//
// Command: chat
//
// Interactive commands (during chat):
//   /help, /h       Show available commands
//   /new            Start a new conversation
//   /list           List conversations
//   /switch <id>    Switch to another conversation
//   /search <q>     Search past conversations
//   /quit, /q       Exit chat
//   Ctrl+C          Cancel current input
//   Ctrl+D          Exit chat

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/index"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with persistent input history.
// USABILITY: arrow keys for history navigation and line editing.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	r := &replInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *replInput) saveHistory() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
}

func (r *replInput) close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// CHAT REPL
// =============================================================================

// HandleChat implements `mealplan chat`.
func HandleChat(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires an interactive terminal; use `mealplan ask` for scripts")
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

	input := newReplInput()
	defer input.close()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("mealplan chat"))
		fmt.Println(DimStyle.Render("conversation: " + st.Active().Title + " · /help for commands"))
		fmt.Println()
	}

	for {
		text, err := input.line.Prompt("you> ")
		if err == liner.ErrPromptAborted {
			continue // Ctrl+C clears the line
		}
		if err != nil {
			fmt.Println()
			return nil // Ctrl+D / EOF
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		input.line.AppendHistory(text)

		if strings.HasPrefix(text, "/") {
			if quit := runReplCommand(st, text, args); quit {
				return nil
			}
			continue
		}

		if err := replExchange(st, client, text); err != nil {
			fmt.Println(ErrorStyle.Render("error: ") + err.Error())
		}
	}
}

// replExchange sends one prompt and prints the rendered reply.
func replExchange(st *store.Store, client *api.Client, text string) error {
	convID := st.ActiveID()
	if err := st.AppendMessage(convID, model.NewUserMessage(text)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	resp, err := client.Chat(ctx, text, convID)
	if err != nil {
		return err
	}
	if err := st.AppendMessage(convID, model.NewBotMessage(resp.Response)); err != nil {
		return err
	}

	fmt.Print(renderMarkdown(resp.Response))
	return nil
}

// runReplCommand executes a /command. Returns true when the REPL should exit.
func runReplCommand(st *store.Store, text string, args Args) bool {
	fields := strings.Fields(text)
	cmd := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(text, cmd))

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(DimStyle.Render(strings.TrimSpace(`
/new            start a new conversation
/list           list conversations
/switch <id>    switch to another conversation
/search <query> search past conversations
/quit           exit`)))

	case "/new":
		c := st.CreateConversation()
		fmt.Println(DimStyle.Render("switched to " + c.ID))

	case "/list":
		for _, c := range st.Conversations() {
			marker := "  "
			if c.ID == st.ActiveID() {
				marker = PromptStyle.Render("> ")
			}
			fmt.Printf("%s%s  %s\n", marker, c.ID, c.Title)
		}

	case "/switch":
		if rest == "" {
			fmt.Println(WarningStyle.Render("usage: /switch <conversation-id>"))
			break
		}
		if err := st.SelectConversation(rest); err != nil {
			fmt.Println(ErrorStyle.Render("error: ") + err.Error())
			break
		}
		fmt.Println(DimStyle.Render("switched to " + rest))

	case "/search":
		if rest == "" {
			fmt.Println(WarningStyle.Render("usage: /search <query>"))
			break
		}
		if err := replSearch(st, rest); err != nil {
			fmt.Println(ErrorStyle.Render("error: ") + err.Error())
		}

	default:
		fmt.Println(WarningStyle.Render("unknown command " + cmd + " (try /help)"))
	}
	return false
}

// replSearch runs a one-off index query over the store's conversation files.
func replSearch(st *store.Store, query string) error {
	cfg := index.DefaultConfig(st.ConversationsDir())
	cfg.EnableWatch = false
	idx, err := index.Open(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Rebuild(ctx); err != nil {
		return err
	}
	results, err := idx.Search(ctx, query, &index.SearchOptions{MaxResults: 10})
	if err != nil {
		return err
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
