// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Conversation export command for the mealplan CLI.
//
// Command: export <id> [--out file.md]
//   Writes a conversation as a markdown transcript, to stdout by default.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
	"github.com/jeranaias/mealplan-tui/internal/util"
)

// HandleExport implements `mealplan export <id>`.
func HandleExport(args Args) error {
	if args.ConvID == "" {
		return fmt.Errorf("export: conversation id is required (see `mealplan history`)")
	}

	dataDir, err := config.Global().DataDir()
	if err != nil {
		return err
	}
	st := store.New(dataDir)

	c, err := st.Get(args.ConvID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	md := FormatMarkdown(c)

	if args.OutFile == "" {
		fmt.Print(md)
		return nil
	}
	if err := util.AtomicWriteFile(args.OutFile, []byte(md), 0644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("exported ") + args.OutFile)
	}
	return nil
}

// FormatMarkdown renders a conversation as a markdown transcript. Loading
// placeholders are skipped; failed replies are kept, marked as errors.
func FormatMarkdown(c model.Conversation) string {
	var b strings.Builder

	b.WriteString("# " + c.Title + "\n\n")
	b.WriteString("_" + c.CreatedAt.Format("2006-01-02 15:04") + " · " + c.ID + "_\n\n")

	for _, m := range c.Messages {
		if m.Loading {
			continue
		}
		switch {
		case m.Role == model.RoleUser:
			b.WriteString("**You:** " + m.Content + "\n\n")
		case m.Error:
			b.WriteString("**Assistant (error):** " + m.Content + "\n\n")
		default:
			b.WriteString("**Assistant:** " + m.Content + "\n\n")
		}
	}
	return b.String()
}
