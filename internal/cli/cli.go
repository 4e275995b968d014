// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for mealplan.

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdDashboard
	CmdHealth
	CmdHistory
	CmdSearch
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Theme   string // "light", "dark", "auto"

	// Command-specific
	Query      string
	Subcommand string
	ConvID     string
	OutFile    string
	Limit      int

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `mealplan - conversational meal planning in your terminal

Talk to your meal-planning assistant, browse the dashboard, and search
past conversations without leaving the shell.

Usage:
  mealplan                     Start the TUI (default)
  mealplan ask "question"      Ask a single question and exit
  mealplan chat                Interactive chat in the terminal
  mealplan dashboard           Show favorites, recipes, and groceries
  mealplan health              Check backend health
  mealplan history [id]        List conversations, or show one
  mealplan search "query"      Full-text search across conversations
  mealplan export <id>         Export a conversation as markdown
  mealplan config [show|set|path]  Configuration management
  mealplan version             Show version information
  mealplan help                Show this help

Flags:
  --theme light|dark|auto   Override the configured theme
  --json                    Machine-readable output where supported
  -q, --quiet               Minimal output
  -v, --verbose             Verbose output

Examples:
  mealplan ask "what should I cook tonight?"
  mealplan search "lentil curry" --limit 10
  mealplan export conv_1712... --out dinner.md
  mealplan config set api.base_url http://localhost:8000

Environment:
  MEALPLAN_API_URL      Backend base URL
  MEALPLAN_THEME        light, dark, or auto
  MEALPLAN_DATA_DIR     Conversation storage directory
  MEALPLAN_GEO          "lat,lng" position for shop suggestions
  MEALPLAN_NO_LOCATION  Disable location reporting
`

// PrintUsage prints the help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("mealplan %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	remaining, args := parseGlobalFlags(os.Args[1:])

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := remaining[0]
	rest := remaining[1:]
	args.Raw = rest

	switch cmd {
	case "ask":
		p := NewArgParser(rest)
		args.Query = strings.Join(p.PositionalFrom(0), " ")
		args.ConvID = p.Flag("conv")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "dashboard", "dash":
		return CmdDashboard, args

	case "health", "status":
		return CmdHealth, args

	case "history", "h":
		p := NewArgParser(rest)
		args.ConvID = p.Positional(0)
		args.Limit = p.FlagIntOrDefault("limit", 0)
		return CmdHistory, args

	case "search":
		p := NewArgParser(rest)
		args.Query = strings.Join(p.PositionalFrom(0), " ")
		args.Limit = p.FlagIntOrDefault("limit", 0)
		return CmdSearch, args

	case "export":
		p := NewArgParser(rest)
		args.ConvID = p.Positional(0)
		args.OutFile = p.Flag("out")
		return CmdExport, args

	case "config":
		p := NewArgParser(rest)
		args.Subcommand = p.Subcommand()
		return CmdConfig, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown word: treat the whole remainder as an ask query so
		// `mealplan what's for dinner` just works.
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags strips global flags from the argument list.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	i := 0
	for i < len(argv) {
		switch argv[i] {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--theme":
			if i+1 < len(argv) {
				args.Theme = argv[i+1]
				i++
			}
		default:
			if v, ok := strings.CutPrefix(argv[i], "--theme="); ok {
				args.Theme = v
			} else {
				remaining = append(remaining, argv[i])
			}
		}
		i++
	}
	return remaining, args
}

// HandleVersion implements `mealplan version`.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"build_date\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	PrintVersion()
}

// HandleHelp implements `mealplan help`.
func HandleHelp() {
	PrintUsage()
}
