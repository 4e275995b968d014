// mealplan TUI - a terminal client for conversational meal planning.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/cli"
	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/index"
	"github.com/jeranaias/mealplan-tui/internal/session"
	"github.com/jeranaias/mealplan-tui/internal/store"
	"github.com/jeranaias/mealplan-tui/internal/ui/chat"
	"github.com/jeranaias/mealplan-tui/internal/ui/components"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	config.SetGlobal(cfg)

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg)
	case cli.CmdAsk:
		exitOn(cli.HandleAsk(args))
	case cli.CmdChat:
		exitOn(cli.HandleChat(args))
	case cli.CmdDashboard:
		exitOn(cli.HandleDashboard(args))
	case cli.CmdHealth:
		exitOn(cli.HandleHealth(args))
	case cli.CmdHistory:
		exitOn(cli.HandleHistory(args))
	case cli.CmdSearch:
		exitOn(cli.HandleSearch(args))
	case cli.CmdExport:
		exitOn(cli.HandleExport(args))
	case cli.CmdConfig:
		exitOn(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI(cfg *config.Config) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage error: %v\n", err)
		os.Exit(1)
	}

	// Stdlib log writes would tear the alt screen; send them to a file.
	if f, err := os.OpenFile(filepath.Join(dataDir, "mealplan.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	st := store.New(dataDir)
	sess := session.NewManager(dataDir)
	client := api.New(cfg)

	// Restore the last active conversation when it still exists.
	if last := sess.LastActiveConversation(); last != "" {
		st.SelectConversation(last) // unknown id keeps the loaded active
	}

	mode := sess.ResolveTheme(cfg.UI.Theme)
	theme := styles.NewTheme(mode)

	var idx *index.ConversationIndex
	if cfg.Search.Enabled {
		idxCfg := index.DefaultConfig(st.ConversationsDir())
		idxCfg.EnableWatch = cfg.Search.Watch
		if opened, err := index.Open(idxCfg); err != nil {
			log.Printf("search index unavailable: %v", err)
		} else {
			idx = opened
			defer idx.Close()
		}
	}

	app := newApp(cfg, st, sess, client, idx, theme, mode)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// dashboardMsg carries a dashboard/summary fetch result.
type dashboardMsg struct {
	dash    *api.Dashboard
	summary *api.Summary
	err     error
}

// healthMsg carries a health probe result.
type healthMsg struct {
	health *api.HealthStatus
	err    error
}

// healthTickMsg re-probes the backend periodically.
type healthTickMsg struct{}

const healthInterval = 30 * time.Second

// appModel composes the panes: sidebar, chat, dashboard, status bar, and the
// welcome screen shown over an empty conversation.
type appModel struct {
	cfg    *config.Config
	st     *store.Store
	sess   *session.Manager
	client *api.Client
	idx    *index.ConversationIndex

	mode   styles.Mode
	theme  *styles.Theme
	layout styles.LayoutMode

	chatView chat.Model
	sidebar  components.Sidebar
	dash     components.Dashboard
	status   *components.StatusBar
	welcome  components.Welcome

	width  int
	height int

	sidebarOpen      bool
	welcomeDismissed bool
}

func newApp(cfg *config.Config, st *store.Store, sess *session.Manager, client *api.Client, idx *index.ConversationIndex, theme *styles.Theme, mode styles.Mode) appModel {
	sidebar := components.NewSidebar(theme)
	sidebar.SyncCursor(st.Conversations(), st.ActiveID())

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)

	return appModel{
		cfg:         cfg,
		st:          st,
		sess:        sess,
		client:      client,
		idx:         idx,
		mode:        mode,
		theme:       theme,
		chatView:    chat.New(st, client, theme),
		sidebar:     sidebar,
		dash:        components.NewDashboard(theme),
		status:      components.NewStatusBar(theme),
		welcome:     welcome,
		sidebarOpen: cfg.UI.SidebarOpen,
	}
}

// Init kicks off the spinner, the background fetches, and the one-shot
// location report.
func (a appModel) Init() tea.Cmd {
	return tea.Batch(
		a.chatView.Init(),
		a.fetchDashboardCmd(),
		a.probeHealthCmd(),
		a.reportLocationCmd(),
	)
}

// fetchDashboardCmd fetches the dashboard and grocery summary.
func (a appModel) fetchDashboardCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		dash, err := client.Dashboard(ctx)
		if err != nil {
			return dashboardMsg{err: err}
		}
		summary, err := client.Summary(ctx)
		if err != nil {
			s := api.DefaultSummary
			summary = &s
		}
		return dashboardMsg{dash: dash, summary: summary}
	}
}

// probeHealthCmd checks backend health once.
func (a appModel) probeHealthCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		health, err := client.Health(ctx)
		return healthMsg{health: health, err: err}
	}
}

// reportLocationCmd sends the fire-and-forget location report. Failures are
// logged inside ReportLocation and never surface in the UI.
func (a appModel) reportLocationCmd() tea.Cmd {
	resolver := session.NewResolver(a.cfg)
	client := a.client
	threadID := a.st.ActiveID()
	return func() tea.Msg {
		session.ReportLocation(resolver, client, threadID)
		return nil
	}
}

func healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.applyLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case dashboardMsg:
		if msg.err != nil {
			a.dash.SetError(msg.err)
		} else {
			a.dash.SetData(*msg.dash)
			a.dash.SetSummary(*msg.summary)
		}
		return a, nil

	case healthMsg:
		switch {
		case msg.err != nil:
			a.status.Health = components.HealthDown
		case msg.health.Status == "ok" || msg.health.Status == "healthy":
			a.status.Health = components.HealthOK
		default:
			a.status.Health = components.HealthDegraded
		}
		return a, healthTickCmd()

	case healthTickMsg:
		return a, a.probeHealthCmd()
	}

	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	a.syncStatus()
	return a, cmd
}

// handleKey routes key presses: global bindings first, then the focused pane.
func (a appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "ctrl+n":
		c := a.st.CreateConversation()
		a.sess.SetActiveConversation(c.ID)
		a.sidebar.SyncCursor(a.st.Conversations(), c.ID)
		a.welcomeDismissed = false
		a.refreshChat()
		return a, nil

	case "ctrl+x":
		// Delete the active conversation. The store guarantees a non-empty
		// list and a valid active id afterwards.
		deleted := a.st.ActiveID()
		if err := a.st.DeleteConversation(deleted); err == nil {
			if a.idx != nil {
				a.idx.RemoveConversation(deleted)
			}
			a.sess.SetActiveConversation(a.st.ActiveID())
			a.sidebar.SyncCursor(a.st.Conversations(), a.st.ActiveID())
			a.welcomeDismissed = false
			a.refreshChat()
		}
		return a, nil

	case "ctrl+t":
		a.toggleTheme()
		return a, nil

	case "ctrl+b":
		a.sidebarOpen = !a.sidebarOpen
		a.applyLayout()
		return a, nil

	case "tab":
		if a.sidebarVisible() {
			a.sidebar.SetFocused(!a.sidebar.Focused())
		}
		return a, nil
	}

	if a.sidebar.Focused() {
		return a.handleSidebarKey(msg)
	}
	if a.welcomeVisible() {
		if m, cmd, handled := a.handleWelcomeKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	a.syncStatus()
	return a, cmd
}

// handleSidebarKey drives conversation selection.
func (a appModel) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conversations := a.st.Conversations()
	switch msg.String() {
	case "up", "k":
		a.sidebar.MoveCursor(-1, len(conversations))
	case "down", "j":
		a.sidebar.MoveCursor(1, len(conversations))
	case "enter":
		if a.sidebar.Cursor() < len(conversations) {
			id := conversations[a.sidebar.Cursor()].ID
			if err := a.st.SelectConversation(id); err == nil {
				a.sess.SetActiveConversation(id)
				a.welcomeDismissed = false
				a.refreshChat()
			}
		}
		a.sidebar.SetFocused(false)
	case "n":
		c := a.st.CreateConversation()
		a.sess.SetActiveConversation(c.ID)
		a.sidebar.SyncCursor(a.st.Conversations(), c.ID)
		a.welcomeDismissed = false
		a.refreshChat()
	case "d":
		if a.sidebar.Cursor() < len(conversations) {
			id := conversations[a.sidebar.Cursor()].ID
			if err := a.st.DeleteConversation(id); err == nil {
				if a.idx != nil {
					a.idx.RemoveConversation(id)
				}
				a.sess.SetActiveConversation(a.st.ActiveID())
				a.sidebar.SyncCursor(a.st.Conversations(), a.st.ActiveID())
				a.refreshChat()
			}
		}
	}
	return a, nil
}

// handleWelcomeKey drives the suggestion buttons. Returns handled=false for
// keys that should fall through to the chat input (typing dismisses the
// welcome screen).
func (a appModel) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		a.welcome.MoveCursor(-1)
		return a, nil, true
	case "down":
		a.welcome.MoveCursor(1)
		return a, nil, true
	case "enter":
		if a.chatView.InputValue() == "" {
			cmd := a.chatView.SelectSuggestion(a.welcome.Selected())
			a.welcomeDismissed = true
			a.syncStatus()
			return a, cmd, true
		}
		return a, nil, false
	}
	if msg.Type == tea.KeyRunes {
		a.welcomeDismissed = true
	}
	return a, nil, false
}

// toggleTheme flips light/dark, persists the explicit choice, and restyles
// every pane.
func (a *appModel) toggleTheme() {
	a.mode = a.mode.Toggle()
	a.theme = styles.NewTheme(a.mode)
	a.sess.SetTheme(a.mode)

	a.chatView.SetTheme(a.theme)
	a.sidebar.SetTheme(a.theme)
	a.dash.SetTheme(a.theme)
	a.status.SetTheme(a.theme)
	a.welcome.SetTheme(a.theme)
	a.refreshChat()
}

// =============================================================================
// LAYOUT
// =============================================================================

// sidebarVisible reports whether the sidebar fits the current layout.
func (a *appModel) sidebarVisible() bool {
	return a.sidebarOpen && a.layout != styles.LayoutNarrow
}

// dashboardVisible reports whether the dashboard pane fits.
func (a *appModel) dashboardVisible() bool {
	return a.layout == styles.LayoutWide
}

// welcomeVisible reports whether the welcome screen covers the chat pane.
func (a *appModel) welcomeVisible() bool {
	active := a.st.Active()
	return active.Empty() && !a.welcomeDismissed && !a.chatView.InFlight()
}

const dashboardWidth = 36

// applyLayout recomputes pane sizes from the terminal dimensions.
func (a *appModel) applyLayout() {
	a.layout = styles.LayoutForWidth(a.width)

	contentHeight := a.height - 1 // status bar
	if contentHeight < 1 {
		contentHeight = 1
	}

	chatWidth := a.width
	if a.sidebarVisible() {
		sw := a.layout.SidebarWidth()
		a.sidebar.SetSize(sw, contentHeight)
		chatWidth -= sw
	}
	if a.dashboardVisible() {
		a.dash.SetSize(dashboardWidth, contentHeight)
		chatWidth -= dashboardWidth
	}

	a.chatView.SetSize(chatWidth, contentHeight)
	a.welcome.SetSize(chatWidth, contentHeight)
	a.status.SetWidth(a.width)
	a.syncStatus()
}

// refreshChat rebuilds the chat pane after a conversation switch.
func (a *appModel) refreshChat() {
	a.chatView.SetSize(a.chatWidth(), a.contentHeight())
	a.syncStatus()
}

func (a *appModel) chatWidth() int {
	w := a.width
	if a.sidebarVisible() {
		w -= a.layout.SidebarWidth()
	}
	if a.dashboardVisible() {
		w -= dashboardWidth
	}
	return w
}

func (a *appModel) contentHeight() int {
	h := a.height - 1
	if h < 1 {
		h = 1
	}
	return h
}

// syncStatus mirrors app state into the status bar.
func (a *appModel) syncStatus() {
	if a.chatView.InFlight() {
		a.status.Status = components.StatusWaiting
	} else {
		a.status.Status = components.StatusReady
	}
	a.status.ConvTitle = a.st.Active().Title
}

// =============================================================================
// VIEW
// =============================================================================

func (a appModel) View() string {
	if a.width == 0 {
		return "loading..."
	}

	center := a.chatView.View()
	if a.welcomeVisible() {
		center = a.welcome.View()
	}

	panes := []string{}
	if a.sidebarVisible() {
		panes = append(panes, a.sidebar.View(a.st.Conversations(), a.st.ActiveID()))
	}
	panes = append(panes, center)
	if a.dashboardVisible() {
		panes = append(panes, a.dash.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return lipgloss.JoinVertical(lipgloss.Left, content, a.status.View())
}
