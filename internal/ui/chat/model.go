// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DebounceDelay separates the synchronous user-message append from the
// appearance of the bot placeholder, so the "thinking" latency is perceived
// rather than instant.
const DebounceDelay = 300 * time.Millisecond

// chatTimeout bounds one chat request.
const chatTimeout = 60 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// DebounceMsg fires when the placeholder delay elapses. The sequence stamp
// ties it to one specific submission.
type DebounceMsg struct {
	Seq int
}

// ResponseMsg carries the outcome of one chat request.
type ResponseMsg struct {
	ConvID        string
	PlaceholderID string
	Reply         string
	Err           error
}

// =============================================================================
// MODEL
// =============================================================================

// pendingSend holds a submission between the user-message append and the
// placeholder append after the debounce.
type pendingSend struct {
	seq      int
	snapshot model.Conversation
}

// Model is the conversation view: input line, message viewport, and the
// lifecycle state for the in-flight request and reveal.
type Model struct {
	store  *store.Store
	client *api.Client
	theme  *styles.Theme

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	width  int
	height int
	ready  bool

	// In-flight flag: gates new submissions from the moment a prompt is
	// accepted until its placeholder settles.
	inFlight bool
	pending  *pendingSend
	seq      int

	reveal Reveal
}

// New creates the chat view bound to a store and API client.
func New(st *store.Store, client *api.Client, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Ask about meals, groceries, budgets..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 8,
	}
	sp.Style = theme.Loading

	return Model{
		store:  st,
		client: client,
		theme:  theme,
		input:  input,
		spin:   sp,
	}
}

// Init starts the spinner ticker.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// SetTheme swaps styles after a theme toggle.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.spin.Style = theme.Loading
}

// SetSize resizes the input and viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
	// One line for the input, one for its border gap.
	vpHeight := height - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
}

// InFlight reports whether a request is awaiting its reply or reveal.
func (m *Model) InFlight() bool {
	return m.inFlight
}

// InputValue returns the current input line. Used by the top-level model's
// status bar.
func (m *Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// LIFECYCLE: SUBMIT
// =============================================================================

// SubmitPrompt runs the full send flow for free-text input: no-op on empty
// or whitespace-only text and while a request is in flight; otherwise the
// user message is appended now and the placeholder follows after the
// debounce.
func (m *Model) SubmitPrompt(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || m.inFlight {
		return nil
	}

	m.inFlight = true
	convID := m.store.ActiveID()
	// AppendMessage retitles an empty conversation from the prompt.
	if err := m.store.AppendMessage(convID, model.NewUserMessage(trimmed)); err != nil {
		m.inFlight = false
		return nil
	}

	// Snapshot as of the user append: the placeholder must not be part of
	// what the generation step sees.
	snap, err := m.store.Get(convID)
	if err != nil {
		m.inFlight = false
		return nil
	}
	m.seq++
	m.pending = &pendingSend{seq: m.seq, snapshot: snap}
	m.refreshViewport()
	m.viewport.GotoBottom()

	seq := m.seq
	return tea.Tick(DebounceDelay, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq}
	})
}

// SelectSuggestion submits a pre-canned prompt, skipping the debounce: the
// user message and the placeholder are appended synchronously and the
// request goes out immediately.
func (m *Model) SelectSuggestion(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || m.inFlight {
		return nil
	}

	m.inFlight = true
	convID := m.store.ActiveID()
	if err := m.store.AppendMessage(convID, model.NewUserMessage(trimmed)); err != nil {
		m.inFlight = false
		return nil
	}
	snap, err := m.store.Get(convID)
	if err != nil {
		m.inFlight = false
		return nil
	}

	cmd := m.appendPlaceholderAndGenerate(snap)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return cmd
}

// appendPlaceholderAndGenerate adds the loading bot message and returns the
// command issuing the chat request for the given snapshot.
func (m *Model) appendPlaceholderAndGenerate(snapshot model.Conversation) tea.Cmd {
	placeholder := model.NewBotPlaceholder()
	if err := m.store.AppendMessage(snapshot.ID, placeholder); err != nil {
		m.inFlight = false
		return nil
	}
	return m.generateCmd(snapshot, placeholder.ID)
}

// generateCmd issues the chat request off the event loop. The query is the
// snapshot's most recent user message; the thread id is the conversation id.
func (m *Model) generateCmd(snapshot model.Conversation, placeholderID string) tea.Cmd {
	client := m.client
	query := ""
	if last, ok := snapshot.LastUserMessage(); ok {
		query = last.Content
	}
	convID := snapshot.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		resp, err := client.Chat(ctx, query, convID)
		if err != nil {
			return ResponseMsg{ConvID: convID, PlaceholderID: placeholderID, Err: err}
		}
		return ResponseMsg{ConvID: convID, PlaceholderID: placeholderID, Reply: resp.Response}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles chat-scoped messages. Key events reaching here are already
// scoped to the chat pane by the top-level model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			text := m.input.Value()
			cmd := m.SubmitPrompt(text)
			if cmd != nil {
				m.input.SetValue("")
			}
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case DebounceMsg:
		return m.handleDebounce(msg)

	case ResponseMsg:
		return m.handleResponse(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.hasLoadingMessage() {
			m.refreshViewport()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleDebounce appends the placeholder and starts the request, unless the
// submission it belongs to has been superseded.
func (m Model) handleDebounce(msg DebounceMsg) (Model, tea.Cmd) {
	if m.pending == nil || m.pending.seq != msg.Seq {
		return m, nil
	}
	snapshot := m.pending.snapshot
	m.pending = nil

	cmd := m.appendPlaceholderAndGenerate(snapshot)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, cmd
}

// handleResponse routes a finished chat request to the reveal scheduler or
// the error path.
//
// A late response for a conversation deleted in the meantime targets a
// missing id; the store lookup fails and the whole update is a silent no-op.
func (m Model) handleResponse(msg ResponseMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.reveal.Fail()
		m.inFlight = false
		if err := m.store.FailMessage(msg.ConvID, msg.PlaceholderID, failureText(msg.Err)); err != nil {
			if !errors.Is(err, store.ErrConversationNotFound) && !errors.Is(err, store.ErrMessageNotFound) {
				return m, nil
			}
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.reveal.Start(msg.ConvID, msg.PlaceholderID, msg.Reply)
	return m, m.reveal.tickCmd()
}

// handleRevealTick advances the reveal one write. Stale generations are
// dropped, which is how a superseded reveal's timer is cancelled.
func (m Model) handleRevealTick(msg RevealTickMsg) (Model, tea.Cmd) {
	if msg.Gen != m.reveal.Gen() {
		return m, nil
	}

	write, ok := m.reveal.step()
	if !ok {
		return m, nil
	}

	convID, msgID := m.reveal.Target()
	if err := m.store.SetMessageContent(convID, msgID, write.content, write.loading); err != nil {
		// Conversation deleted mid-reveal: stop writing.
		m.reveal.Fail()
		m.inFlight = false
		return m, nil
	}
	m.refreshViewport()
	m.viewport.GotoBottom()

	if write.final {
		m.inFlight = false
		return m, nil
	}
	return m, m.reveal.tickCmd()
}

// hasLoadingMessage reports whether the active conversation shows a
// placeholder, so the spinner only forces re-renders while one is visible.
func (m *Model) hasLoadingMessage() bool {
	active := m.store.Active()
	for i := range active.Messages {
		if active.Messages[i].Loading {
			return true
		}
	}
	return false
}

// failureText converts a request error into the human-readable description
// stored on the failed message.
func failureText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Is the meal-planning service running?"
	}
	return err.Error()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the message viewport above the input line.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.theme.Border.Width(m.width-2).Render(m.input.View()),
	)
}

// refreshViewport re-renders the active conversation into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}
