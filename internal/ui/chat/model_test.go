// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mealplan-tui/internal/api"
	"github.com/jeranaias/mealplan-tui/internal/config"
	"github.com/jeranaias/mealplan-tui/internal/model"
	"github.com/jeranaias/mealplan-tui/internal/store"
	"github.com/jeranaias/mealplan-tui/internal/ui/styles"
)

// newTestModel builds a chat model over a fresh store and a stub backend.
func newTestModel(t *testing.T, handler http.HandlerFunc) (Model, *store.Store) {
	t.Helper()

	st := store.New(t.TempDir())

	cfg := config.Default()
	cfg.API.RequestsPerSec = 0
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		cfg.API.BaseURL = srv.URL
	}
	client := api.New(cfg)

	theme := styles.NewTheme(styles.ModeDark)
	return New(st, client, theme), st
}

// drainDebounce feeds the debounce message for the latest submission and
// returns the generate command.
func drainDebounce(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	if m.pending == nil {
		t.Fatal("no pending submission")
	}
	next, cmd := m.Update(DebounceMsg{Seq: m.pending.seq})
	return next, cmd
}

func TestSubmitPromptScenario(t *testing.T) {
	m, st := newTestModel(t, nil)

	cmd := m.SubmitPrompt("Plan my week")
	if cmd == nil {
		t.Fatal("expected debounce command")
	}

	active := st.Active()
	if active.Title != "Plan my week" {
		t.Errorf("title = %q, want %q", active.Title, "Plan my week")
	}
	if len(active.Messages) != 1 {
		t.Fatalf("messages = %d, want 1 (placeholder comes after debounce)", len(active.Messages))
	}
	if active.Messages[0].Role != model.RoleUser || active.Messages[0].Content != "Plan my week" {
		t.Errorf("unexpected user message %+v", active.Messages[0])
	}
	if !m.InFlight() {
		t.Error("in-flight flag should be set")
	}

	// Debounce elapses: the loading placeholder appears.
	m, genCmd := drainDebounce(t, m)
	if genCmd == nil {
		t.Fatal("expected generate command after debounce")
	}
	active = st.Active()
	if len(active.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(active.Messages))
	}
	ph := active.Messages[1]
	if ph.Role != model.RoleBot || !ph.Loading || ph.Error {
		t.Errorf("placeholder = %+v", ph)
	}
}

func TestSubmitPromptRejections(t *testing.T) {
	m, st := newTestModel(t, nil)

	if cmd := m.SubmitPrompt(""); cmd != nil {
		t.Error("empty prompt must be a no-op")
	}
	if cmd := m.SubmitPrompt("   \t "); cmd != nil {
		t.Error("whitespace-only prompt must be a no-op")
	}
	if len(st.Active().Messages) != 0 {
		t.Error("rejected prompts must not mutate the store")
	}

	if cmd := m.SubmitPrompt("first"); cmd == nil {
		t.Fatal("expected accepted submission")
	}
	if cmd := m.SubmitPrompt("second while in flight"); cmd != nil {
		t.Error("in-flight submission must be rejected")
	}
	if got := len(st.Active().Messages); got != 1 {
		t.Errorf("messages = %d, want 1", got)
	}
}

func TestSelectSuggestionSkipsDebounce(t *testing.T) {
	m, st := newTestModel(t, nil)

	cmd := m.SelectSuggestion("What's a cheap dinner?")
	if cmd == nil {
		t.Fatal("expected generate command")
	}

	active := st.Active()
	if len(active.Messages) != 2 {
		t.Fatalf("messages = %d, want user + placeholder appended synchronously", len(active.Messages))
	}
	if active.Messages[0].Role != model.RoleUser {
		t.Error("first message should be the user prompt")
	}
	if !active.Messages[1].Loading {
		t.Error("second message should be the loading placeholder")
	}
	if active.Title != "What's a cheap dinner?" {
		t.Errorf("title = %q", active.Title)
	}
}

func TestResponseFailureSettlesPlaceholder(t *testing.T) {
	m, st := newTestModel(t, nil)

	m.SelectSuggestion("query")
	ph := st.Active().Messages[1]

	m, _ = m.Update(ResponseMsg{
		ConvID:        st.ActiveID(),
		PlaceholderID: ph.ID,
		Err:           &api.APIError{StatusCode: 504, Message: "timeout"},
	})

	got := st.Active().Messages[1]
	if got.Content != "timeout" {
		t.Errorf("content = %q, want %q", got.Content, "timeout")
	}
	if !got.Error || got.Loading {
		t.Errorf("flags = error:%v loading:%v, want error set and loading clear", got.Error, got.Loading)
	}
	if m.InFlight() {
		t.Error("in-flight flag must be cleared on failure")
	}
	if m.reveal.State() != RevealErrored {
		t.Errorf("reveal state = %v, want errored", m.reveal.State())
	}
}

func TestResponseRevealEndToEnd(t *testing.T) {
	m, st := newTestModel(t, nil)

	m.SelectSuggestion("query")
	convID := st.ActiveID()
	ph := st.Active().Messages[1]

	reply := "Cook a big batch of chili"
	m, cmd := m.Update(ResponseMsg{ConvID: convID, PlaceholderID: ph.ID, Reply: reply})
	if cmd == nil {
		t.Fatal("expected first reveal tick command")
	}

	// Drive the reveal by feeding tick messages with the live generation.
	prev := ""
	steps := 0
	for m.reveal.State() == RevealRunning {
		m, cmd = m.Update(RevealTickMsg{Gen: m.reveal.Gen()})
		steps++
		if steps > 100 {
			t.Fatal("reveal did not terminate")
		}

		got := st.Active().Messages[1]
		if got.Content != reply {
			// Intermediate write: strict prefix growth, still loading.
			if len(got.Content) <= len(prev) {
				t.Errorf("content %q did not grow from %q", got.Content, prev)
			}
			if !got.Loading {
				t.Error("intermediate write cleared loading")
			}
		}
		prev = got.Content

		if m.reveal.State() == RevealRunning && cmd == nil {
			t.Fatal("running reveal must schedule the next tick")
		}
	}

	final := st.Active().Messages[1]
	if final.Content != reply || final.Loading || final.Error {
		t.Errorf("final message = %+v", final)
	}
	if m.InFlight() {
		t.Error("in-flight flag must clear after the final write")
	}
	if m.reveal.State() != RevealSettled {
		t.Errorf("reveal state = %v, want settled", m.reveal.State())
	}
}

func TestStaleRevealTickIgnored(t *testing.T) {
	m, st := newTestModel(t, nil)

	m.SelectSuggestion("query")
	ph := st.Active().Messages[1]
	m, _ = m.Update(ResponseMsg{ConvID: st.ActiveID(), PlaceholderID: ph.ID, Reply: "a b c"})

	before := st.Active().Messages[1].Content
	m, cmd := m.Update(RevealTickMsg{Gen: m.reveal.Gen() - 1})
	if cmd != nil {
		t.Error("stale tick must not schedule another")
	}
	if got := st.Active().Messages[1].Content; got != before {
		t.Errorf("stale tick wrote content: %q", got)
	}
}

func TestLateResponseForDeletedConversationNoOps(t *testing.T) {
	m, st := newTestModel(t, nil)

	m.SelectSuggestion("query")
	convID := st.ActiveID()
	ph := st.Active().Messages[1]

	// Deleting the only conversation resets the store to a fresh default;
	// the old placeholder id no longer resolves.
	if err := st.DeleteConversation(convID); err != nil {
		t.Fatal(err)
	}

	m, _ = m.Update(ResponseMsg{ConvID: convID, PlaceholderID: ph.ID, Reply: "late reply"})
	m, _ = m.Update(RevealTickMsg{Gen: m.reveal.Gen()})

	active := st.Active()
	if len(active.Messages) != 0 {
		t.Errorf("late response mutated the fresh conversation: %+v", active.Messages)
	}
	if m.InFlight() {
		t.Error("in-flight flag should clear once the late reveal hits a missing target")
	}
}

func TestFullFlowAgainstStubBackend(t *testing.T) {
	m, st := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		var req api.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(api.ChatResponse{
			Response: "Reply to: " + req.Query,
			ThreadID: req.ThreadID,
		})
	})

	genCmd := m.SelectSuggestion("meal prep ideas")
	if genCmd == nil {
		t.Fatal("expected generate command")
	}

	msg := genCmd()
	resp, ok := msg.(ResponseMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if resp.Err != nil {
		t.Fatalf("chat request failed: %v", resp.Err)
	}
	if resp.Reply != "Reply to: meal prep ideas" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.ConvID != st.ActiveID() {
		t.Errorf("thread id = %q, want active conversation id", resp.ConvID)
	}
}
