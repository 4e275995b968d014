// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// REVEAL SCHEDULER
// =============================================================================

// RevealInterval is the cadence of word-by-word reveal writes.
const RevealInterval = 40 * time.Millisecond

// RevealState is the explicit state of the reveal machine.
type RevealState int

const (
	// RevealIdle means no reveal is running.
	RevealIdle RevealState = iota
	// RevealRunning means tokens are still being written out.
	RevealRunning
	// RevealSettled means the full reply has been written and the target
	// message is no longer loading.
	RevealSettled
	// RevealErrored means the target message was settled with an error
	// before or instead of a reveal.
	RevealErrored
)

// RevealTickMsg drives one reveal step. The generation stamp cancels stale
// timers: a tick from a superseded reveal is dropped in Update.
type RevealTickMsg struct {
	Gen int
}

// revealWrite is one write the scheduler asks the store to perform.
type revealWrite struct {
	content string
	loading bool
	final   bool
}

// Reveal progressively discloses a reply string into a target message.
//
// The machine guarantees: exactly one intermediate write per token, each a
// strict prefix extension of the previous, followed by one final write of
// the complete reply with loading cleared. An empty reply performs only the
// final write. Starting a new reveal bumps the generation, which cancels any
// in-progress one - its pending tick arrives with a stale stamp and is
// ignored.
type Reveal struct {
	state  RevealState
	gen    int
	convID string
	msgID  string
	full   string
	tokens []string
	next   int
	acc    string
}

// State returns the machine's current state.
func (r *Reveal) State() RevealState {
	return r.state
}

// Target returns the conversation and message ids being written to.
func (r *Reveal) Target() (convID, msgID string) {
	return r.convID, r.msgID
}

// Gen returns the current generation stamp.
func (r *Reveal) Gen() int {
	return r.gen
}

// Start begins revealing reply into the given message, cancelling any
// reveal already in progress.
func (r *Reveal) Start(convID, msgID, reply string) {
	r.gen++
	r.state = RevealRunning
	r.convID = convID
	r.msgID = msgID
	r.full = reply
	r.tokens = strings.Fields(reply)
	r.next = 0
	r.acc = ""
}

// Fail moves the machine to the errored state, cancelling any reveal in
// progress. The caller settles the target message separately.
func (r *Reveal) Fail() {
	r.gen++
	r.state = RevealErrored
	r.tokens = nil
	r.next = 0
	r.acc = ""
}

// step produces the next write. The second return is false once the machine
// has settled and no further ticks should be scheduled.
func (r *Reveal) step() (revealWrite, bool) {
	if r.state != RevealRunning {
		return revealWrite{}, false
	}

	// Tokens exhausted: one final write of the complete reply text (with
	// its original whitespace), loading cleared. An empty reply settles
	// with empty content instead of hanging.
	if r.next >= len(r.tokens) {
		r.state = RevealSettled
		content := r.full
		if len(r.tokens) == 0 {
			content = ""
		}
		return revealWrite{content: content, loading: false, final: true}, true
	}

	if r.next > 0 {
		r.acc += " "
	}
	r.acc += r.tokens[r.next]
	r.next++
	return revealWrite{content: r.acc, loading: true}, true
}

// tickCmd schedules the next reveal step on the fixed interval, stamped
// with the current generation.
func (r *Reveal) tickCmd() tea.Cmd {
	gen := r.gen
	return tea.Tick(RevealInterval, func(time.Time) tea.Msg {
		return RevealTickMsg{Gen: gen}
	})
}
