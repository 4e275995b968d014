// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/mealplan-tui/internal/model"
)

func newTestIndex(t *testing.T) (*ConversationIndex, string) {
	t.Helper()

	dir := t.TempDir()
	convDir := filepath.Join(dir, "conversations")
	if err := os.MkdirAll(convDir, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig(convDir)
	cfg.EnableWatch = false // tests drive indexing explicitly
	idx, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx, convDir
}

func writeConversation(t *testing.T, dir string, c model.Conversation) {
	t.Helper()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, c.ID+".json"), data, 0600); err != nil {
		t.Fatal(err)
	}
}

func testConversation(id, title string, contents ...string) model.Conversation {
	c := model.Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for i, content := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleBot
		}
		c.Messages = append(c.Messages, model.Message{
			ID:        c.ID + "_m" + string(rune('a'+i)),
			Role:      role,
			Content:   content,
			Timestamp: time.Now(),
		})
	}
	return c
}

func TestRebuildAndSearch(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Dinner ideas",
		"what should I cook for dinner tonight",
		"How about a lentil curry with rice?"))
	writeConversation(t, dir, testConversation("conv_2", "Groceries",
		"add oat milk to my grocery list",
		"Added oat milk."))

	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Conversations != 2 {
		t.Errorf("Conversations = %d, want 2", stats.Conversations)
	}
	if stats.Messages != 4 {
		t.Errorf("Messages = %d, want 4", stats.Messages)
	}

	results, err := idx.Search(context.Background(), "lentil curry", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ConvID != "conv_1" {
		t.Errorf("ConvID = %q, want conv_1", results[0].ConvID)
	}
	if results[0].Title != "Dinner ideas" {
		t.Errorf("Title = %q", results[0].Title)
	}
	if results[0].Snippet == "" {
		t.Error("expected a snippet")
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Test",
		"I love Paella on Sundays"))
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"paella", "PAELLA", "Paella"} {
		results, err := idx.Search(context.Background(), q, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 {
			t.Errorf("Search(%q) = %d results, want 1", q, len(results))
		}
	}
}

func TestSearchQuotesSpecialSyntax(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Test",
		"plain content here"))
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	// FTS operators in user input must not be interpreted as syntax.
	for _, q := range []string{`content AND here`, `"content`, `NEAR(content)`, `content*`} {
		if _, err := idx.Search(context.Background(), q, nil); err != nil {
			t.Errorf("Search(%q) errored: %v", q, err)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx, _ := newTestIndex(t)

	results, err := idx.Search(context.Background(), "   ", nil)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestSearchRoleFilter(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Test",
		"tell me about couscous", // user
		"Couscous is a steamed semolina dish.")) // bot
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), "couscous", &SearchOptions{Role: "bot"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Role != "bot" {
		t.Errorf("Role = %q, want bot", results[0].Role)
	}
}

func TestIndexConversationSkipsTransientMessages(t *testing.T) {
	idx, _ := newTestIndex(t)

	c := testConversation("conv_1", "Test", "searchable question")
	c.Messages = append(c.Messages,
		model.Message{ID: "p1", Role: model.RoleBot, Content: "Thinking...", Loading: true, Timestamp: time.Now()},
		model.Message{ID: "e1", Role: model.RoleBot, Content: "request failed", Error: true, Timestamp: time.Now()},
	)
	if err := idx.IndexConversation(&c); err != nil {
		t.Fatal(err)
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Messages != 1 {
		t.Errorf("Messages = %d, want 1 (transient messages skipped)", stats.Messages)
	}
}

func TestIndexConversationReplaces(t *testing.T) {
	idx, _ := newTestIndex(t)

	c := testConversation("conv_1", "Old title", "first version")
	if err := idx.IndexConversation(&c); err != nil {
		t.Fatal(err)
	}

	c2 := testConversation("conv_1", "New title", "second version", "a reply")
	if err := idx.IndexConversation(&c2); err != nil {
		t.Fatal(err)
	}

	if results, err := idx.Search(context.Background(), "first", nil); err != nil {
		t.Fatal(err)
	} else if len(results) != 0 {
		t.Errorf("stale content still searchable: %v", results)
	}

	results, err := idx.Search(context.Background(), "second", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "New title" {
		t.Errorf("results = %v", results)
	}
}

func TestRemoveConversation(t *testing.T) {
	idx, _ := newTestIndex(t)

	c := testConversation("conv_1", "Test", "findable phrase")
	if err := idx.IndexConversation(&c); err != nil {
		t.Fatal(err)
	}
	if err := idx.RemoveConversation("conv_1"); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), "findable", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("removed conversation still searchable: %v", results)
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Conversations != 0 || stats.Messages != 0 {
		t.Errorf("stats after removal = %+v", stats)
	}
}

func TestRebuildSkipsCorruptedFiles(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Good", "valid content"))
	if err := os.WriteFile(filepath.Join(dir, "conv_bad.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed on corrupted neighbor: %v", err)
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Conversations != 1 {
		t.Errorf("Conversations = %d, want 1", stats.Conversations)
	}
}

func TestSearchMaxResults(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeConversation(t, dir, testConversation("conv_1", "Test",
		"pasta one", "pasta two", "pasta three", "pasta four"))
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), "pasta", &SearchOptions{MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}
