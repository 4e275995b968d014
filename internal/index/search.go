// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// SEARCH RESULT
// =============================================================================

// SearchResult is one matching message.
type SearchResult struct {
	ConvID  string
	Title   string
	MsgID   string
	Role    string
	Snippet string
	Rank    float64 // bm25; lower is better
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// MaxResults limits the number of results (0 = default 50)
	MaxResults int

	// Role filters by message role ("user", "bot"; empty = all)
	Role string
}

// DefaultSearchOptions returns default search options.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{MaxResults: 50}
}

// =============================================================================
// SEARCH
// =============================================================================

var foldCaser = cases.Fold()

// normalizeQuery case-folds the query and quotes each term so user input
// cannot inject FTS5 syntax.
func normalizeQuery(query string) string {
	terms := strings.Fields(foldCaser.String(query))
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// Search runs a full-text query over message content.
func (idx *ConversationIndex) Search(ctx context.Context, query string, opts *SearchOptions) ([]SearchResult, error) {
	if opts == nil {
		opts = DefaultSearchOptions()
	}
	limit := opts.MaxResults
	if limit <= 0 {
		limit = 50
	}

	match := normalizeQuery(query)
	if match == "" {
		return nil, nil
	}

	q := `
		SELECT m.conv_id, c.title, m.msg_id, m.role,
		       snippet(messages_fts, 0, '[', ']', '...', 12),
		       bm25(messages_fts)
		FROM messages_fts
		JOIN messages m ON m.id = messages_fts.rowid
		JOIN conversations c ON c.id = m.conv_id
		WHERE messages_fts MATCH ?`
	args := []interface{}{match}

	if opts.Role != "" {
		q += ` AND m.role = ?`
		args = append(args, opts.Role)
	}
	q += ` ORDER BY bm25(messages_fts) LIMIT ?`
	args = append(args, limit)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ConvID, &r.Title, &r.MsgID, &r.Role, &r.Snippet, &r.Rank); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
