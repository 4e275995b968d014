// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrConversationNotFound indicates the requested conversation id does
	// not exist in the collection.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound indicates the requested message id does not exist
	// in the conversation.
	ErrMessageNotFound = errors.New("message not found")
)

// StoreError wraps a sentinel error with the id that triggered it.
type StoreError struct {
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return e.Err.Error() + ": " + e.ID
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func notFound(id string) error {
	return &StoreError{ID: id, Err: ErrConversationNotFound}
}

func messageNotFound(id string) error {
	return &StoreError{ID: id, Err: ErrMessageNotFound}
}
