// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the ordered collection of conversations and the active
// conversation pointer.
//
// The store upholds two invariants at all times:
//
//  1. At least one conversation exists. Deleting the last remaining
//     conversation replaces it with a fresh default conversation instead of
//     leaving the collection empty.
//  2. The active id always references an existing conversation. A stale
//     recorded id (for example after a deletion) falls back to the first
//     conversation in the collection.
//
// Every successful mutation is mirrored to disk: one JSON file per
// conversation plus a state file holding the display order and active id.
// All writes are atomic (temp file + fsync + rename). Malformed or missing
// persisted data is never fatal; the store falls back to a single default
// conversation.
//
// The store is owned by the single UI event loop and is not safe for
// concurrent use.
package store
