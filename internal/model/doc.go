// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core domain types for the meal-planning chat
// client: conversations and the messages they contain.
//
// A Conversation is a titled, ordered sequence of messages identified by an
// opaque id. A Message is either a completed user message or a bot message
// that starts life as a loading placeholder and is settled exactly once,
// either with reply content or with an error description.
package model
