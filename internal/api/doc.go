// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the remote meal-planning backend.
//
// It issues four kinds of calls: the chat request that produces assistant
// replies, the sidebar summary fetch, the dashboard/health fetches, and the
// one-shot session location report. GET requests are retried with
// exponential backoff; the chat POST is not retried because its failure
// contract is terminal (the caller settles the placeholder message with the
// error). All requests pass through a token-bucket rate limiter so a
// misbehaving caller cannot hammer the shared backend.
package api
