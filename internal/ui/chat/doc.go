// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: the message lifecycle
// (submit prompt, debounce, placeholder, reply or error) and the reveal
// scheduler that types out replies word by word.
//
// The lifecycle for one prompt:
//
//  1. SubmitPrompt rejects empty input and re-entry while a request is in
//     flight, retitles an empty conversation from the prompt, and appends
//     the user message.
//  2. After a 300ms debounce a loading bot placeholder is appended and the
//     chat request goes out, carrying the conversation snapshot taken
//     before the placeholder existed.
//  3. On success the reveal scheduler writes the reply into the placeholder
//     one word per 40ms tick, then settles it. On failure the placeholder
//     is settled with the error text. Both paths clear the in-flight flag.
//
// SelectSuggestion is the same flow without the debounce, used by the
// welcome screen's pre-canned prompts.
package chat
