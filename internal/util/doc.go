// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides crash-safe file operations shared by the persistence
// layers.
//
// AtomicWriteFile writes through a temp file with fsync and rename, so the
// conversation store, session file, and config writer never leave a
// half-written file behind on crash or power loss.
//
//	err := util.AtomicWriteFile(path, data, 0644)
package util
