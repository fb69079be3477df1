// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "errors"

var (
	// ErrDuplicateInsert is returned when the entry already stored under a key
	// is added again.
	ErrDuplicateInsert = errors.New("entry is already in the cache")

	// ErrAlreadyRemoved is returned when an entry's backing file is deleted a
	// second time.
	ErrAlreadyRemoved = errors.New("entry was already removed from disk")

	// ErrDirectoryUnavailable is returned by SetPath when the directory cannot
	// be created or read. The cache keeps its previous state.
	ErrDirectoryUnavailable = errors.New("cache directory unavailable")
)
