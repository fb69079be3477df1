// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a cost-bounded, disk-backed cache of rendered
// artifacts. Entries are keyed by content fingerprint, ordered by last access
// and evicted oldest first once the total cost exceeds the budget. A cache can
// rebuild its index from an existing directory, which remains the durable
// source of truth.
//
// A Cache is not safe for concurrent use. Callers sharing one across
// goroutines must serialize all access.
package cache
