// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command holds the pumlcache subcommands: render, the cache
// inspection and maintenance commands, recent and completion.
package command
