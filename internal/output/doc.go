// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters, sorts and writes listing rows as a lipgloss table,
// JSON or YAML.
package output
