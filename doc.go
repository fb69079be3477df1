// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// pumlcache renders PlantUML documents into SVG or PNG images and keeps the
// results in a size-bounded cache directory so unchanged documents are never
// rendered twice.
package main
