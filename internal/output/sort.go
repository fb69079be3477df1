// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"sort"
	"strings"
)

type sortKey struct {
	name          string
	descending    bool
	caseSensitive bool
}

// parseSortSpec splits a --sort spec. Each comma separated key may be
// prefixed with - for descending and ! for case sensitive, in either order.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		k := sortKey{}
		for len(field) > 0 && (field[0] == '-' || field[0] == '!') {
			if field[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			field = field[1:]
		}
		if field == "" {
			continue
		}
		k.name = field
		keys = append(keys, k)
	}
	return keys
}

// SortDataset orders rows in place by the keys in spec. Numbers compare
// numerically, strings lexically and case-insensitively unless the key is
// prefixed with !. Missing values sort first. The sort is stable.
func SortDataset(dataset []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(dataset[i][k.name], dataset[j][k.name], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	sa, sb := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	return strings.Compare(sa, sb)
}
