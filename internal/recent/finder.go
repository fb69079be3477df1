// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

package recent

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Find resolves a document spec against the list. A spec can be -
//
//	~N      - the Nth most recent document, ~0 being the newest.
//	path    - an existing file, returned as is.
//	name    - the newest document whose base name starts with name.
func (l *List) Find(spec string) (string, error) {
	if strings.HasPrefix(spec, "~") {
		index, err := strconv.Atoi(spec[1:])
		if err != nil || index < 0 {
			return "", fmt.Errorf("invalid recent index %q", spec)
		}
		if index > len(l.docs)-1 {
			return "", fmt.Errorf("index %d out of range for %d recent documents", index, len(l.docs))
		}
		return l.docs[index], nil
	}

	if _, err := os.Stat(spec); err == nil {
		return spec, nil
	}

	// Starts-with search on the base name. The newest match wins.
	for _, d := range l.docs {
		if strings.HasPrefix(filepath.Base(d), spec) {
			return d, nil
		}
	}

	return "", fmt.Errorf("failed to find document %q", spec)
}
