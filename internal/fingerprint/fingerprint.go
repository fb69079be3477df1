// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint derives cache keys from document content.
package fingerprint

import (
	"bytes"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Key returns "<hash>.<format>" for the document. Trailing whitespace is
// ignored so that a document that only gained a newline maps to the same
// rendered artifact.
func Key(document []byte, format string) string {
	sum := blake2b.Sum256(bytes.TrimRight(document, " \t\r\n"))
	return hex.EncodeToString(sum[:]) + "." + format
}

// Split breaks a key into its hash and format parts. ok is false when key
// does not look like a fingerprint key.
func Split(key string) (hash, format string, ok bool) {
	i := strings.LastIndexByte(key, '.')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	hash, format = key[:i], key[i+1:]
	if len(hash) != hex.EncodedLen(blake2b.Size256) {
		return "", "", false
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return "", "", false
	}
	return hash, format, true
}
