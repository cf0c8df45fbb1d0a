// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package workname normalizes work names, which double as storage directory names.
//
// # Usage
//
// A work named "Dragon Tales" keeps its pages under "<root>/Dragon Tales/".
// Names are normalized before they reach the database or the filesystem so
// both agree on the exact byte sequence.
package workname

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmpty is returned for blank names.
	ErrEmpty = errors.New("Name must not be empty")
	// ErrSeparator is returned when a name contains a path separator.
	ErrSeparator = errors.New("Name must not contain path separators")
	// ErrDotted is returned for ".", ".." and hidden names.
	ErrDotted = errors.New("Name must not start with a dot")
	// ErrControl is returned when a name contains control characters.
	ErrControl = errors.New("Name must not contain control characters")
)

// Normalize converts s to NFC, trims it, and collapses internal whitespace runs.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes "e" + combining acute into "é").
// 2. Trims leading and trailing whitespace.
// 3. Replaces each run of whitespace with a single space.
func Normalize(s string) string {
	composed := norm.NFC.String(s)
	return strings.Join(strings.Fields(composed), " ")
}

// Check reports why s cannot be used as a directory name, or nil if it can.
// It expects a name already passed through [Normalize].
func Check(s string) error {
	switch {
	case s == "":
		return ErrEmpty
	case strings.ContainsAny(s, `/\`):
		return ErrSeparator
	case strings.HasPrefix(s, "."):
		return ErrDotted
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return ErrControl
		}
	}

	return nil
}
