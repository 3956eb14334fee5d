// Package numparse parses numbers and booleans from strings with the
// conventions shared by the rest of the module: surrounding whitespace is
// ignored, the empty string reads as the zero value, and integer literals
// carry their base in the usual 0x, 0o, and 0b prefixes. The Or variants
// swallow parse failures and return a fallback instead, which suits
// configuration and query-parameter plumbing where a bad value means
// "use the default".
package numparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Int parses s as a signed 64-bit integer. Base prefixes and digit
// underscores are honored; an empty or blank s is 0.
func Int(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as integer: %w", s, err)
	}
	return n, nil
}

// IntOr parses s as a signed integer, returning fallback when s is empty
// or malformed.
func IntOr(s string, fallback int64) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return fallback
	}
	return n
}

// Uint parses s as an unsigned 64-bit integer. Base prefixes and digit
// underscores are honored; an empty or blank s is 0.
func Uint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as unsigned integer: %w", s, err)
	}
	return n, nil
}

// UintOr parses s as an unsigned integer, returning fallback when s is
// empty or malformed.
func UintOr(s string, fallback uint64) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fallback
	}
	return n
}

// Float parses s as a 64-bit float. An empty or blank s is 0.
func Float(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as float: %w", s, err)
	}
	return f, nil
}

// FloatOr parses s as a float, returning fallback when s is empty or
// malformed.
func FloatOr(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Bool parses s with strconv.ParseBool semantics. An empty or blank s is
// false.
func Bool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("failed to parse %q as bool: %w", s, err)
	}
	return b, nil
}

// BoolOr parses s as a bool, returning fallback when s is empty or
// malformed.
func BoolOr(s string, fallback bool) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
