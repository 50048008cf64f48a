// Package validation holds small helpers for optional values and text limits.
package validation

import (
	"strings"
	"time"
	"unicode/utf8"
)

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func BoolPtr(b bool) *bool {
	return &b
}

// StringPtrValue returns the string value or an empty string if nil.
func StringPtrValue(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// TrimPtr trims a present string and leaves nil untouched.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// MaxRunes reports whether s is at most limit characters long.
func MaxRunes(s string, limit int) bool {
	return utf8.RuneCountInString(s) <= limit
}

// FormatTimePtr formats t as RFC3339 in UTC, or returns nil.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
