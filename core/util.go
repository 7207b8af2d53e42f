package core

import (
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Now returns the current UTC time. Replaced in tests.
var Now = func() time.Time {
	return time.Now().UTC()
}

// Timestamp formats t as RFC3339 in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return Now().Format("2006-01-02")
}
