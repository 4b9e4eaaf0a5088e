// Package biztime provides time utilities for the client. All transport
// timestamps are ISO-8601 strings parsed lazily for display only; storage
// and comparison stay in UTC.
package biztime

import (
	"fmt"
	"time"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseISO parses an ISO-8601 timestamp as delivered by the backend and
// the change feed. Fractional seconds and missing timezone are tolerated
// because the legacy tables store naive timestamps.
func ParseISO(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatDisplay renders an ISO-8601 timestamp for human consumption in
// the local timezone. Unparseable input is returned verbatim rather than
// hidden; the raw value is still more useful than an empty cell.
func FormatDisplay(s string) string {
	if s == "" {
		return ""
	}
	t, err := ParseISO(s)
	if err != nil {
		return s
	}
	return t.Local().Format(time.DateTime)
}
