package validation

import (
	"fmt"
	"time"
)

// ParseFlexibleDate tries to parse a date string using multiple common formats.
// Full timestamps are tried first so a zone offset is never discarded.
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05", // ISO without zone, read as UTC
		time.DateOnly,         // YYYY-MM-DD
		"01/02/2006",          // MM/DD/YYYY
		"01-02-2006",          // MM-DD-YYYY
		"2006/01/02",          // YYYY/MM/DD
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
