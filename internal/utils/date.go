package utils

import (
	"fmt"
	"time"

	"github.com/yukikurage/pms-api/internal/constants"
)

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at
// UTC midnight.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(constants.DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseOptionalDate parses value when non-nil.
func ParseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(constants.DateLayout)
}

// FormatOptionalDate renders t as YYYY-MM-DD, or nil.
func FormatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}
