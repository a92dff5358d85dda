package models

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned by ParseDate for text that is not ISO-8601.
var ErrInvalidDate = errors.New("invalid date format")

// Accepted ISO-8601 forms. A fractional second is accepted after the seconds
// field by time.Parse even though the layouts do not spell it out.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date-time. A trailing "Z" is stripped first and
// text without an offset is taken as UTC. The result is in UTC with
// microsecond precision.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders t in UTC as YYYY-MM-DDTHH:MM:SS[.ffffff]Z. The fraction
// is only printed when the microseconds are non-zero.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format("2006-01-02T15:04:05.000000") + "Z"
	}
	return t.Format("2006-01-02T15:04:05") + "Z"
}
