package dto

import (
	"fmt"
	"time"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
)

// Wire formats for dates and timestamps. All request dates are bare ISO
// days; timestamps appear only in responses.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// ParseDate parses a yyyy-MM-dd wire date into a UTC time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want yyyy-MM-dd", apperrors.ErrValidation, value)
	}
	return t, nil
}

// ParseDateRange parses a from/to pair and rejects inverted ranges.
func ParseDateRange(fromValue, toValue string) (time.Time, time.Time, error) {
	from, err := ParseDate(fromValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(toValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date range end %s precedes start %s", apperrors.ErrValidation, toValue, fromValue)
	}
	return from, to, nil
}

// FormatDate renders a time as a yyyy-MM-dd wire date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp renders a time as a yyyy-MM-dd HH:mm:ss wire timestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
