package models

import (
	"fmt"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
)

// ParseDate parses a YYYY-MM-DD calendar date. Anything else, including
// impossible dates like 2024-02-30, is a validation error.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(common.DateLayout) {
		return time.Time{}, fmt.Errorf("%w: date %q is not in YYYY-MM-DD format", common.ErrValidation, s)
	}
	t, err := time.Parse(common.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not in YYYY-MM-DD format", common.ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders t as a YYYY-MM-DD date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(common.DateLayout)
}

// DateRange is a closed range of posting dates.
type DateRange struct {
	Start string
	End   string
}

// NewDateRange validates both ends and their order.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	if s.After(e) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", common.ErrValidation, start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether date falls inside the range. YYYY-MM-DD strings
// sort the same way as the dates they name.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}
