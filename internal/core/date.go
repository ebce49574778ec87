package core

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without a time-of-day component. All dates
// are anchored at UTC midnight internally and only ever compared as
// whole days, so range checks cannot drift across timezones.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{t: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date string (YYYY-MM-DD). Timestamps
// with a time component are truncated to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return Date{t: t}, nil
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar date.
func Today() Date { return DateOf(time.Now()) }

func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Within reports whether d falls inside [start, end], both bounds
// inclusive. A zero bound means that side is unconstrained.
func (d Date) Within(start, end Date) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

func (d Date) Year() int  { return d.t.Year() }
func (d Date) Month() int { return int(d.t.Month()) }
func (d Date) Day() int   { return d.t.Day() }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// MonthBounds returns the first and last day of d's month.
func (d Date) MonthBounds() (Date, Date) {
	first := NewDate(d.Year(), d.Month(), 1)
	last := Date{t: first.t.AddDate(0, 1, -1)}
	return first, last
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
