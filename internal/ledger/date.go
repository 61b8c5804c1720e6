package ledger

import (
	"fmt"
	"time"
)

// Date is a civil date with day granularity, serialized as "2006-01-02".
type Date struct {
	t time.Time
}

// ParseDate parses the wire format. The zero Date sorts before every real
// date, which is how unparsable dates order in the table.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, DateFormat, err)
	}
	return Date{t: t}, nil
}

// Today returns the current date.
func Today() Date {
	y, m, d := time.Now().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool        { return d.t.IsZero() }
func (d Date) Before(x Date) bool  { return d.t.Before(x.t) }
func (d Date) String() string      { return d.t.Format(DateFormat) }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// WithWeekday renders the date column label, e.g. "2025-12-01 (Mon)".
// Unparsable dates pass through untouched.
func WithWeekday(s string) string {
	d, err := ParseDate(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%s (%.3s)", s, d.Weekday())
}

// dateKey is the sort key for the date column: parse failures (including the
// empty string) collapse to the zero date, the minimum.
func dateKey(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}
	}
	return d
}
