// Package calendar implements timezone-agnostic calendar-day arithmetic and
// the closure calendar used to block lesson generation.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the only textual date format accepted and produced.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// unixEpochDay is the Date of 1970-01-01. Day 1 is 0001-01-01, so every real
// day is positive and the zero value stays free to mean "unset".
const unixEpochDay = 719163

// Date is a calendar day counted from 0001-01-01 (day 1). The zero value means "unset".
type Date int

// Weekday numbers days the way the dashboard does: 0 = Monday, 6 = Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Valid reports whether w is in 0..6.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// NewDate builds a Date from its year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime drops the clock and location of t and keeps its wall-clock day.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	return Date(u/secondsPerDay) + unixEpochDay
}

// Parse reads a yyyy-mm-dd string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d-unixEpochDay)*secondsPerDay, 0).UTC()
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == 0
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// DaysUntil returns the number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other - d)
}

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// Weekday returns the Monday-based weekday.
func (d Date) Weekday() Weekday {
	// 1970-01-01 was a Thursday.
	w := (int(d-unixEpochDay) + int(Thursday)) % 7
	if w < 0 {
		w += 7
	}
	return Weekday(w)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = 0
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a > b {
		return a
	}
	return b
}
