package calendar

import "sort"

// Calendar reports whether a day is unavailable for regular lessons.
type Calendar interface {
	IsBlocked(d Date) bool
}

// Range is an inclusive [Start, End] span of days.
type Range struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the range, both ends included.
func (r Range) Contains(d Date) bool {
	return d >= r.Start && d <= r.End
}

// ClosureCalendar is a read-only set of blocked ranges.
type ClosureCalendar struct {
	ranges []Range
}

// NewClosureCalendar copies and sorts the given ranges. Ranges with End before
// Start are ignored.
func NewClosureCalendar(ranges ...Range) *ClosureCalendar {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.End < r.Start {
			continue
		}
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Start != rs[j].Start {
			return rs[i].Start < rs[j].Start
		}
		return rs[i].End < rs[j].End
	})
	return &ClosureCalendar{ranges: rs}
}

// IsBlocked implements Calendar. A nil calendar blocks nothing.
func (c *ClosureCalendar) IsBlocked(d Date) bool {
	if c == nil {
		return false
	}
	for _, r := range c.ranges {
		if r.Start > d {
			return false
		}
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// Ranges returns a copy of the calendar's ranges in start order.
func (c *ClosureCalendar) Ranges() []Range {
	if c == nil {
		return nil
	}
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Open is a calendar with no closures.
var Open Calendar = NewClosureCalendar()

// withDates blocks everything the base calendar blocks plus a fixed set of days.
type withDates struct {
	base  Calendar
	dates map[Date]struct{}
}

// WithBlockedDates extends base with extra individually blocked days.
func WithBlockedDates(base Calendar, dates ...Date) Calendar {
	if base == nil {
		base = Open
	}
	if len(dates) == 0 {
		return base
	}
	set := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return &withDates{base: base, dates: set}
}

func (w *withDates) IsBlocked(d Date) bool {
	if _, ok := w.dates[d]; ok {
		return true
	}
	return w.base.IsBlocked(d)
}
