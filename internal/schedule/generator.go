// Package schedule holds the lesson date engine: generation of weekday
// cadences around closures, regeneration planning that keeps manually pinned
// lessons, and chunking of future dates into package-sized groups.
package schedule

import (
	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
)

// DefaultHorizonDays bounds a scan when the caller gives no explicit limit.
const DefaultHorizonDays = 365 * 2

// Generator produces lesson dates. The zero value uses DefaultHorizonDays.
type Generator struct {
	HorizonDays int
}

// NewGenerator creates a generator with the given default horizon in days.
func NewGenerator(horizonDays int) *Generator {
	return &Generator{HorizonDays: horizonDays}
}

// DefaultHorizon returns the horizon used when none is given for start.
func (g *Generator) DefaultHorizon(start calendar.Date) calendar.Date {
	days := DefaultHorizonDays
	if g != nil && g.HorizonDays > 0 {
		days = g.HorizonDays
	}
	return start.AddDays(days)
}

// Generate returns exactly n dates on or after start whose weekday is in
// weekdays and which the calendar does not block, in calendar order. The scan
// stops at horizon (inclusive; zero means the default horizon). Fewer than n
// dates is a SchedulingError and nothing is returned.
func (g *Generator) Generate(weekdays []calendar.Weekday, start calendar.Date, n int, cal calendar.Calendar, horizon calendar.Date) ([]calendar.Date, error) {
	if n <= 0 {
		return nil, errs.NewValidationError("count", "must be positive")
	}
	if horizon.IsZero() {
		horizon = g.DefaultHorizon(start)
	}

	dates, err := g.Scan(weekdays, start, n, cal, horizon)
	if err != nil {
		return nil, err
	}
	if len(dates) < n {
		return nil, &errs.SchedulingError{Needed: n, Found: len(dates), Horizon: horizon}
	}
	return dates, nil
}

// Scan is Generate without the completeness check: it returns up to limit
// dates (limit 0 means no limit) found between start and horizon inclusive.
func (g *Generator) Scan(weekdays []calendar.Weekday, start calendar.Date, limit int, cal calendar.Calendar, horizon calendar.Date) ([]calendar.Date, error) {
	set, err := weekdaySet(weekdays)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, errs.NewValidationError("start_date", "is required")
	}
	if limit < 0 {
		return nil, errs.NewValidationError("count", "must not be negative")
	}
	if cal == nil {
		cal = calendar.Open
	}
	if horizon.IsZero() {
		horizon = g.DefaultHorizon(start)
	}

	var dates []calendar.Date
	if limit > 0 {
		dates = make([]calendar.Date, 0, limit)
	}
	for d := start; d <= horizon; d = d.AddDays(1) {
		if !set[d.Weekday()] || cal.IsBlocked(d) {
			continue
		}
		dates = append(dates, d)
		if limit > 0 && len(dates) == limit {
			break
		}
	}
	return dates, nil
}

func weekdaySet(weekdays []calendar.Weekday) (map[calendar.Weekday]bool, error) {
	if len(weekdays) == 0 {
		return nil, errs.NewValidationError("weekdays", "must not be empty")
	}
	set := make(map[calendar.Weekday]bool, len(weekdays))
	for _, w := range weekdays {
		if !w.Valid() {
			return nil, errs.NewValidationError("weekdays", "must be between 0 (Mon) and 6 (Sun)")
		}
		set[w] = true
	}
	return set, nil
}
