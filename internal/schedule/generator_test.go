package schedule

import (
	"math/rand"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/stretchr/testify/require"
)

func dates(ss ...string) []calendar.Date {
	out := make([]calendar.Date, len(ss))
	for i, s := range ss {
		out[i] = calendar.MustParse(s)
	}
	return out
}

func closedOn(ranges ...[2]string) *calendar.ClosureCalendar {
	rs := make([]calendar.Range, len(ranges))
	for i, r := range ranges {
		rs[i] = calendar.Range{Start: calendar.MustParse(r[0]), End: calendar.MustParse(r[1])}
	}
	return calendar.NewClosureCalendar(rs...)
}

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(0)
	tue := []calendar.Weekday{calendar.Tuesday}

	t.Run("weekly cadence without closures", func(t *testing.T) {
		got, err := g.Generate(tue, calendar.MustParse("2024-01-02"), 4, nil, 0)

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23"), got)
	})

	t.Run("skips a single-day closure", func(t *testing.T) {
		cal := closedOn([2]string{"2024-01-09", "2024-01-09"})

		got, err := g.Generate(tue, calendar.MustParse("2024-01-02"), 4, cal, 0)

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-16", "2024-01-23", "2024-01-30"), got)
	})

	t.Run("two weekdays are visited in calendar order", func(t *testing.T) {
		days := []calendar.Weekday{calendar.Thursday, calendar.Monday}

		got, err := g.Generate(days, calendar.MustParse("2024-01-02"), 5, nil, 0)

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-04", "2024-01-08", "2024-01-11", "2024-01-15", "2024-01-18"), got)
	})

	t.Run("start day not on a configured weekday", func(t *testing.T) {
		got, err := g.Generate(tue, calendar.MustParse("2024-01-03"), 1, nil, 0)

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-09"), got)
	})

	t.Run("fails when the horizon is reached", func(t *testing.T) {
		got, err := g.Generate(tue, calendar.MustParse("2024-01-02"), 4, nil, calendar.MustParse("2024-01-20"))

		require.Nil(t, got)
		require.ErrorIs(t, err, errs.ErrScheduling)
		var serr *errs.SchedulingError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, 3, serr.Found)
		require.Equal(t, 4, serr.Needed)
	})

	t.Run("horizon day itself is included", func(t *testing.T) {
		got, err := g.Generate(tue, calendar.MustParse("2024-01-02"), 3, nil, calendar.MustParse("2024-01-16"))

		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("closure covering the whole default horizon", func(t *testing.T) {
		short := NewGenerator(30)
		cal := closedOn([2]string{"2024-01-01", "2024-12-31"})

		_, err := short.Generate(tue, calendar.MustParse("2024-01-02"), 1, cal, 0)

		require.ErrorIs(t, err, errs.ErrScheduling)
	})
}

func TestGenerator_Generate_Validation(t *testing.T) {
	g := NewGenerator(0)
	start := calendar.MustParse("2024-01-02")

	tests := []struct {
		name     string
		weekdays []calendar.Weekday
		start    calendar.Date
		n        int
	}{
		{name: "empty weekdays", weekdays: nil, start: start, n: 4},
		{name: "weekday out of range", weekdays: []calendar.Weekday{7}, start: start, n: 4},
		{name: "missing start", weekdays: []calendar.Weekday{calendar.Tuesday}, n: 4},
		{name: "zero count", weekdays: []calendar.Weekday{calendar.Tuesday}, start: start, n: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.weekdays, tt.start, tt.n, nil, 0)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestGenerator_Generate_Properties(t *testing.T) {
	g := NewGenerator(0)
	rng := rand.New(rand.NewSource(42))
	base := calendar.MustParse("2023-06-01")

	for i := 0; i < 300; i++ {
		first := calendar.Weekday(rng.Intn(7))
		weekdays := []calendar.Weekday{first}
		if rng.Intn(2) == 0 {
			weekdays = append(weekdays, calendar.Weekday((int(first)+1+rng.Intn(6))%7))
		}
		start := base.AddDays(rng.Intn(400))
		n := 1 + rng.Intn(8)

		var ranges []calendar.Range
		for c := rng.Intn(4); c > 0; c-- {
			from := start.AddDays(rng.Intn(60))
			ranges = append(ranges, calendar.Range{Start: from, End: from.AddDays(rng.Intn(14))})
		}
		cal := calendar.NewClosureCalendar(ranges...)

		got, err := g.Generate(weekdays, start, n, cal, 0)
		require.NoError(t, err)
		require.Len(t, got, n)

		again, err := g.Generate(weekdays, start, n, cal, 0)
		require.NoError(t, err)
		require.Equal(t, got, again, "generation must be idempotent")

		for j, d := range got {
			require.False(t, d.Before(start))
			require.Contains(t, weekdays, d.Weekday())
			require.False(t, cal.IsBlocked(d), "date %s is inside a closure", d)
			if j > 0 {
				require.True(t, d.After(got[j-1]), "dates must be strictly increasing")
			}
		}
	}
}

func TestGenerator_Scan(t *testing.T) {
	g := NewGenerator(0)
	tue := []calendar.Weekday{calendar.Tuesday}

	t.Run("unbounded scan stops at the horizon", func(t *testing.T) {
		got, err := g.Scan(tue, calendar.MustParse("2024-01-02"), 0, nil, calendar.MustParse("2024-01-31"))

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23", "2024-01-30"), got)
	})

	t.Run("returns a short result instead of failing", func(t *testing.T) {
		got, err := g.Scan(tue, calendar.MustParse("2024-01-02"), 8, nil, calendar.MustParse("2024-01-10"))

		require.NoError(t, err)
		require.Len(t, got, 2)
	})
}
