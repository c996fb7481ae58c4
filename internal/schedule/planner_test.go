package schedule

import (
	"math/rand"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func lessonsOn(packageID int64, ds ...string) []*model.Lesson {
	out := make([]*model.Lesson, len(ds))
	for i, s := range ds {
		out[i] = &model.Lesson{
			ID:           packageID*100 + int64(i+1),
			PackageID:    packageID,
			LessonNumber: i + 1,
			Date:         calendar.MustParse(s),
			IsFirst:      i == 0,
			Status:       model.LessonStatusScheduled,
		}
	}
	return out
}

func proposedDates(p []ProposedLesson) []calendar.Date {
	out := make([]calendar.Date, len(p))
	for i := range p {
		out[i] = p[i].Date
	}
	return out
}

func TestGenerator_Plan(t *testing.T) {
	g := NewGenerator(0)
	tue := []calendar.Weekday{calendar.Tuesday}

	t.Run("unchanged package proposes the stored dates", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4})

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23"), proposedDates(got))
		require.False(t, HasChanges(got))
		require.True(t, got[0].IsFirst)
		require.Equal(t, int64(101), got[0].LessonID)
	})

	t.Run("new closure shifts the open slots", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")
		cal := closedOn([2]string{"2024-01-09", "2024-01-09"})

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4, Calendar: cal})

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-16", "2024-01-23", "2024-01-30"), proposedDates(got))
		require.False(t, got[0].Changed)
		require.True(t, got[1].Changed)
		require.Equal(t, calendar.MustParse("2024-01-09"), got[1].CurrentDate)
	})

	t.Run("pinned lesson keeps its date and is never reused", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-02-27", "2024-03-05", "2024-03-12", "2024-03-19")
		lessons[1].IsManualOverride = true
		cal := closedOn([2]string{"2024-02-27", "2024-02-27"})

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4, Calendar: cal})

		require.NoError(t, err)
		require.Equal(t, calendar.MustParse("2024-03-05"), got[1].Date)
		require.True(t, got[1].IsManualOverride)
		require.False(t, got[1].Changed)
		require.Equal(t, calendar.MustParse("2024-03-12"), got[0].Date)
		require.Equal(t, calendar.MustParse("2024-03-19"), got[2].Date)
		require.Equal(t, calendar.MustParse("2024-03-26"), got[3].Date)
		for _, p := range got {
			if p.LessonNumber != 2 {
				require.NotEqual(t, calendar.MustParse("2024-03-05"), p.Date)
			}
		}
	})

	t.Run("slots after a pin continue strictly after it", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")
		lessons[1].Date = calendar.MustParse("2024-02-01") // pinned on a Thursday far ahead
		lessons[1].IsManualOverride = true

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4})

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-02-01", "2024-02-06", "2024-02-13"), proposedDates(got))
	})

	t.Run("missing slots are proposed as new rows", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09")

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4})

		require.NoError(t, err)
		require.Len(t, got, 4)
		require.Zero(t, got[2].LessonID)
		require.True(t, got[2].Changed)
		require.Equal(t, calendar.MustParse("2024-01-16"), got[2].Date)
	})

	t.Run("empty package uses the explicit start", func(t *testing.T) {
		got, err := g.Plan(PlanInput{Weekdays: tue, Size: 4, Start: calendar.MustParse("2024-01-01")})

		require.NoError(t, err)
		require.Equal(t, dates("2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23"), proposedDates(got))
	})

	t.Run("make-up lessons are ignored", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")
		lessons = append(lessons, &model.Lesson{ID: 999, PackageID: 1, Date: calendar.MustParse("2023-12-20"), IsMakeup: true})

		got, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4})

		require.NoError(t, err)
		require.False(t, HasChanges(got))
	})

	t.Run("plan does not mutate its input", func(t *testing.T) {
		lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")
		cal := closedOn([2]string{"2024-01-09", "2024-01-16"})

		_, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4, Calendar: cal})

		require.NoError(t, err)
		require.Equal(t, calendar.MustParse("2024-01-09"), lessons[1].Date)
	})
}

func TestGenerator_Plan_Errors(t *testing.T) {
	g := NewGenerator(0)
	tue := []calendar.Weekday{calendar.Tuesday}
	lessons := lessonsOn(1, "2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23")

	t.Run("empty weekdays", func(t *testing.T) {
		_, err := g.Plan(PlanInput{Lessons: lessons, Size: 4})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 5})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("no start and no lessons", func(t *testing.T) {
		_, err := g.Plan(PlanInput{Weekdays: tue, Size: 4})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("not enough dates before the horizon", func(t *testing.T) {
		_, err := g.Plan(PlanInput{Lessons: lessons, Weekdays: tue, Size: 4, Horizon: calendar.MustParse("2024-01-20")})
		require.ErrorIs(t, err, errs.ErrScheduling)
	})

	t.Run("duplicate lesson numbers", func(t *testing.T) {
		dup := append(lessonsOn(1, "2024-01-02", "2024-01-09"), lessonsOn(1, "2024-01-16")...)
		_, err := g.Plan(PlanInput{Lessons: dup, Weekdays: tue, Size: 4})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestGenerator_Plan_PinPreservation(t *testing.T) {
	g := NewGenerator(0)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		size := 4
		if rng.Intn(2) == 0 {
			size = 8
		}
		weekdays := []calendar.Weekday{calendar.Weekday(rng.Intn(7))}
		if size == 8 {
			weekdays = append(weekdays, calendar.Weekday((int(weekdays[0])+1+rng.Intn(6))%7))
		}
		start := calendar.MustParse("2024-01-01").AddDays(rng.Intn(200))
		stored, err := g.Generate(weekdays, start, size, nil, 0)
		require.NoError(t, err)

		lessons := make([]*model.Lesson, size)
		pins := map[int]calendar.Date{}
		for n := range lessons {
			lessons[n] = &model.Lesson{ID: int64(n + 1), PackageID: 1, LessonNumber: n + 1, Date: stored[n]}
			if rng.Intn(3) == 0 {
				lessons[n].IsManualOverride = true
				lessons[n].Date = stored[n].AddDays(rng.Intn(5))
				pins[n+1] = lessons[n].Date
			}
		}
		from := start.AddDays(rng.Intn(30))
		cal := calendar.NewClosureCalendar(calendar.Range{Start: from, End: from.AddDays(rng.Intn(20))})

		in := PlanInput{Lessons: lessons, Weekdays: weekdays, Size: size, Calendar: cal}
		got, err := g.Plan(in)
		require.NoError(t, err)
		again, err := g.Plan(in)
		require.NoError(t, err)
		require.Equal(t, got, again)

		pinned := map[calendar.Date]bool{}
		for _, d := range pins {
			pinned[d] = true
		}
		for _, p := range got {
			if d, ok := pins[p.LessonNumber]; ok {
				require.Equal(t, d, p.Date)
				require.False(t, p.Changed)
				continue
			}
			require.False(t, pinned[p.Date], "open slot reused pinned date %s", p.Date)
			require.False(t, cal.IsBlocked(p.Date))
		}

		cs := NewChangeset(1, got)
		for _, row := range cs.Rows {
			_, isPin := pins[row.LessonNumber]
			require.False(t, isPin, "changeset must not touch pinned slot %d", row.LessonNumber)
		}
		require.Len(t, cs.Rows, size-len(pins))
	}
}

func TestNewChangeset(t *testing.T) {
	proposed := []ProposedLesson{
		{LessonNumber: 1, Date: calendar.MustParse("2024-03-12"), IsFirst: true, Changed: true},
		{LessonNumber: 2, Date: calendar.MustParse("2024-03-05"), IsManualOverride: true},
		{LessonNumber: 3, Date: calendar.MustParse("2024-03-19"), Changed: true},
	}

	cs := NewChangeset(42, proposed)

	require.Equal(t, int64(42), cs.PackageID)
	require.NotEqual(t, uuid.Nil, cs.ID)
	require.Equal(t, calendar.MustParse("2024-03-12"), cs.FirstLessonDate)
	require.Equal(t, []model.LessonUpdate{
		{LessonNumber: 1, Date: calendar.MustParse("2024-03-12")},
		{LessonNumber: 3, Date: calendar.MustParse("2024-03-19")},
	}, cs.Rows)
}
