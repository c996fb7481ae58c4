package schedule

import (
	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/google/uuid"
)

// PlanInput is everything a regeneration plan depends on.
type PlanInput struct {
	// Lessons are the package's stored lessons. Make-ups are ignored.
	Lessons  []*model.Lesson
	Weekdays []calendar.Weekday
	Size     int
	// Start is the first day the cadence may use. Zero means the earliest
	// stored regular lesson.
	Start    calendar.Date
	Calendar calendar.Calendar
	// Horizon bounds the scan; zero means the generator default from Start.
	Horizon calendar.Date
}

// ProposedLesson is one numbered slot of a regeneration plan.
type ProposedLesson struct {
	LessonID         int64         `json:"lesson_id,omitempty"` // 0 if the slot is not stored yet
	LessonNumber     int           `json:"lesson_number"`
	Date             calendar.Date `json:"date"`
	CurrentDate      calendar.Date `json:"current_date,omitempty"`
	IsManualOverride bool          `json:"is_manual_override"`
	IsFirst          bool          `json:"is_first"`
	Changed          bool          `json:"changed"`
}

// Plan proposes a date for every slot 1..Size. Pinned slots keep their date;
// open slots follow the weekday cadence from Start, never reuse a pinned date,
// and an open slot numbered after a pin is scheduled strictly after it.
// Plan never mutates its input.
func (g *Generator) Plan(in PlanInput) ([]ProposedLesson, error) {
	if !model.ValidPackageSize(in.Size) {
		return nil, errs.NewValidationError("size", "must be 4 or 8")
	}
	if _, err := weekdaySet(in.Weekdays); err != nil {
		return nil, err
	}

	stored := make(map[int]*model.Lesson, in.Size)
	var pinnedDates []calendar.Date
	start := in.Start
	for _, l := range in.Lessons {
		if l.IsMakeup || l.LessonNumber < 1 || l.LessonNumber > in.Size {
			continue
		}
		if _, dup := stored[l.LessonNumber]; dup {
			return nil, errs.NewConflictError("lesson number %d stored twice in package %d", l.LessonNumber, l.PackageID)
		}
		stored[l.LessonNumber] = l
		if l.IsManualOverride {
			pinnedDates = append(pinnedDates, l.Date)
		}
		if in.Start.IsZero() && (start.IsZero() || l.Date < start) {
			start = l.Date
		}
	}
	if start.IsZero() {
		return nil, errs.NewValidationError("start_date", "is required")
	}

	horizon := in.Horizon
	if horizon.IsZero() {
		horizon = g.DefaultHorizon(start)
	}
	cal := calendar.WithBlockedDates(in.Calendar, pinnedDates...)

	proposed := make([]ProposedLesson, 0, in.Size)
	cursor := start
	for n := 1; n <= in.Size; {
		if l := stored[n]; l != nil && l.IsManualOverride {
			proposed = append(proposed, proposedFrom(l, n, l.Date))
			cursor = calendar.Max(cursor, l.Date.AddDays(1))
			n++
			continue
		}

		// Собираем подряд идущие открытые слоты и заполняем их одним проходом.
		run := n
		for run <= in.Size {
			if l := stored[run]; l != nil && l.IsManualOverride {
				break
			}
			run++
		}
		dates, err := g.Generate(in.Weekdays, cursor, run-n, cal, horizon)
		if err != nil {
			return nil, err
		}
		for i, d := range dates {
			proposed = append(proposed, proposedFrom(stored[n+i], n+i, d))
		}
		cursor = dates[len(dates)-1].AddDays(1)
		n = run
	}

	return proposed, nil
}

func proposedFrom(current *model.Lesson, number int, date calendar.Date) ProposedLesson {
	p := ProposedLesson{
		LessonNumber: number,
		Date:         date,
		IsFirst:      number == 1,
		Changed:      true,
	}
	if current != nil {
		p.LessonID = current.ID
		p.CurrentDate = current.Date
		p.IsManualOverride = current.IsManualOverride
		p.Changed = current.Date != date
	}
	return p
}

// HasChanges reports whether any proposed slot differs from storage.
func HasChanges(proposed []ProposedLesson) bool {
	for _, p := range proposed {
		if p.Changed {
			return true
		}
	}
	return false
}

// NewChangeset turns a plan into the commit unit for a package: every slot
// that is not a manual override, plus the resulting first lesson date.
func NewChangeset(packageID int64, proposed []ProposedLesson) *model.LessonChangeset {
	cs := &model.LessonChangeset{
		ID:        uuid.New(),
		PackageID: packageID,
		Rows:      make([]model.LessonUpdate, 0, len(proposed)),
	}
	for _, p := range proposed {
		if p.LessonNumber == 1 {
			cs.FirstLessonDate = p.Date
		}
		if p.IsManualOverride {
			continue
		}
		cs.Rows = append(cs.Rows, model.LessonUpdate{
			LessonNumber:     p.LessonNumber,
			Date:             p.Date,
			IsManualOverride: false,
		})
	}
	return cs
}
