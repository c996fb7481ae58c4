package schedule

import (
	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
)

// ChunkInput describes which future dates to stage for new packages.
type ChunkInput struct {
	// Student must have its packages and their lessons loaded.
	Student *model.Student
	// After, when set, continues after this package instead of the student's latest lesson.
	After    *model.Package
	Size     int
	Calendar calendar.Calendar
	// Extend stages every date up to the bound instead of a single package.
	Extend bool
	// Horizon caps the scan in addition to the student's end date; zero means the generator default.
	Horizon calendar.Date
}

// Chunk is a package-sized run of consecutive candidate dates.
type Chunk struct {
	Index       int             `json:"index"`
	Dates       []calendar.Date `json:"dates"`
	Committable bool            `json:"committable"` // false for a short trailing chunk
}

// Chunk stages future lesson dates for a student, grouped into packages of
// Size. Only chunks of exactly Size dates are committable.
func (g *Generator) Chunk(in ChunkInput) ([]Chunk, error) {
	if in.Student == nil {
		return nil, errs.NewValidationError("student", "is required")
	}
	if !model.ValidPackageSize(in.Size) {
		return nil, errs.NewValidationError("size", "must be 4 or 8")
	}

	start := ChunkStart(in.Student, in.After)
	if start.IsZero() {
		return nil, errs.NewValidationError("start_date", "is required")
	}

	bound := in.Horizon
	if bound.IsZero() {
		bound = g.DefaultHorizon(start)
	}
	if end := in.Student.EndDate; !end.IsZero() && end < bound {
		bound = end
	}

	limit := in.Size
	if in.Extend {
		limit = 0
	}
	dates, err := g.Scan(in.Student.WeekdaysFor(in.Size), start, limit, in.Calendar, bound)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, &errs.SchedulingError{Needed: in.Size, Found: 0, Horizon: bound}
	}

	return Partition(dates, in.Size), nil
}

// ChunkStart returns the first day new packages may use: the day after the
// latest regular lesson of after (or of all the student's packages when after
// is nil), or the student's start date when there are no lessons.
func ChunkStart(student *model.Student, after *model.Package) calendar.Date {
	var last calendar.Date
	if after != nil {
		last = after.LastLessonDate()
	} else {
		for _, p := range student.Packages {
			if d := p.LastLessonDate(); d > last {
				last = d
			}
		}
	}
	if last.IsZero() {
		return student.StartDate
	}
	return last.AddDays(1)
}

// Partition splits dates into consecutive chunks of size, keeping order.
func Partition(dates []calendar.Date, size int) []Chunk {
	if size <= 0 {
		return nil
	}
	chunks := make([]Chunk, 0, (len(dates)+size-1)/size)
	for i := 0; i < len(dates); i += size {
		end := min(i+size, len(dates))
		part := make([]calendar.Date, end-i)
		copy(part, dates[i:end])
		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			Dates:       part,
			Committable: len(part) == size,
		})
	}
	return chunks
}

// ValidateChunk checks that dates can become a package of size: the size is
// 4 or 8, there are exactly size dates, and they are strictly increasing.
func ValidateChunk(dates []calendar.Date, size int) error {
	if !model.ValidPackageSize(size) {
		return errs.NewValidationError("size", "must be 4 or 8")
	}
	if len(dates) != size {
		return errs.NewConflictError("chunk has %d dates, package size is %d", len(dates), size)
	}
	for i := 1; i < len(dates); i++ {
		if dates[i] <= dates[i-1] {
			return errs.NewValidationError("dates", "must be strictly increasing")
		}
	}
	return nil
}

// NewPackageFromChunk builds the creation request for a committable chunk.
func NewPackageFromChunk(dates []calendar.Date, size int) (model.NewPackage, error) {
	if err := ValidateChunk(dates, size); err != nil {
		return model.NewPackage{}, err
	}
	out := make([]calendar.Date, len(dates))
	copy(out, dates)
	return model.NewPackage{FirstLessonDate: out[0], Size: size, Dates: out}, nil
}
