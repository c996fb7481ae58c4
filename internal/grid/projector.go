// Package grid projects persisted students, packages and lessons into the
// ordered rows shown on the dashboard and in the spreadsheet export.
package grid

import (
	"fmt"
	"sort"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type RowKind string

const (
	RowPackage     RowKind = "package"
	RowPlaceholder RowKind = "placeholder" // ученик без пакетов
	RowMakeup      RowKind = "makeup"      // отработки под строкой пакета
)

// Filters narrows the grid. Nil fields do not filter.
type Filters struct {
	Size    *int
	Group   *string
	Weekday *calendar.Weekday
}

// Row is one dashboard line.
type Row struct {
	Key               string
	Kind              RowKind
	Student           *model.Student
	Package           *model.Package // nil for placeholder rows
	IsFirstForStudent bool
	// Lessons of a package row are indexed by lesson_number-1 and may contain
	// nil gaps; a make-up row lists the package's make-ups by date.
	Lessons []*model.Lesson
	// HighlightFirst marks the first lesson of an unpaid package.
	HighlightFirst bool
}

// Projector builds grid rows. It is safe for concurrent use.
type Projector struct {
	tag language.Tag
}

// NewProjector creates a projector sorting names with the collation rules of tag.
func NewProjector(tag language.Tag) *Projector {
	return &Projector{tag: tag}
}

// NewProjectorForLocale parses a BCP 47 locale such as "en" or "th".
func NewProjectorForLocale(locale string) (*Projector, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse grid locale %q: %w", locale, err)
	}
	return NewProjector(tag), nil
}

// Project filters and orders students and their packages into rows. The input
// is not modified and equal inputs always give equal output.
func (p *Projector) Project(students []*model.Student, f Filters) []Row {
	filtered := make([]*model.Student, 0, len(students))
	for _, s := range students {
		if matchesStudent(s, f) {
			filtered = append(filtered, s)
		}
	}

	// collate.Collator держит внутренние буферы, поэтому создаётся на каждый вызов
	col := collate.New(p.tag, collate.IgnoreCase)
	sort.SliceStable(filtered, func(i, j int) bool {
		if c := col.CompareString(filtered[i].Name, filtered[j].Name); c != 0 {
			return c < 0
		}
		return filtered[i].ID < filtered[j].ID
	})

	var rows []Row
	for _, s := range filtered {
		if len(s.Packages) == 0 {
			rows = append(rows, Row{
				Key:               fmt.Sprintf("s-%d-nopkg", s.ID),
				Kind:              RowPlaceholder,
				Student:           s,
				IsFirstForStudent: true,
			})
			continue
		}

		first := true
		for _, pkg := range sortedPackages(s.Packages) {
			if f.Size != nil && pkg.Size != *f.Size {
				continue
			}
			rows = append(rows, packageRow(s, pkg, first))
			first = false

			if makeups := sortedMakeups(pkg); len(makeups) > 0 {
				rows = append(rows, Row{
					Key:     fmt.Sprintf("s-%d-p-%d-makeup", s.ID, pkg.ID),
					Kind:    RowMakeup,
					Student: s,
					Package: pkg,
					Lessons: makeups,
				})
			}
		}
	}
	return rows
}

func matchesStudent(s *model.Student, f Filters) bool {
	if f.Group != nil && s.Group != *f.Group {
		return false
	}
	if f.Weekday != nil && !s.HasWeekday(*f.Weekday) {
		return false
	}
	return true
}

func sortedPackages(pkgs []*model.Package) []*model.Package {
	out := make([]*model.Package, len(pkgs))
	copy(out, pkgs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FirstLessonDate != out[j].FirstLessonDate {
			return out[i].FirstLessonDate < out[j].FirstLessonDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func packageRow(s *model.Student, pkg *model.Package, first bool) Row {
	lessons := make([]*model.Lesson, pkg.Size)
	for _, l := range pkg.Lessons {
		if l.IsMakeup || l.LessonNumber < 1 || l.LessonNumber > pkg.Size {
			continue
		}
		lessons[l.LessonNumber-1] = l
	}
	return Row{
		Key:               fmt.Sprintf("s-%d-p-%d", s.ID, pkg.ID),
		Kind:              RowPackage,
		Student:           s,
		Package:           pkg,
		IsFirstForStudent: first,
		Lessons:           lessons,
		HighlightFirst:    !pkg.PaymentStatus,
	}
}

func sortedMakeups(pkg *model.Package) []*model.Lesson {
	makeups := pkg.MakeupLessons()
	sort.SliceStable(makeups, func(i, j int) bool {
		if makeups[i].Date != makeups[j].Date {
			return makeups[i].Date < makeups[j].Date
		}
		return makeups[i].ID < makeups[j].ID
	})
	return makeups
}
