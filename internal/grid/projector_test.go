package grid

import (
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func pkg(id int64, size int, paid bool, first string, extra ...*model.Lesson) *model.Package {
	p := &model.Package{ID: id, Size: size, PaymentStatus: paid}
	if first != "" {
		start := calendar.MustParse(first)
		p.FirstLessonDate = start
		for n := 1; n <= size; n++ {
			p.Lessons = append(p.Lessons, &model.Lesson{
				ID:           id*100 + int64(n),
				PackageID:    id,
				LessonNumber: n,
				Date:         start.AddDays(7 * (n - 1)),
				IsFirst:      n == 1,
			})
		}
	}
	p.Lessons = append(p.Lessons, extra...)
	return p
}

func makeup(id, packageID int64, date string) *model.Lesson {
	return &model.Lesson{ID: id, PackageID: packageID, Date: calendar.MustParse(date), IsMakeup: true}
}

func student(id int64, name, group string, day calendar.Weekday, pkgs ...*model.Package) *model.Student {
	return &model.Student{ID: id, Name: name, Group: group, LessonDay1: day, PackageSize: 4, Packages: pkgs}
}

func keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func TestProjector_Project(t *testing.T) {
	p := NewProjector(language.English)

	t.Run("orders students by name and packages by first lesson date", func(t *testing.T) {
		students := []*model.Student{
			student(3, "charlie", "", calendar.Monday, pkg(31, 4, true, "2024-03-04")),
			student(2, "Émile", "", calendar.Monday, pkg(21, 4, true, "2024-01-01")),
			student(1, "bob", "", calendar.Monday,
				pkg(12, 4, true, "2024-02-05"),
				pkg(11, 4, true, "2024-01-01"),
				pkg(13, 4, true, "2024-01-01"),
			),
			student(4, "Alice", "", calendar.Monday, pkg(41, 4, true, "2024-01-01")),
		}

		rows := p.Project(students, Filters{})

		require.Equal(t, []string{
			"s-4-p-41",
			"s-1-p-11", "s-1-p-13", "s-1-p-12",
			"s-3-p-31",
			"s-2-p-21",
		}, keys(rows))
		require.True(t, rows[1].IsFirstForStudent)
		require.False(t, rows[2].IsFirstForStudent)
	})

	t.Run("case-insensitive names fall back to id", func(t *testing.T) {
		students := []*model.Student{
			student(9, "alice", "", calendar.Monday),
			student(5, "ALICE", "", calendar.Monday),
		}

		rows := p.Project(students, Filters{})

		require.Equal(t, []string{"s-5-nopkg", "s-9-nopkg"}, keys(rows))
		require.Equal(t, RowPlaceholder, rows[0].Kind)
		require.Nil(t, rows[0].Package)
	})

	t.Run("filters by group, weekday and size", func(t *testing.T) {
		wed := calendar.Wednesday
		both := student(1, "Ann", "A", calendar.Monday, pkg(11, 4, true, "2024-01-01"), pkg(12, 8, true, "2024-02-05"))
		both.LessonDay2 = &wed
		students := []*model.Student{
			both,
			student(2, "Ben", "B", calendar.Wednesday, pkg(21, 8, true, "2024-01-03")),
			student(3, "Cid", "A", calendar.Friday, pkg(31, 8, true, "2024-01-05")),
		}

		group := "A"
		size := 8
		rows := p.Project(students, Filters{Group: &group, Weekday: &wed, Size: &size})

		require.Equal(t, []string{"s-1-p-12"}, keys(rows))
		require.True(t, rows[0].IsFirstForStudent)
	})

	t.Run("size filter removing every package drops the student", func(t *testing.T) {
		size := 8
		rows := p.Project([]*model.Student{student(1, "Ann", "", calendar.Monday, pkg(11, 4, true, "2024-01-01"))}, Filters{Size: &size})

		require.Empty(t, rows)
	})

	t.Run("make-ups form a tagged sub-row ordered by date", func(t *testing.T) {
		students := []*model.Student{
			student(1, "Ann", "", calendar.Monday,
				pkg(11, 4, false, "2024-01-01", makeup(901, 11, "2024-01-20"), makeup(900, 11, "2024-01-13")),
				pkg(12, 4, true, "2024-02-05"),
			),
		}

		rows := p.Project(students, Filters{})

		require.Equal(t, []string{"s-1-p-11", "s-1-p-11-makeup", "s-1-p-12"}, keys(rows))
		require.Equal(t, RowMakeup, rows[1].Kind)
		require.Len(t, rows[1].Lessons, 2)
		require.Equal(t, int64(900), rows[1].Lessons[0].ID)
		require.Len(t, rows[0].Lessons, 4)
		require.True(t, rows[0].HighlightFirst)
		require.False(t, rows[2].HighlightFirst)
	})

	t.Run("lesson cells are indexed by lesson number", func(t *testing.T) {
		p8 := pkg(11, 8, true, "")
		p8.Lessons = []*model.Lesson{
			{ID: 2, PackageID: 11, LessonNumber: 3, Date: calendar.MustParse("2024-01-15")},
		}
		rows := p.Project([]*model.Student{student(1, "Ann", "", calendar.Monday, p8)}, Filters{})

		require.Len(t, rows[0].Lessons, 8)
		require.Nil(t, rows[0].Lessons[0])
		require.Equal(t, int64(2), rows[0].Lessons[2].ID)
	})

	t.Run("projection is deterministic and leaves input untouched", func(t *testing.T) {
		students := []*model.Student{
			student(2, "Bo", "", calendar.Monday, pkg(22, 4, true, "2024-02-05"), pkg(21, 4, true, "2024-01-01")),
			student(1, "Al", "", calendar.Monday),
		}

		first := p.Project(students, Filters{})
		second := p.Project(students, Filters{})

		require.Equal(t, first, second)
		require.Equal(t, int64(2), students[0].ID)
		require.Equal(t, int64(22), students[0].Packages[0].ID)
	})
}

func TestNewProjectorForLocale(t *testing.T) {
	_, err := NewProjectorForLocale("th")
	require.NoError(t, err)

	_, err = NewProjectorForLocale("not a locale!")
	require.Error(t, err)
}
