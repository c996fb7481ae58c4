package export

import (
	"bytes"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
)

func TestWriteDashboard(t *testing.T) {
	thu := calendar.Thursday
	pkg := &model.Package{ID: 7, Size: 4, PaymentStatus: false, FirstLessonDate: calendar.MustParse("2024-01-02")}
	for n, d := range []string{"2024-01-02", "2024-01-09", "2024-01-16", "2024-01-23"} {
		pkg.Lessons = append(pkg.Lessons, &model.Lesson{ID: int64(n + 1), PackageID: 7, LessonNumber: n + 1, Date: calendar.MustParse(d), IsFirst: n == 0})
	}
	pkg.Lessons[2].IsManualOverride = true
	pkg.Lessons = append(pkg.Lessons, &model.Lesson{ID: 99, PackageID: 7, Date: calendar.MustParse("2024-01-27"), IsMakeup: true})

	students := []*model.Student{
		{ID: 1, Name: "Alice", CEFR: "B1", Group: "Evening", LessonDay1: calendar.Tuesday, LessonDay2: &thu, Packages: []*model.Package{pkg}},
		{ID: 2, Name: "Bob", LessonDay1: calendar.Monday},
	}
	rows := grid.NewProjector(language.English).Project(students, grid.Filters{})

	var buf bytes.Buffer
	require.NoError(t, WriteDashboard(&buf, rows, 4))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, []string{"Name", "CEFR", "Group", "Days", "Package", "Lesson 1", "Lesson 2", "Lesson 3", "Lesson 4", "Paid"}, got[0])
	require.Equal(t, []string{"Alice", "B1", "Evening", "Tue, Thu", "#7 (4)", "2024-01-02", "2024-01-09", "2024-01-16 (M)", "2024-01-23", "No"}, got[1])
	require.Equal(t, "Make-up", got[2][4])
	require.Equal(t, "2024-01-27", got[2][5])
	require.Equal(t, "Bob", got[3][0])

	styleID, err := f.GetCellStyle(SheetName, "F2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.True(t, style.Font.Bold)
}

func TestFileName(t *testing.T) {
	require.Equal(t, "tuition_dashboard_4-lesson.xlsx", FileName(4))
	require.Equal(t, "tuition_dashboard_8-lesson.xlsx", FileName(8))
	require.Equal(t, "tuition_dashboard_all.xlsx", FileName(0))
}
