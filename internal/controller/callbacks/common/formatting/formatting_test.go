package formatting

import (
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"github.com/stretchr/testify/require"
)

func TestPluralizeLessons(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "урок"},
		{2, "урока"},
		{4, "урока"},
		{5, "уроков"},
		{11, "уроков"},
		{21, "урок"},
		{22, "урока"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, PluralizeLessons(tt.count), tt.count)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-09", "09.01.2024", " 2024-01-09 "} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		require.Equal(t, calendar.MustParse("2024-01-09"), d)
	}

	_, err := ParseDate("9 Jan")
	require.Error(t, err)
}

func TestFormatLesson(t *testing.T) {
	l := &model.Lesson{LessonNumber: 3, Date: calendar.MustParse("2024-01-18"), IsManualOverride: true}
	require.Equal(t, "3. 18.01.2024 (Чт) 📌", FormatLesson(l))

	mk := &model.Lesson{Date: calendar.MustParse("2024-01-13"), IsMakeup: true, Status: model.LessonStatusAttended}
	require.Equal(t, "↩️ Отработка 13.01.2024 (Сб) ✔️", FormatLesson(mk))
}

func TestFormatProposed(t *testing.T) {
	moved := schedule.ProposedLesson{LessonNumber: 2, Date: calendar.MustParse("2024-01-16"), CurrentDate: calendar.MustParse("2024-01-09"), Changed: true}
	require.Equal(t, "2. 16.01.2024 (Вт) ← 09.01.2024", FormatProposed(moved))

	added := schedule.ProposedLesson{LessonNumber: 4, Date: calendar.MustParse("2024-01-23"), Changed: true}
	require.Equal(t, "4. 23.01.2024 (Вт) 🆕", FormatProposed(added))
}
