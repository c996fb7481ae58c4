package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
)

// FormatPaid возвращает отметку оплаты пакета
func FormatPaid(paid bool) string {
	if paid {
		return "✅ оплачен"
	}
	return "💰 не оплачен"
}

// FormatLesson форматирует один урок пакета
func FormatLesson(l *model.Lesson) string {
	var b strings.Builder
	if l.IsMakeup {
		b.WriteString("↩️ Отработка")
	} else {
		fmt.Fprintf(&b, "%d.", l.LessonNumber)
	}
	b.WriteString(" " + FormatDateWithWeekday(l.Date))
	if l.IsManualOverride {
		b.WriteString(" 📌")
	}
	switch l.Status {
	case model.LessonStatusAttended:
		b.WriteString(" ✔️")
	case model.LessonStatusLeave:
		b.WriteString(" 🏖")
	}
	return b.String()
}

// FormatProposed форматирует строку превью регенерации
func FormatProposed(p schedule.ProposedLesson) string {
	line := fmt.Sprintf("%d. %s", p.LessonNumber, FormatDateWithWeekday(p.Date))
	switch {
	case p.IsManualOverride:
		line += " 📌"
	case p.Changed && p.CurrentDate.IsZero():
		line += " 🆕"
	case p.Changed:
		line += " ← " + FormatDate(p.CurrentDate)
	}
	return line
}

// FormatGridRow форматирует строку сетки для списка учеников
func FormatGridRow(row grid.Row) string {
	s := row.Student
	switch row.Kind {
	case grid.RowPlaceholder:
		return fmt.Sprintf("👤 %s [%s] — нет пакетов", s.Name, FormatWeekdays(s.Weekdays()))
	case grid.RowMakeup:
		dates := make([]string, len(row.Lessons))
		for i, l := range row.Lessons {
			dates[i] = FormatDate(l.Date)
		}
		return "   ↩️ " + strings.Join(dates, ", ")
	}

	var b strings.Builder
	if row.IsFirstForStudent {
		fmt.Fprintf(&b, "👤 %s [%s] #%d\n", s.Name, FormatWeekdays(s.Weekdays()), s.ID)
	}
	fmt.Fprintf(&b, "   📦 #%d (%d) %s:", row.Package.ID, row.Package.Size, FormatPaid(row.Package.PaymentStatus))
	for i, l := range row.Lessons {
		switch {
		case l == nil:
			b.WriteString(" —")
		case i == 0 && row.HighlightFirst:
			b.WriteString(" ❗" + l.Date.Time().Format("02.01"))
		case l.IsManualOverride:
			b.WriteString(" " + l.Date.Time().Format("02.01") + "📌")
		default:
			b.WriteString(" " + l.Date.Time().Format("02.01"))
		}
	}
	return b.String()
}
