package formatting

import (
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
)

var weekdayShortNames = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// FormatDate форматирует дату как 02.01.2006
func FormatDate(d calendar.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.Time().Format("02.01.2006")
}

// FormatDateWithWeekday форматирует дату с кратким днём недели: 02.01.2024 (Вт)
func FormatDateWithWeekday(d calendar.Date) string {
	if d.IsZero() {
		return "—"
	}
	return FormatDate(d) + " (" + GetWeekdayShortName(d.Weekday()) + ")"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(w calendar.Weekday) string {
	if w.Valid() {
		return weekdayShortNames[w]
	}
	return "?"
}

// FormatWeekdays перечисляет дни недели через запятую
func FormatWeekdays(days []calendar.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = GetWeekdayShortName(d)
	}
	return strings.Join(names, ", ")
}

// ParseDate принимает даты в формате 2006-01-02 или 02.01.2006
func ParseDate(s string) (calendar.Date, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) == 3 {
			s = parts[2] + "-" + parts[1] + "-" + parts[0]
		}
	}
	return calendar.Parse(s)
}
