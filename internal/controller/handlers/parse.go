package handlers

import (
	"strconv"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
)

var weekdayAliases = map[string]calendar.Weekday{
	"mon": calendar.Monday, "пн": calendar.Monday,
	"tue": calendar.Tuesday, "вт": calendar.Tuesday,
	"wed": calendar.Wednesday, "ср": calendar.Wednesday,
	"thu": calendar.Thursday, "чт": calendar.Thursday,
	"fri": calendar.Friday, "пт": calendar.Friday,
	"sat": calendar.Saturday, "сб": calendar.Saturday,
	"sun": calendar.Sunday, "вс": calendar.Sunday,
}

// commandArgs возвращает аргументы команды без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// parseID разбирает единственный числовой аргумент команды
func parseID(text, field string) (int64, error) {
	args := commandArgs(text)
	if len(args) == 0 {
		return 0, errs.NewValidationError(field, "is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationError(field, "must be a positive number")
	}
	return id, nil
}

// parseWeekday принимает Mon..Sun, Пн..Вс или число 0..6
func parseWeekday(s string) (calendar.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if w, ok := weekdayAliases[s]; ok {
		return w, nil
	}
	if n, err := strconv.Atoi(s); err == nil && calendar.Weekday(n).Valid() {
		return calendar.Weekday(n), nil
	}
	return 0, errs.NewValidationError("weekday", "unknown weekday "+s)
}

// parseStudentInput разбирает строку вида
// "Имя; Tue,Thu; 8; 2024-01-02[; 2024-06-30][; группа][; B1]"
func parseStudentInput(text string) (service.StudentInput, error) {
	var in service.StudentInput

	parts := strings.Split(text, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 4 {
		return in, errs.NewValidationError("input", "expected name; days; size; start date")
	}

	in.Name = parts[0]

	days := strings.Split(parts[1], ",")
	if len(days) > 2 {
		return in, errs.NewValidationError("lesson_days", "at most two weekdays")
	}
	day1, err := parseWeekday(days[0])
	if err != nil {
		return in, err
	}
	in.LessonDay1 = day1
	if len(days) == 2 {
		day2, err := parseWeekday(days[1])
		if err != nil {
			return in, err
		}
		in.LessonDay2 = &day2
	}

	size, err := strconv.Atoi(parts[2])
	if err != nil {
		return in, errs.NewValidationError("package_size", "must be 4 or 8")
	}
	in.PackageSize = size

	if in.StartDate, err = formatting.ParseDate(parts[3]); err != nil {
		return in, errs.NewValidationError("start_date", "use 2024-01-02 or 02.01.2024")
	}

	if len(parts) > 4 && parts[4] != "" && parts[4] != "-" {
		if in.EndDate, err = formatting.ParseDate(parts[4]); err != nil {
			return in, errs.NewValidationError("end_date", "use 2024-01-02 or 02.01.2024")
		}
	}
	if len(parts) > 5 {
		in.Group = parts[5]
	}
	if len(parts) > 6 {
		in.CEFR = strings.ToUpper(parts[6])
	}

	return in, nil
}
