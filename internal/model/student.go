package model

import (
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
)

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusPaused   StudentStatus = "paused"
	StudentStatusFinished StudentStatus = "finished"
)

// Student представляет ученика и его недельный шаблон занятий
type Student struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	CEFR        string            `json:"cefr,omitempty"`  // уровень A1..C2, может быть пустым
	Group       string            `json:"group,omitempty"` // название группы, может быть пустым
	LessonDay1  calendar.Weekday  `json:"lesson_day_1"`    // 0 = Monday, 6 = Sunday
	LessonDay2  *calendar.Weekday `json:"lesson_day_2"`    // nil если занятия раз в неделю
	PackageSize int               `json:"package_size"`    // 4 или 8
	StartDate   calendar.Date     `json:"start_date"`
	EndDate     calendar.Date     `json:"end_date,omitempty"` // zero = без даты окончания
	Status      StudentStatus     `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Packages []*Package `json:"packages,omitempty"`
}

// Weekdays возвращает все настроенные дни недели ученика
func (s *Student) Weekdays() []calendar.Weekday {
	days := []calendar.Weekday{s.LessonDay1}
	if s.LessonDay2 != nil && *s.LessonDay2 != s.LessonDay1 {
		days = append(days, *s.LessonDay2)
	}
	return days
}

// WeekdaysFor возвращает дни недели, по которым генерируются уроки пакета заданного размера.
// Второй день используется только для пакетов на 8 занятий.
func (s *Student) WeekdaysFor(size int) []calendar.Weekday {
	if size == PackageSizeLarge {
		return s.Weekdays()
	}
	return []calendar.Weekday{s.LessonDay1}
}

// HasWeekday проверяет, занимается ли ученик в указанный день недели
func (s *Student) HasWeekday(w calendar.Weekday) bool {
	for _, d := range s.Weekdays() {
		if d == w {
			return true
		}
	}
	return false
}
