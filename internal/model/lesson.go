package model

import "github.com/Freeeeeet/tuition_scheduler/internal/calendar"

type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "scheduled"
	LessonStatusAttended  LessonStatus = "attended"
	LessonStatusLeave     LessonStatus = "leave"
)

// ValidLessonStatus проверяет значение статуса урока
func ValidLessonStatus(s LessonStatus) bool {
	switch s {
	case LessonStatusScheduled, LessonStatusAttended, LessonStatusLeave:
		return true
	}
	return false
}

// Lesson is one dated lesson of a package. Regular lessons are numbered
// 1..size; make-up lessons carry IsMakeup and LessonNumber 0.
type Lesson struct {
	ID               int64         `json:"id"`
	PackageID        int64         `json:"package_id"`
	LessonNumber     int           `json:"lesson_number"`
	Date             calendar.Date `json:"date"`
	IsFirst          bool          `json:"is_first"`           // true только у урока №1
	IsManualOverride bool          `json:"is_manual_override"` // дата задана вручную, регенерация не трогает
	IsMakeup         bool          `json:"is_makeup"`
	Status           LessonStatus  `json:"status"`
}
