package model

import (
	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/google/uuid"
)

// LessonUpdate is one row of a regeneration changeset.
type LessonUpdate struct {
	LessonNumber     int           `json:"lesson_number"`
	Date             calendar.Date `json:"date"`
	IsManualOverride bool          `json:"is_manual_override"`
}

// LessonChangeset is the unit applied atomically to a package's lessons.
type LessonChangeset struct {
	ID              uuid.UUID      `json:"id"` // для корреляции в логах
	PackageID       int64          `json:"package_id"`
	FirstLessonDate calendar.Date  `json:"first_lesson_date"`
	Rows            []LessonUpdate `json:"rows"`
}

// NewPackage describes a package to be created together with its lessons.
type NewPackage struct {
	FirstLessonDate calendar.Date   `json:"first_lesson_date"`
	Size            int             `json:"size"`
	Dates           []calendar.Date `json:"dates"`
}
