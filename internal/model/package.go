package model

import (
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
)

// Допустимые размеры пакетов
const (
	PackageSizeSmall = 4
	PackageSizeLarge = 8
)

// ValidPackageSize проверяет, что размер пакета 4 или 8
func ValidPackageSize(size int) bool {
	return size == PackageSizeSmall || size == PackageSizeLarge
}

// Package is a fixed-size bundle of numbered lessons billed as a unit.
type Package struct {
	ID              int64         `json:"id"`
	StudentID       int64         `json:"student_id"`
	Size            int           `json:"size"`
	PaymentStatus   bool          `json:"payment_status"`
	FirstLessonDate calendar.Date `json:"first_lesson_date,omitempty"` // дата урока №1
	CreatedAt       time.Time     `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Lessons []*Lesson `json:"lessons,omitempty"`
}

// RegularLessons возвращает нумерованные уроки пакета (без отработок)
func (p *Package) RegularLessons() []*Lesson {
	out := make([]*Lesson, 0, len(p.Lessons))
	for _, l := range p.Lessons {
		if !l.IsMakeup {
			out = append(out, l)
		}
	}
	return out
}

// MakeupLessons возвращает отработки пакета
func (p *Package) MakeupLessons() []*Lesson {
	var out []*Lesson
	for _, l := range p.Lessons {
		if l.IsMakeup {
			out = append(out, l)
		}
	}
	return out
}

// LessonByNumber ищет регулярный урок по номеру
func (p *Package) LessonByNumber(n int) *Lesson {
	for _, l := range p.Lessons {
		if !l.IsMakeup && l.LessonNumber == n {
			return l
		}
	}
	return nil
}

// LastLessonDate возвращает дату последнего регулярного урока или zero
func (p *Package) LastLessonDate() calendar.Date {
	var last calendar.Date
	for _, l := range p.Lessons {
		if !l.IsMakeup && l.Date > last {
			last = l.Date
		}
	}
	return last
}
