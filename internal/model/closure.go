package model

import "github.com/Freeeeeet/tuition_scheduler/internal/calendar"

// Closure is an inclusive range of days when no regular lessons happen.
type Closure struct {
	ID        int64         `json:"id"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Reason    string        `json:"reason,omitempty"`
	Category  string        `json:"category,omitempty"` // holiday, teacher_leave, ...
}

// Range возвращает диапазон закрытия для календаря
func (c *Closure) Range() calendar.Range {
	return calendar.Range{Start: c.StartDate, End: c.EndDate}
}

// NewClosureCalendar собирает календарь из списка закрытий
func NewClosureCalendar(closures []*Closure) *calendar.ClosureCalendar {
	ranges := make([]calendar.Range, 0, len(closures))
	for _, c := range closures {
		ranges = append(ranges, c.Range())
	}
	return calendar.NewClosureCalendar(ranges...)
}
