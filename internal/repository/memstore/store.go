// Package memstore is an in-memory implementation of the scheduler's
// persistence interfaces. Every mutation is all-or-nothing and reads return
// copies, so callers never alias stored state.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
)

// Store holds students, packages, lessons and closures.
type Store struct {
	mu sync.RWMutex

	students map[int64]*model.Student
	packages map[int64]*model.Package
	lessons  map[int64]*model.Lesson
	closures map[int64]*model.Closure
	pk       int64

	failApply *applyFailure
	now       func() time.Time
}

type applyFailure struct {
	afterRows int
	err       error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		students: make(map[int64]*model.Student),
		packages: make(map[int64]*model.Package),
		lessons:  make(map[int64]*model.Lesson),
		closures: make(map[int64]*model.Closure),
		now:      time.Now,
	}
}

// FailNextApply makes the next ApplyLessonChangeset fail with err after
// afterRows rows have been written to its working copy.
func (s *Store) FailNextApply(afterRows int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failApply = &applyFailure{afterRows: afterRows, err: err}
}

func (s *Store) nextID() int64 {
	s.pk++
	return s.pk
}

// students

func (s *Store) CreateStudent(_ context.Context, st *model.Student, first *model.NewPackage) (*model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *st
	stored.Packages = nil
	stored.ID = s.nextID()
	stored.CreatedAt = s.now()
	s.students[stored.ID] = &stored
	st.ID, st.CreatedAt = stored.ID, stored.CreatedAt

	if first == nil {
		return nil, nil
	}
	return s.insertPackage(stored.ID, *first), nil
}

func (s *Store) GetStudent(_ context.Context, id int64) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, nil
	}
	return copyStudent(st), nil
}

func (s *Store) ListStudents(_ context.Context) ([]*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, copyStudent(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateStudent(_ context.Context, st *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.students[st.ID]
	if !ok {
		return errs.NewNotFoundError("student", st.ID)
	}
	updated := *st
	updated.Packages = nil
	updated.CreatedAt = cur.CreatedAt
	s.students[st.ID] = &updated
	return nil
}

func (s *Store) DeleteStudent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return errs.NewNotFoundError("student", id)
	}
	for pid, p := range s.packages {
		if p.StudentID == id {
			s.deletePackage(pid)
		}
	}
	delete(s.students, id)
	return nil
}

// packages

func (s *Store) CreatePackage(_ context.Context, studentID int64, np model.NewPackage) (*model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return nil, errs.NewNotFoundError("student", studentID)
	}
	return s.insertPackage(studentID, np), nil
}

func (s *Store) GetPackage(_ context.Context, id int64) (*model.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.packages[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPackages(_ context.Context, studentID int64) ([]*model.Package, error) {
	return s.ListPackagesByStudents(context.Background(), []int64{studentID})
}

func (s *Store) ListPackagesByStudents(_ context.Context, studentIDs []int64) ([]*model.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[int64]bool, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = true
	}

	var out []*model.Package
	for _, p := range s.packages {
		if want[p.StudentID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetPaymentStatus(_ context.Context, id int64, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.packages[id]
	if !ok {
		return errs.NewNotFoundError("package", id)
	}
	p.PaymentStatus = paid
	return nil
}

func (s *Store) DeletePackage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[id]; !ok {
		return errs.NewNotFoundError("package", id)
	}
	s.deletePackage(id)
	return nil
}

func (s *Store) insertPackage(studentID int64, np model.NewPackage) *model.Package {
	p := &model.Package{
		ID:              s.nextID(),
		StudentID:       studentID,
		Size:            np.Size,
		FirstLessonDate: np.FirstLessonDate,
		CreatedAt:       s.now(),
	}
	s.packages[p.ID] = p

	out := *p
	for i, d := range np.Dates {
		l := &model.Lesson{
			ID:           s.nextID(),
			PackageID:    p.ID,
			LessonNumber: i + 1,
			Date:         d,
			IsFirst:      i == 0,
			Status:       model.LessonStatusScheduled,
		}
		s.lessons[l.ID] = l
		cp := *l
		out.Lessons = append(out.Lessons, &cp)
	}
	return &out
}

func (s *Store) deletePackage(id int64) {
	for lid, l := range s.lessons {
		if l.PackageID == id {
			delete(s.lessons, lid)
		}
	}
	delete(s.packages, id)
}

// lessons

func (s *Store) GetLesson(_ context.Context, id int64) (*model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *Store) ListLessons(_ context.Context, packageID int64) ([]*model.Lesson, error) {
	return s.ListLessonsByPackages(context.Background(), []int64{packageID})
}

func (s *Store) ListLessonsByPackages(_ context.Context, packageIDs []int64) ([]*model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[int64]bool, len(packageIDs))
	for _, id := range packageIDs {
		want[id] = true
	}

	var out []*model.Lesson
	for _, l := range s.lessons {
		if want[l.PackageID] {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PackageID != b.PackageID {
			return a.PackageID < b.PackageID
		}
		if a.IsMakeup != b.IsMakeup {
			return !a.IsMakeup
		}
		if a.LessonNumber != b.LessonNumber {
			return a.LessonNumber < b.LessonNumber
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ID < b.ID
	})
	return out, nil
}

// ApplyLessonChangeset writes the changeset into a working copy of the
// package's lessons and swaps it in only when every row succeeded.
func (s *Store) ApplyLessonChangeset(_ context.Context, cs *model.LessonChangeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fail := s.failApply
	s.failApply = nil

	p, ok := s.packages[cs.PackageID]
	if !ok {
		return errs.NewNotFoundError("package", cs.PackageID)
	}

	working := make(map[int]*model.Lesson)
	for _, l := range s.lessons {
		if l.PackageID == cs.PackageID && !l.IsMakeup {
			cp := *l
			working[l.LessonNumber] = &cp
		}
	}

	for i, row := range cs.Rows {
		if fail != nil && i == fail.afterRows {
			return fail.err
		}
		cur, ok := working[row.LessonNumber]
		if !ok {
			working[row.LessonNumber] = &model.Lesson{
				PackageID:    cs.PackageID,
				LessonNumber: row.LessonNumber,
				Date:         row.Date,
				Status:       model.LessonStatusScheduled,
			}
			continue
		}
		if cur.IsManualOverride {
			return errs.NewConflictError("lesson %d of package %d was pinned after preview", row.LessonNumber, cs.PackageID)
		}
		cur.Date = row.Date
	}
	if fail != nil && fail.afterRows >= len(cs.Rows) {
		return fail.err
	}

	for n, l := range working {
		l.IsFirst = n == 1
		if l.ID == 0 {
			l.ID = s.nextID()
		}
		s.lessons[l.ID] = l
	}
	p.FirstLessonDate = cs.FirstLessonDate
	return nil
}

func (s *Store) CreateLesson(_ context.Context, l *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[l.PackageID]; !ok {
		return errs.NewNotFoundError("package", l.PackageID)
	}
	if !l.IsMakeup {
		for _, cur := range s.lessons {
			if cur.PackageID == l.PackageID && !cur.IsMakeup && cur.LessonNumber == l.LessonNumber {
				return errs.NewConflictError("lesson %d of package %d already exists", l.LessonNumber, l.PackageID)
			}
		}
	}

	l.ID = s.nextID()
	cp := *l
	s.lessons[l.ID] = &cp
	return nil
}

func (s *Store) UpdateLesson(_ context.Context, l *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.lessons[l.ID]
	if !ok {
		return errs.NewNotFoundError("lesson", l.ID)
	}
	cur.Date = l.Date
	cur.IsManualOverride = l.IsManualOverride
	cur.Status = l.Status

	if !cur.IsMakeup && cur.LessonNumber == 1 {
		if p, ok := s.packages[cur.PackageID]; ok {
			p.FirstLessonDate = cur.Date
		}
	}
	return nil
}

func (s *Store) DeleteLesson(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lessons[id]; !ok {
		return errs.NewNotFoundError("lesson", id)
	}
	delete(s.lessons, id)
	return nil
}

// closures

func (s *Store) ListClosures(_ context.Context) ([]*model.Closure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Closure, 0, len(s.closures))
	for _, c := range s.closures {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CreateClosure(_ context.Context, c *model.Closure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	cp := *c
	s.closures[c.ID] = &cp
	return nil
}

func (s *Store) DeleteClosure(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.closures[id]; !ok {
		return errs.NewNotFoundError("closure", id)
	}
	delete(s.closures, id)
	return nil
}

func copyStudent(st *model.Student) *model.Student {
	cp := *st
	if st.LessonDay2 != nil {
		d := *st.LessonDay2
		cp.LessonDay2 = &d
	}
	cp.Packages = nil
	return &cp
}
