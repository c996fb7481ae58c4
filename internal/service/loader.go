package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
)

// tree собирает ученика, его пакеты и уроки из трёх хранилищ
type tree struct {
	students StudentStore
	packages PackageStore
	lessons  LessonStore
}

// student загружает ученика с пакетами и уроками
func (t tree) student(ctx context.Context, id int64) (*model.Student, error) {
	s, err := t.students.GetStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if s == nil {
		return nil, errs.NewNotFoundError("student", id)
	}

	if err := t.attach(ctx, []*model.Student{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// all загружает всех учеников с пакетами и уроками
func (t tree) all(ctx context.Context) ([]*model.Student, error) {
	students, err := t.students.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if err := t.attach(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// pkg загружает пакет с уроками
func (t tree) pkg(ctx context.Context, id int64) (*model.Package, error) {
	p, err := t.packages.GetPackage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if p == nil {
		return nil, errs.NewNotFoundError("package", id)
	}

	lessons, err := t.lessons.ListLessons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	p.Lessons = lessons
	return p, nil
}

func (t tree) attach(ctx context.Context, students []*model.Student) error {
	if len(students) == 0 {
		return nil
	}

	studentIDs := make([]int64, len(students))
	byStudent := make(map[int64]*model.Student, len(students))
	for i, s := range students {
		studentIDs[i] = s.ID
		byStudent[s.ID] = s
		s.Packages = nil
	}

	packages, err := t.packages.ListPackagesByStudents(ctx, studentIDs)
	if err != nil {
		return fmt.Errorf("list packages: %w", err)
	}

	packageIDs := make([]int64, len(packages))
	byPackage := make(map[int64]*model.Package, len(packages))
	for i, p := range packages {
		packageIDs[i] = p.ID
		byPackage[p.ID] = p
		if s, ok := byStudent[p.StudentID]; ok {
			s.Packages = append(s.Packages, p)
		}
	}

	lessons, err := t.lessons.ListLessonsByPackages(ctx, packageIDs)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}
	for _, l := range lessons {
		if p, ok := byPackage[l.PackageID]; ok {
			p.Lessons = append(p.Lessons, l)
		}
	}
	return nil
}
