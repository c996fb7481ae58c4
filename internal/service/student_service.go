package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"go.uber.org/zap"
)

// StudentInput данные ученика для создания и обновления
type StudentInput struct {
	Name        string              `json:"name" validate:"required,max=200"`
	CEFR        string              `json:"cefr" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Group       string              `json:"group" validate:"max=100"`
	LessonDay1  calendar.Weekday    `json:"lesson_day_1" validate:"min=0,max=6"`
	LessonDay2  *calendar.Weekday   `json:"lesson_day_2" validate:"omitempty,min=0,max=6"`
	PackageSize int                 `json:"package_size" validate:"oneof=4 8"`
	StartDate   calendar.Date       `json:"start_date" validate:"required"`
	EndDate     calendar.Date       `json:"end_date" validate:"omitempty"`
	Status      model.StudentStatus `json:"status" validate:"omitempty,oneof=active paused finished"`
}

type StudentService struct {
	tree
	closures  *ClosureService
	generator *schedule.Generator
	logger    *zap.Logger
}

func NewStudentService(
	students StudentStore,
	packages PackageStore,
	lessons LessonStore,
	closures *ClosureService,
	generator *schedule.Generator,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		tree:      tree{students: students, packages: packages, lessons: lessons},
		closures:  closures,
		generator: generator,
		logger:    logger,
	}
}

// Create создаёт ученика и его первый пакет в одной транзакции
func (s *StudentService) Create(ctx context.Context, in StudentInput) (*model.Student, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	student := studentFromInput(in)

	cal, err := s.closures.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	bound := student.EndDate
	if bound.IsZero() {
		bound = s.generator.DefaultHorizon(student.StartDate)
	}
	dates, err := s.generator.Generate(student.WeekdaysFor(student.PackageSize), student.StartDate, student.PackageSize, cal, bound)
	if err != nil {
		return nil, fmt.Errorf("generate first package: %w", err)
	}
	first, err := schedule.NewPackageFromChunk(dates, student.PackageSize)
	if err != nil {
		return nil, err
	}

	pkg, err := s.students.CreateStudent(ctx, student, &first)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	if pkg != nil {
		student.Packages = []*model.Package{pkg}
	}

	s.logger.Info("Student created",
		zap.Int64("student_id", student.ID),
		zap.String("name", student.Name),
		zap.Int("package_size", student.PackageSize),
	)

	return student, nil
}

// Get возвращает ученика с пакетами и уроками
func (s *StudentService) Get(ctx context.Context, id int64) (*model.Student, error) {
	return s.student(ctx, id)
}

// List возвращает всех учеников с пакетами и уроками
func (s *StudentService) List(ctx context.Context) ([]*model.Student, error) {
	return s.all(ctx)
}

// Update меняет данные ученика. Существующие уроки не пересчитываются
func (s *StudentService) Update(ctx context.Context, id int64, in StudentInput) (*model.Student, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	cur, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if cur == nil {
		return nil, errs.NewNotFoundError("student", id)
	}

	student := studentFromInput(in)
	student.ID = id
	student.CreatedAt = cur.CreatedAt
	if in.Status == "" {
		student.Status = cur.Status
	}

	if err := s.students.UpdateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	s.logger.Info("Student updated", zap.Int64("student_id", id))
	return student, nil
}

// Delete удаляет ученика со всеми пакетами
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.DeleteStudent(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	s.logger.Info("Student deleted", zap.Int64("student_id", id))
	return nil
}

func validateInput(in StudentInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.LessonDay2 != nil && *in.LessonDay2 == in.LessonDay1 {
		return errs.NewValidationError("lesson_day_2", "must differ from lesson_day_1")
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return errs.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}

func studentFromInput(in StudentInput) *model.Student {
	status := in.Status
	if status == "" {
		status = model.StudentStatusActive
	}
	return &model.Student{
		Name:        in.Name,
		CEFR:        in.CEFR,
		Group:       in.Group,
		LessonDay1:  in.LessonDay1,
		LessonDay2:  in.LessonDay2,
		PackageSize: in.PackageSize,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
	}
}
