package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/export"
	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"go.uber.org/zap"
)

// RegenerationPreview результат пересчёта расписания пакета без сохранения
type RegenerationPreview struct {
	Student    *model.Student
	Package    *model.Package
	Proposed   []schedule.ProposedLesson
	HasChanges bool
}

// LessonPatch частичное изменение урока; nil поля не меняются
type LessonPatch struct {
	Date             *calendar.Date
	IsManualOverride *bool
	Status           *model.LessonStatus
}

type ScheduleService struct {
	tree
	closures  *ClosureService
	generator *schedule.Generator
	projector *grid.Projector
	logger    *zap.Logger

	// проверка занятых дат и создание пакета выполняются под одной блокировкой
	chunkMu sync.Mutex
}

func NewScheduleService(
	students StudentStore,
	packages PackageStore,
	lessons LessonStore,
	closures *ClosureService,
	generator *schedule.Generator,
	projector *grid.Projector,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		tree:      tree{students: students, packages: packages, lessons: lessons},
		closures:  closures,
		generator: generator,
		projector: projector,
		logger:    logger,
	}
}

// GetPackage возвращает пакет с уроками
func (s *ScheduleService) GetPackage(ctx context.Context, packageID int64) (*model.Package, error) {
	return s.pkg(ctx, packageID)
}

// PreviewRegeneration пересчитывает даты уроков пакета, ничего не сохраняя
func (s *ScheduleService) PreviewRegeneration(ctx context.Context, packageID int64) (*RegenerationPreview, error) {
	pkg, err := s.pkg(ctx, packageID)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetStudent(ctx, pkg.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, errs.NewNotFoundError("student", pkg.StudentID)
	}

	cal, err := s.closures.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	proposed, err := s.plan(student, pkg, cal)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Regeneration previewed",
		zap.Int64("package_id", packageID),
		zap.Bool("has_changes", schedule.HasChanges(proposed)),
	)

	return &RegenerationPreview{
		Student:    student,
		Package:    pkg,
		Proposed:   proposed,
		HasChanges: schedule.HasChanges(proposed),
	}, nil
}

// StalePackages возвращает ID пакетов, для которых регенерация что-то изменит
func (s *ScheduleService) StalePackages(ctx context.Context) ([]int64, error) {
	students, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	cal, err := s.closures.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	var stale []int64
	for _, student := range students {
		for _, pkg := range student.Packages {
			proposed, err := s.plan(student, pkg, cal)
			if err != nil {
				// пакет, который нельзя пересчитать, тоже требует внимания оператора
				s.logger.Warn("Failed to plan package", zap.Int64("package_id", pkg.ID), zap.Error(err))
				stale = append(stale, pkg.ID)
				continue
			}
			if schedule.HasChanges(proposed) {
				stale = append(stale, pkg.ID)
			}
		}
	}

	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	return stale, nil
}

func (s *ScheduleService) plan(student *model.Student, pkg *model.Package, cal calendar.Calendar) ([]schedule.ProposedLesson, error) {
	// пустой пакет начинается с даты старта ученика, иначе с самого раннего урока
	var start calendar.Date
	if len(pkg.RegularLessons()) == 0 {
		start = student.StartDate
	}

	proposed, err := s.generator.Plan(schedule.PlanInput{
		Lessons:  pkg.Lessons,
		Weekdays: student.WeekdaysFor(pkg.Size),
		Size:     pkg.Size,
		Start:    start,
		Calendar: cal,
	})
	if err != nil {
		return nil, fmt.Errorf("plan package %d: %w", pkg.ID, err)
	}
	return proposed, nil
}

// CommitRegeneration заново строит план на текущем состоянии и атомарно применяет его
func (s *ScheduleService) CommitRegeneration(ctx context.Context, packageID int64) (*model.LessonChangeset, error) {
	preview, err := s.PreviewRegeneration(ctx, packageID)
	if err != nil {
		return nil, err
	}

	cs := schedule.NewChangeset(packageID, preview.Proposed)
	if err := s.lessons.ApplyLessonChangeset(ctx, cs); err != nil {
		s.logger.Error("Failed to commit regeneration",
			zap.Int64("package_id", packageID),
			zap.String("changeset_id", cs.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("apply changeset: %w", err)
	}

	s.logger.Info("Regeneration committed",
		zap.Int64("package_id", packageID),
		zap.String("changeset_id", cs.ID.String()),
		zap.Int("rows", len(cs.Rows)),
	)

	return cs, nil
}

// PreviewChunks предлагает даты для следующих пакетов ученика.
// afterPackageID задаёт пакет, после которого продолжать; nil - после последнего урока.
func (s *ScheduleService) PreviewChunks(ctx context.Context, studentID int64, afterPackageID *int64, extend bool) ([]schedule.Chunk, error) {
	student, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var after *model.Package
	if afterPackageID != nil {
		for _, p := range student.Packages {
			if p.ID == *afterPackageID {
				after = p
				break
			}
		}
		if after == nil {
			return nil, errs.NewNotFoundError("package", *afterPackageID)
		}
	}

	cal, err := s.closures.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	chunks, err := s.generator.Chunk(schedule.ChunkInput{
		Student:  student,
		After:    after,
		Size:     student.PackageSize,
		Calendar: cal,
		Extend:   extend,
	})
	if err != nil {
		return nil, fmt.Errorf("chunk student %d: %w", studentID, err)
	}

	return chunks, nil
}

// CommitChunk создаёт неоплаченный пакет из подтверждённого блока дат
func (s *ScheduleService) CommitChunk(ctx context.Context, studentID int64, dates []calendar.Date) (*model.Package, error) {
	// уроки читаются под блокировкой: параллельный коммит мог уже занять эти даты
	s.chunkMu.Lock()
	defer s.chunkMu.Unlock()

	student, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	np, err := schedule.NewPackageFromChunk(dates, student.PackageSize)
	if err != nil {
		return nil, err
	}

	taken := make(map[calendar.Date]bool)
	for _, p := range student.Packages {
		for _, l := range p.RegularLessons() {
			taken[l.Date] = true
		}
	}
	for _, d := range np.Dates {
		if taken[d] {
			return nil, errs.NewConflictError("student %d already has a lesson on %s", studentID, d)
		}
	}

	pkg, err := s.packages.CreatePackage(ctx, studentID, np)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	s.logger.Info("Chunk committed",
		zap.Int64("student_id", studentID),
		zap.Int64("package_id", pkg.ID),
		zap.Stringer("first_lesson_date", np.FirstLessonDate),
	)

	return pkg, nil
}

// AddPackage создаёт следующий пакет сразу после последнего урока ученика
func (s *ScheduleService) AddPackage(ctx context.Context, studentID int64) (*model.Package, error) {
	chunks, err := s.PreviewChunks(ctx, studentID, nil, false)
	if err != nil {
		return nil, err
	}

	next := chunks[0]
	if !next.Committable {
		return nil, errs.NewConflictError("only %d lesson dates left for student %d", len(next.Dates), studentID)
	}
	return s.CommitChunk(ctx, studentID, next.Dates)
}

// AddMakeup добавляет отработку к пакету
func (s *ScheduleService) AddMakeup(ctx context.Context, packageID int64, date calendar.Date) (*model.Lesson, error) {
	if date.IsZero() {
		return nil, errs.NewValidationError("date", "is required")
	}

	pkg, err := s.packages.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if pkg == nil {
		return nil, errs.NewNotFoundError("package", packageID)
	}

	lesson := &model.Lesson{
		PackageID: packageID,
		Date:      date,
		IsMakeup:  true,
		Status:    model.LessonStatusScheduled,
	}
	if err := s.lessons.CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create makeup: %w", err)
	}

	s.logger.Info("Makeup added",
		zap.Int64("package_id", packageID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Stringer("date", date),
	)

	return lesson, nil
}

// GetLesson возвращает урок по ID
func (s *ScheduleService) GetLesson(ctx context.Context, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, errs.NewNotFoundError("lesson", lessonID)
	}
	return lesson, nil
}

// DeleteLesson удаляет отработку. Регулярные уроки удалять нельзя
func (s *ScheduleService) DeleteLesson(ctx context.Context, lessonID int64) error {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return errs.NewNotFoundError("lesson", lessonID)
	}
	if !lesson.IsMakeup {
		return errs.NewConflictError("lesson %d is a regular lesson of package %d", lessonID, lesson.PackageID)
	}

	if err := s.lessons.DeleteLesson(ctx, lessonID); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	s.logger.Info("Makeup deleted", zap.Int64("lesson_id", lessonID), zap.Int64("package_id", lesson.PackageID))
	return nil
}

// EditLesson меняет урок. Новая дата регулярного урока закрепляет его,
// если флаг ручной правки не передан явно.
func (s *ScheduleService) EditLesson(ctx context.Context, lessonID int64, patch LessonPatch) (*model.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, errs.NewNotFoundError("lesson", lessonID)
	}

	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, errs.NewValidationError("date", "is required")
		}
		if *patch.Date != lesson.Date && !lesson.IsMakeup && patch.IsManualOverride == nil {
			lesson.IsManualOverride = true
		}
		lesson.Date = *patch.Date
	}
	if patch.IsManualOverride != nil {
		lesson.IsManualOverride = *patch.IsManualOverride
	}
	if patch.Status != nil {
		if !model.ValidLessonStatus(*patch.Status) {
			return nil, errs.NewValidationError("status", "must be scheduled, attended or leave")
		}
		lesson.Status = *patch.Status
	}

	if err := s.lessons.UpdateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	s.logger.Info("Lesson updated",
		zap.Int64("lesson_id", lessonID),
		zap.Stringer("date", lesson.Date),
		zap.Bool("manual", lesson.IsManualOverride),
	)

	return lesson, nil
}

// SetPaymentStatus отмечает пакет оплаченным или неоплаченным
func (s *ScheduleService) SetPaymentStatus(ctx context.Context, packageID int64, paid bool) error {
	if err := s.packages.SetPaymentStatus(ctx, packageID, paid); err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}

	s.logger.Info("Payment status changed", zap.Int64("package_id", packageID), zap.Bool("paid", paid))
	return nil
}

// DeletePackage удаляет пакет вместе с уроками
func (s *ScheduleService) DeletePackage(ctx context.Context, packageID int64) error {
	if err := s.packages.DeletePackage(ctx, packageID); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}

	s.logger.Info("Package deleted", zap.Int64("package_id", packageID))
	return nil
}

// Dashboard строит строки сетки по сохранённым данным
func (s *ScheduleService) Dashboard(ctx context.Context, f grid.Filters) ([]grid.Row, error) {
	students, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(students, f), nil
}

// ExportDashboard пишет сетку в xlsx и возвращает имя файла
func (s *ScheduleService) ExportDashboard(ctx context.Context, w io.Writer, f grid.Filters) (string, error) {
	rows, err := s.Dashboard(ctx, f)
	if err != nil {
		return "", err
	}

	size := 0
	if f.Size != nil {
		size = *f.Size
	}
	columns := export.MaxLessonColumns
	if size == model.PackageSizeSmall {
		columns = model.PackageSizeSmall
	}

	if err := export.WriteDashboard(w, rows, columns); err != nil {
		return "", fmt.Errorf("export dashboard: %w", err)
	}
	return export.FileName(size), nil
}
