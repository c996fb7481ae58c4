package service

import (
	"context"

	"github.com/Freeeeeet/tuition_scheduler/internal/model"
)

// Хранилища возвращают (nil, nil), если запись не найдена при чтении,
// и errs.NotFoundError при изменении отсутствующей записи.

type StudentStore interface {
	// CreateStudent создаёт ученика и, если first != nil, первый пакет в той же транзакции
	CreateStudent(ctx context.Context, s *model.Student, first *model.NewPackage) (*model.Package, error)
	GetStudent(ctx context.Context, id int64) (*model.Student, error)
	ListStudents(ctx context.Context) ([]*model.Student, error)
	UpdateStudent(ctx context.Context, s *model.Student) error
	DeleteStudent(ctx context.Context, id int64) error
}

type PackageStore interface {
	// CreatePackage атомарно создаёт пакет и уроки 1..size
	CreatePackage(ctx context.Context, studentID int64, np model.NewPackage) (*model.Package, error)
	GetPackage(ctx context.Context, id int64) (*model.Package, error)
	ListPackages(ctx context.Context, studentID int64) ([]*model.Package, error)
	ListPackagesByStudents(ctx context.Context, studentIDs []int64) ([]*model.Package, error)
	SetPaymentStatus(ctx context.Context, id int64, paid bool) error
	DeletePackage(ctx context.Context, id int64) error
}

type LessonStore interface {
	// ApplyLessonChangeset применяет изменения целиком или не применяет ничего
	ApplyLessonChangeset(ctx context.Context, cs *model.LessonChangeset) error
	GetLesson(ctx context.Context, id int64) (*model.Lesson, error)
	ListLessons(ctx context.Context, packageID int64) ([]*model.Lesson, error)
	ListLessonsByPackages(ctx context.Context, packageIDs []int64) ([]*model.Lesson, error)
	CreateLesson(ctx context.Context, l *model.Lesson) error
	UpdateLesson(ctx context.Context, l *model.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
}

type ClosureStore interface {
	ListClosures(ctx context.Context) ([]*model.Closure, error)
	CreateClosure(ctx context.Context, c *model.Closure) error
	DeleteClosure(ctx context.Context, id int64) error
}
