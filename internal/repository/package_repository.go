package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const packageColumns = `id, student_id, size, payment_status, first_lesson_date, created_at`

// PackageRepository управляет пакетами занятий в базе данных
type PackageRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewPackageRepository создаёт новый репозиторий пакетов
func NewPackageRepository(pool *pgxpool.Pool, logger *zap.Logger) *PackageRepository {
	return &PackageRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// CreatePackage создаёт пакет и все его уроки в одной транзакции
func (r *PackageRepository) CreatePackage(ctx context.Context, studentID int64, np model.NewPackage) (*model.Package, error) {
	var pkg *model.Package
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		pkg, err = insertPackageTx(ctx, tx, studentID, np)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	r.logger.Info("Package created",
		zap.Int64("package_id", pkg.ID),
		zap.Int64("student_id", studentID),
		zap.Int("size", pkg.Size),
	)

	return pkg, nil
}

// GetPackage получает пакет по ID (без уроков)
func (r *PackageRepository) GetPackage(ctx context.Context, id int64) (*model.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	pkg, err := scanPackage(r.Pool().QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}

	return pkg, nil
}

// ListPackages получает пакеты ученика
func (r *PackageRepository) ListPackages(ctx context.Context, studentID int64) ([]*model.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE student_id = $1 ORDER BY id`
	return r.queryPackages(ctx, query, studentID)
}

// ListPackagesByStudents получает пакеты сразу нескольких учеников
func (r *PackageRepository) ListPackagesByStudents(ctx context.Context, studentIDs []int64) ([]*model.Package, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + packageColumns + ` FROM packages WHERE student_id = ANY($1) ORDER BY id`
	return r.queryPackages(ctx, query, studentIDs)
}

// SetPaymentStatus меняет флаг оплаты пакета
func (r *PackageRepository) SetPaymentStatus(ctx context.Context, id int64, paid bool) error {
	affected, err := r.ExecAffected(ctx, `UPDATE packages SET payment_status = $2 WHERE id = $1`, id, paid)
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("package", id)
	}

	return nil
}

// DeletePackage удаляет пакет вместе с уроками
func (r *PackageRepository) DeletePackage(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("package", id)
	}

	return nil
}

func (r *PackageRepository) queryPackages(ctx context.Context, query string, args ...interface{}) ([]*model.Package, error) {
	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []*model.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, pkg)
	}

	return packages, rows.Err()
}

// insertPackageTx вставляет пакет и уроки 1..size внутри переданной транзакции
func insertPackageTx(ctx context.Context, tx pgx.Tx, studentID int64, np model.NewPackage) (*model.Package, error) {
	pkg := &model.Package{
		StudentID:       studentID,
		Size:            np.Size,
		FirstLessonDate: np.FirstLessonDate,
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO packages (student_id, size, payment_status, first_lesson_date)
		VALUES ($1, $2, FALSE, $3)
		RETURNING id, created_at
	`, studentID, np.Size, base.DateArg(np.FirstLessonDate)).Scan(&pkg.ID, &pkg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert package: %w", err)
	}

	batch := &pgx.Batch{}
	for i, d := range np.Dates {
		batch.Queue(`
			INSERT INTO lessons (package_id, lesson_number, lesson_date, is_first)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, pkg.ID, i+1, d.Time(), i == 0)
	}

	results := tx.SendBatch(ctx, batch)
	for i, d := range np.Dates {
		lesson := &model.Lesson{
			PackageID:    pkg.ID,
			LessonNumber: i + 1,
			Date:         d,
			IsFirst:      i == 0,
			Status:       model.LessonStatusScheduled,
		}
		if err := results.QueryRow().Scan(&lesson.ID); err != nil {
			results.Close()
			return nil, fmt.Errorf("insert lesson %d: %w", i+1, err)
		}
		pkg.Lessons = append(pkg.Lessons, lesson)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("insert lessons: %w", err)
	}

	return pkg, nil
}

func scanPackage(row pgx.Row) (*model.Package, error) {
	var (
		pkg   model.Package
		first *time.Time
	)
	err := row.Scan(
		&pkg.ID,
		&pkg.StudentID,
		&pkg.Size,
		&pkg.PaymentStatus,
		&first,
		&pkg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	pkg.FirstLessonDate = base.DateFrom(first)
	return &pkg, nil
}
