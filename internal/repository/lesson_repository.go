package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const lessonColumns = `id, package_id, lesson_number, lesson_date, is_first, is_manual_override, is_makeup, status`

// LessonRepository управляет уроками в базе данных
type LessonRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewLessonRepository создаёт новый репозиторий уроков
func NewLessonRepository(pool *pgxpool.Pool, logger *zap.Logger) *LessonRepository {
	return &LessonRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// ApplyLessonChangeset атомарно применяет результат регенерации к урокам пакета.
// Строки с is_manual_override не перезаписываются: если урок закрепили после
// построения превью, вся транзакция откатывается с ConflictError.
func (r *LessonRepository) ApplyLessonChangeset(ctx context.Context, cs *model.LessonChangeset) error {
	upsert := `
		INSERT INTO lessons (package_id, lesson_number, lesson_date, is_first, is_manual_override)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (package_id, lesson_number) WHERE NOT is_makeup
		DO UPDATE SET lesson_date = EXCLUDED.lesson_date, is_first = EXCLUDED.is_first
		WHERE lessons.is_manual_override = FALSE
	`

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE packages SET first_lesson_date = $2 WHERE id = $1`,
			cs.PackageID, base.DateArg(cs.FirstLessonDate))
		if err != nil {
			return fmt.Errorf("update first lesson date: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errs.NewNotFoundError("package", cs.PackageID)
		}

		for _, row := range cs.Rows {
			tag, err := tx.Exec(ctx, upsert, cs.PackageID, row.LessonNumber, row.Date.Time(), row.LessonNumber == 1)
			if err != nil {
				return fmt.Errorf("upsert lesson %d: %w", row.LessonNumber, err)
			}
			if tag.RowsAffected() == 0 {
				return errs.NewConflictError("lesson %d of package %d was pinned after preview", row.LessonNumber, cs.PackageID)
			}
		}

		// ровно один урок пакета помечен как первый
		_, err = tx.Exec(ctx, `
			UPDATE lessons SET is_first = (lesson_number = 1)
			WHERE package_id = $1 AND NOT is_makeup
		`, cs.PackageID)
		if err != nil {
			return fmt.Errorf("update is_first: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to apply lesson changeset",
			zap.String("changeset_id", cs.ID.String()),
			zap.Int64("package_id", cs.PackageID),
			zap.Error(err),
		)
		return fmt.Errorf("apply lesson changeset: %w", err)
	}

	r.logger.Info("Lesson changeset applied",
		zap.String("changeset_id", cs.ID.String()),
		zap.Int64("package_id", cs.PackageID),
		zap.Int("rows", len(cs.Rows)),
	)

	return nil
}

// GetLesson получает урок по ID
func (r *LessonRepository) GetLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.Pool().QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	return lesson, nil
}

// ListLessons получает уроки пакета: сначала регулярные по номеру, затем отработки по дате
func (r *LessonRepository) ListLessons(ctx context.Context, packageID int64) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE package_id = $1 ORDER BY is_makeup, lesson_number, lesson_date, id`
	return r.queryLessons(ctx, query, packageID)
}

// ListLessonsByPackages получает уроки сразу нескольких пакетов
func (r *LessonRepository) ListLessonsByPackages(ctx context.Context, packageIDs []int64) ([]*model.Lesson, error) {
	if len(packageIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE package_id = ANY($1) ORDER BY package_id, is_makeup, lesson_number, lesson_date, id`
	return r.queryLessons(ctx, query, packageIDs)
}

// CreateLesson создаёт отдельный урок (используется для отработок)
func (r *LessonRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (package_id, lesson_number, lesson_date, is_first, is_manual_override, is_makeup, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.Pool().QueryRow(
		ctx,
		query,
		l.PackageID,
		l.LessonNumber,
		l.Date.Time(),
		l.IsFirst,
		l.IsManualOverride,
		l.IsMakeup,
		string(l.Status),
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// UpdateLesson обновляет дату, флаг ручной правки и статус урока.
// Для урока №1 в той же транзакции обновляется first_lesson_date пакета.
func (r *LessonRepository) UpdateLesson(ctx context.Context, l *model.Lesson) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE lessons
			SET lesson_date = $2, is_manual_override = $3, status = $4
			WHERE id = $1
			RETURNING package_id, lesson_number, is_makeup
		`

		var (
			packageID    int64
			lessonNumber int
			isMakeup     bool
		)
		err := tx.QueryRow(ctx, query, l.ID, l.Date.Time(), l.IsManualOverride, string(l.Status)).
			Scan(&packageID, &lessonNumber, &isMakeup)
		if err != nil {
			if base.IsNotFound(err) {
				return errs.NewNotFoundError("lesson", l.ID)
			}
			return fmt.Errorf("update lesson: %w", err)
		}

		if isMakeup || lessonNumber != 1 {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE packages SET first_lesson_date = $2 WHERE id = $1`,
			packageID, l.Date.Time()); err != nil {
			return fmt.Errorf("update first lesson date: %w", err)
		}

		r.logger.Debug("First lesson date moved",
			zap.Int64("package_id", packageID),
			zap.Stringer("date", l.Date),
		)
		return nil
	})
}

// DeleteLesson удаляет урок
func (r *LessonRepository) DeleteLesson(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("lesson", id)
	}

	return nil
}

func (r *LessonRepository) queryLessons(ctx context.Context, query string, args ...interface{}) ([]*model.Lesson, error) {
	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	return lessons, rows.Err()
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var (
		l      model.Lesson
		date   time.Time
		status string
	)
	err := row.Scan(
		&l.ID,
		&l.PackageID,
		&l.LessonNumber,
		&date,
		&l.IsFirst,
		&l.IsManualOverride,
		&l.IsMakeup,
		&status,
	)
	if err != nil {
		return nil, err
	}

	l.Date = calendar.FromTime(date)
	l.Status = model.LessonStatus(status)
	return &l, nil
}
