package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClosureRepository управляет закрытиями (праздники, отпуск преподавателя)
type ClosureRepository struct {
	*base.Repository
}

// NewClosureRepository создаёт новый репозиторий закрытий
func NewClosureRepository(pool *pgxpool.Pool) *ClosureRepository {
	return &ClosureRepository{Repository: base.NewRepository(pool)}
}

// ListClosures получает все закрытия по дате начала
func (r *ClosureRepository) ListClosures(ctx context.Context) ([]*model.Closure, error) {
	query := `
		SELECT id, start_date, end_date, reason, category
		FROM closures
		ORDER BY start_date, id
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	defer rows.Close()

	var closures []*model.Closure
	for rows.Next() {
		var (
			c          model.Closure
			start, end time.Time
		)
		if err := rows.Scan(&c.ID, &start, &end, &c.Reason, &c.Category); err != nil {
			return nil, fmt.Errorf("scan closure: %w", err)
		}
		c.StartDate = calendar.FromTime(start)
		c.EndDate = calendar.FromTime(end)
		closures = append(closures, &c)
	}

	return closures, rows.Err()
}

// CreateClosure создаёт закрытие
func (r *ClosureRepository) CreateClosure(ctx context.Context, c *model.Closure) error {
	query := `
		INSERT INTO closures (start_date, end_date, reason, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.Pool().QueryRow(ctx, query, c.StartDate.Time(), c.EndDate.Time(), c.Reason, c.Category).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create closure: %w", err)
	}

	return nil
}

// DeleteClosure удаляет закрытие
func (r *ClosureRepository) DeleteClosure(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM closures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete closure: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("closure", id)
	}

	return nil
}
