package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"go.uber.org/zap"
)

// ClosureInput данные для создания закрытия
type ClosureInput struct {
	StartDate calendar.Date `json:"start_date" validate:"required"`
	EndDate   calendar.Date `json:"end_date" validate:"required"`
	Reason    string        `json:"reason" validate:"max=200"`
	Category  string        `json:"category" validate:"max=50"`
}

type ClosureService struct {
	closures ClosureStore
	logger   *zap.Logger
}

func NewClosureService(closures ClosureStore, logger *zap.Logger) *ClosureService {
	return &ClosureService{
		closures: closures,
		logger:   logger,
	}
}

// List возвращает все закрытия
func (s *ClosureService) List(ctx context.Context) ([]*model.Closure, error) {
	closures, err := s.closures.ListClosures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	return closures, nil
}

// Create добавляет закрытие (включительный диапазон дат)
func (s *ClosureService) Create(ctx context.Context, in ClosureInput) (*model.Closure, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, errs.NewValidationError("end_date", "must not be before start_date")
	}

	c := &model.Closure{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Category:  in.Category,
	}
	if err := s.closures.CreateClosure(ctx, c); err != nil {
		return nil, fmt.Errorf("create closure: %w", err)
	}

	s.logger.Info("Closure created",
		zap.Int64("closure_id", c.ID),
		zap.Stringer("start_date", c.StartDate),
		zap.Stringer("end_date", c.EndDate),
	)

	return c, nil
}

// Delete удаляет закрытие
func (s *ClosureService) Delete(ctx context.Context, id int64) error {
	if err := s.closures.DeleteClosure(ctx, id); err != nil {
		return fmt.Errorf("delete closure: %w", err)
	}

	s.logger.Info("Closure deleted", zap.Int64("closure_id", id))
	return nil
}

// Calendar собирает календарь закрытий для генерации расписания
func (s *ClosureService) Calendar(ctx context.Context) (*calendar.ClosureCalendar, error) {
	closures, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewClosureCalendar(closures), nil
}
