package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleFinder находит пакеты, чьё сохранённое расписание расходится с пересчитанным
type StaleFinder interface {
	StalePackages(ctx context.Context) ([]int64, error)
}

// StaleNotifier получает список устаревших пакетов (например, бот рассылает его операторам)
type StaleNotifier func(ctx context.Context, packageIDs []int64)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	finder   StaleFinder
	notify   StaleNotifier
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(finder StaleFinder, notify StaleNotifier, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		finder:   finder,
		notify:   notify,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runStaleCheckTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runStaleCheckTask периодически ищет пакеты, которым нужна регенерация.
// Задача только сообщает оператору: применять изменения без превью нельзя.
func (s *Scheduler) runStaleCheckTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.CheckOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CheckOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Stale check task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Stale check task cancelled")
			return
		}
	}
}

// CheckOnce выполняет одну проверку
func (s *Scheduler) CheckOnce(ctx context.Context) {
	ids, err := s.finder.StalePackages(ctx)
	if err != nil {
		s.logger.Error("Failed to check stale packages", zap.Error(err))
		return
	}

	if len(ids) == 0 {
		s.logger.Debug("No stale packages")
		return
	}

	s.logger.Warn("Packages need regeneration", zap.Int64s("package_ids", ids))
	if s.notify != nil {
		s.notify(ctx, ids)
	}
}
