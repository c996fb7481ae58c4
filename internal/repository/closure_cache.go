package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	closuresCacheKey = "tuition:closures"
	closuresCacheTTL = 10 * time.Minute
)

// closureSource хранилище закрытий, которое оборачивает кэш
type closureSource interface {
	ListClosures(ctx context.Context) ([]*model.Closure, error)
	CreateClosure(ctx context.Context, c *model.Closure) error
	DeleteClosure(ctx context.Context, id int64) error
}

// CachedClosureRepository кэширует список закрытий в Redis.
// Без клиента Redis все вызовы уходят напрямую в хранилище.
type CachedClosureRepository struct {
	next   closureSource
	rdb    *redis.Client
	logger *zap.Logger
}

// NewCachedClosureRepository создаёт кэширующую обёртку над хранилищем закрытий
func NewCachedClosureRepository(next closureSource, rdb *redis.Client, logger *zap.Logger) *CachedClosureRepository {
	return &CachedClosureRepository{
		next:   next,
		rdb:    rdb,
		logger: logger,
	}
}

// ListClosures читает закрытия из кэша, при промахе из хранилища
func (r *CachedClosureRepository) ListClosures(ctx context.Context) ([]*model.Closure, error) {
	if r.rdb == nil {
		return r.next.ListClosures(ctx)
	}

	cached, err := r.rdb.Get(ctx, closuresCacheKey).Result()
	switch {
	case err == nil:
		var closures []*model.Closure
		if err := json.Unmarshal([]byte(cached), &closures); err == nil {
			return closures, nil
		}
		r.logger.Warn("Failed to unmarshal cached closures", zap.Error(err))
	case !errors.Is(err, redis.Nil):
		r.logger.Error("Redis GET failed", zap.String("key", closuresCacheKey), zap.Error(err))
	}

	closures, err := r.next.ListClosures(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(closures)
	if err != nil {
		return nil, fmt.Errorf("marshal closures: %w", err)
	}
	if err := r.rdb.Set(ctx, closuresCacheKey, data, closuresCacheTTL).Err(); err != nil {
		r.logger.Error("Redis SET failed", zap.String("key", closuresCacheKey), zap.Error(err))
	}

	return closures, nil
}

// CreateClosure создаёт закрытие и сбрасывает кэш
func (r *CachedClosureRepository) CreateClosure(ctx context.Context, c *model.Closure) error {
	if err := r.next.CreateClosure(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// DeleteClosure удаляет закрытие и сбрасывает кэш
func (r *CachedClosureRepository) DeleteClosure(ctx context.Context, id int64) error {
	if err := r.next.DeleteClosure(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedClosureRepository) invalidate(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, closuresCacheKey).Err(); err != nil {
		r.logger.Error("Redis DEL failed", zap.String("key", closuresCacheKey), zap.Error(err))
	}
}
