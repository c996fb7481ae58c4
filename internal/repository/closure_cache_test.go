package repository

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository/memstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedClosureRepository_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	repo := NewCachedClosureRepository(memstore.New(), nil, zap.NewNop())

	c := &model.Closure{StartDate: calendar.MustParse("2024-04-13"), EndDate: calendar.MustParse("2024-04-16")}
	require.NoError(t, repo.CreateClosure(ctx, c))
	require.NotZero(t, c.ID)

	closures, err := repo.ListClosures(ctx)
	require.NoError(t, err)
	require.Len(t, closures, 1)

	require.NoError(t, repo.DeleteClosure(ctx, c.ID))
	closures, err = repo.ListClosures(ctx)
	require.NoError(t, err)
	require.Empty(t, closures)
}
