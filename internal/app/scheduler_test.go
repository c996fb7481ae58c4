package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type finderFunc func(ctx context.Context) ([]int64, error)

func (f finderFunc) StalePackages(ctx context.Context) ([]int64, error) { return f(ctx) }

func TestScheduler_CheckOnce(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int64
		err      error
		notified []int64
	}{
		{name: "notifies about stale packages", ids: []int64{3, 7}, notified: []int64{3, 7}},
		{name: "silent when nothing is stale"},
		{name: "silent on error", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			s := NewScheduler(
				finderFunc(func(context.Context) ([]int64, error) { return tt.ids, tt.err }),
				func(_ context.Context, ids []int64) { got = ids },
				0,
				zap.NewNop(),
			)

			s.CheckOnce(context.Background())
			require.Equal(t, tt.notified, got)
		})
	}
}
