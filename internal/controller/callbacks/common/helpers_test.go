package common

import (
	"fmt"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestParseIDsFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback(RegenPreview + "123")
	require.NoError(t, err)
	require.Equal(t, int64(123), id)

	ids, err := ParseIDsFromCallback(ChunkCommit+"5:1", 2)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 1}, ids)

	for _, bad := range []string{"regen_preview:", "regen_preview:x", "regen_preview:1:2", "regen_preview"} {
		_, err := ParseIDFromCallback(bad)
		require.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errs.NewNotFoundError("package", 7), "❌ Не найдено: package #7"},
		{fmt.Errorf("commit: %w", errs.NewConflictError("lesson %d pinned", 3)), "⚠️ Конфликт: lesson 3 pinned"},
		{&errs.SchedulingError{Needed: 4, Found: 1, Horizon: calendar.MustParse("2024-03-01")}, "❌ Не хватает дат: найдено 1 из 4 до 2024-03-01"},
		{ErrCommitRunning, "⏳ Изменения по этому пакету уже применяются"},
		{fmt.Errorf("boom"), "❌ Произошла ошибка"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorMessage(tt.err))
	}
}
