package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/stretchr/testify/require"
)

func TestErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "validation", err: NewValidationError("weekdays", "must not be empty"), sentinel: ErrValidation},
		{name: "scheduling", err: &SchedulingError{Needed: 4, Found: 2, Horizon: calendar.MustParse("2024-02-01")}, sentinel: ErrScheduling},
		{name: "conflict", err: NewConflictError("chunk has %d dates", 2), sentinel: ErrConflict},
		{name: "not found", err: NewNotFoundError("package", 7), sentinel: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("commit package: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range []error{ErrValidation, ErrScheduling, ErrConflict, ErrNotFound} {
				if other != tt.sentinel {
					require.False(t, errors.Is(wrapped, other))
				}
			}
		})
	}
}

func TestErrors_Messages(t *testing.T) {
	require.Equal(t, "package 7 not found", NewNotFoundError("package", 7).Error())
	require.Equal(t,
		"scheduling failed: found 2 of 4 lesson dates before 2024-02-01",
		(&SchedulingError{Needed: 4, Found: 2, Horizon: calendar.MustParse("2024-02-01")}).Error())

	verr := &ValidationError{Fields: []FieldError{{"name", "is required"}, {"package_size", "must be 4 or 8"}}}
	require.Equal(t, "validation failed: name is required (and 1 more)", verr.Error())
}
