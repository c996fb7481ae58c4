package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/tuition")
		t.Setenv("ENV", "")
		t.Setenv("HORIZON_DAYS", "")
		t.Setenv("GRID_LOCALE", "")
		t.Setenv("STALE_CHECK_INTERVAL", "")
		t.Setenv("OPERATOR_IDS", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		require.Equal(t, "development", cfg.Environment)
		require.Equal(t, 730, cfg.HorizonDays)
		require.Equal(t, "en", cfg.GridLocale)
		require.Equal(t, 24*time.Hour, cfg.StaleCheckInterval)
		require.True(t, cfg.IsOperator(12345))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/tuition")
		t.Setenv("ENV", "production")
		t.Setenv("HORIZON_DAYS", "365")
		t.Setenv("GRID_LOCALE", "th")
		t.Setenv("STALE_CHECK_INTERVAL", "6h")
		t.Setenv("OPERATOR_IDS", "10, 20")

		cfg, err := FromEnv()
		require.NoError(t, err)
		require.Equal(t, "production", cfg.Environment)
		require.Equal(t, 365, cfg.HorizonDays)
		require.Equal(t, "th", cfg.GridLocale)
		require.Equal(t, 6*time.Hour, cfg.StaleCheckInterval)
		require.Equal(t, []int64{10, 20}, cfg.OperatorIDs)
		require.True(t, cfg.IsOperator(20))
		require.False(t, cfg.IsOperator(30))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			env  map[string]string
		}{
			{"missing dsn", map[string]string{"DB_DSN": ""}},
			{"bad horizon", map[string]string{"HORIZON_DAYS": "-1"}},
			{"bad interval", map[string]string{"STALE_CHECK_INTERVAL": "daily"}},
			{"bad operator id", map[string]string{"OPERATOR_IDS": "abc"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("DB_DSN", "postgres://localhost/tuition")
				t.Setenv("HORIZON_DAYS", "")
				t.Setenv("STALE_CHECK_INTERVAL", "")
				t.Setenv("OPERATOR_IDS", "")
				for k, v := range tt.env {
					t.Setenv(k, v)
				}

				_, err := FromEnv()
				require.Error(t, err)
			})
		}
	})
}
