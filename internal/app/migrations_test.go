package app

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		data, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		require.True(t, strings.Contains(string(data), "-- +goose Up"), name)
		require.True(t, strings.Contains(string(data), "-- +goose Down"), name)
	}
}
