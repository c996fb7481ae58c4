package handlers

import (
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/stretchr/testify/require"
)

func TestBuildStaleScreen(t *testing.T) {
	t.Run("nothing stale", func(t *testing.T) {
		text, kb := BuildStaleScreen(nil)
		require.Contains(t, text, "актуальны")
		require.Empty(t, kb.InlineKeyboard)
	})

	t.Run("one preview button per package", func(t *testing.T) {
		text, kb := BuildStaleScreen([]int64{3, 7, 9, 12})
		require.Contains(t, text, "4 пакета")
		require.Len(t, kb.InlineKeyboard, 2)
		require.Len(t, kb.InlineKeyboard[0], 3)
		require.Equal(t, common.RegenPreview+"3", kb.InlineKeyboard[0][0].CallbackData)
		require.Equal(t, common.RegenPreview+"12", kb.InlineKeyboard[1][0].CallbackData)
	})
}

func TestCommandArgs(t *testing.T) {
	require.Nil(t, commandArgs("/stale"))
	require.Equal(t, []string{"8", "Evening"}, commandArgs("/students  8 Evening"))
	require.Equal(t, []string{"12"}, commandArgs("/package@tuition_bot 12"))
}
