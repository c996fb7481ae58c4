package common

import (
	"testing"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"github.com/stretchr/testify/require"
)

func TestBuildChunksScreen_OnlyCommittableChunksGetButtons(t *testing.T) {
	chunks := schedule.Partition([]calendar.Date{
		calendar.MustParse("2024-01-30"), calendar.MustParse("2024-02-06"),
		calendar.MustParse("2024-02-13"), calendar.MustParse("2024-02-20"),
		calendar.MustParse("2024-02-27"),
	}, 4)

	text, kb := BuildChunksScreen(5, chunks)

	require.Contains(t, text, "неполный")
	require.Len(t, kb.InlineKeyboard, 2)
	require.Equal(t, ChunkCommit+"5:0", kb.InlineKeyboard[0][0].CallbackData)
	require.Equal(t, ViewStudent+"5", kb.InlineKeyboard[1][0].CallbackData)
}
