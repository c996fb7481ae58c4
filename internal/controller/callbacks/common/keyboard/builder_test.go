package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_Grid(t *testing.T) {
	kb := NewBuilder().
		Grid(2, Button("a", "a"), Button("b", "b"), Button("c", "c")).
		Row().
		Row(IDButton("pay", "pay_toggle:", 42)).
		Build()

	require.Len(t, kb.InlineKeyboard, 3)
	require.Len(t, kb.InlineKeyboard[0], 2)
	require.Len(t, kb.InlineKeyboard[1], 1)
	require.Equal(t, "pay_toggle:42", kb.InlineKeyboard[2][0].CallbackData)
}
