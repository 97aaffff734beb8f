package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUser_Dialog(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.False(t, u.AwaitingPhoto())

	u.BeginMatch()
	require.Equal(t, StateAwaitingFirstPiece, u.State)
	require.True(t, u.AwaitingPhoto())

	u.RememberFirstPiece("tg1-1-0")
	require.Equal(t, StateAwaitingSecondPiece, u.State)
	require.Equal(t, "tg1-1-0", u.FirstPieceID)

	// на время обработки шаг меняется, деталь остаётся
	u.SetState(StateProcessing)
	require.False(t, u.AwaitingPhoto())
	require.Equal(t, "tg1-1-0", u.FirstPieceID)

	u.Reset()
	require.Equal(t, StateMainMenu, u.State)
	require.Empty(t, u.FirstPieceID)
}

func TestUser_BeginMatchForgetsPiece(t *testing.T) {
	u := NewUser(2, 20)
	u.RememberFirstPiece("old")

	u.BeginMatch()
	require.Empty(t, u.FirstPieceID)
	require.Equal(t, StateAwaitingFirstPiece, u.State)
}
