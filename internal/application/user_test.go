package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/infrastructure/storage"
)

func TestUserService_Dialog(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	user, err := svc.BeginMatch(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFirstPiece, user.State)

	user, err = svc.RememberFirstPiece(ctx, 1, 10, "tg1-1-0")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSecondPiece, user.State)

	user, err = svc.SetState(ctx, 1, 10, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, "tg1-1-0", user.FirstPieceID)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Empty(t, user.FirstPieceID)
}

func TestUserService_GetCreatesUser(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	user, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), user.ChatID)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = svc.SetState(ctx, 2, 20, entity.StateAwaitingSecondPiece)
	require.NoError(t, err)

	again, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSecondPiece, again.State)
}
