package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/infrastructure/storage"
)

func TestSessionService_FullDialog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewSessionService(users, f.pieces, f.matches)

	f.segmenter.calls = [][]entity.SegmentedPiece{
		{segment(rightIn)},
		{segment(leftOut)},
	}

	user, err := svc.Begin(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFirstPiece, user.State)

	first, err := svc.AcceptFirstPiece(ctx, 1, 10, []byte("first"))
	require.NoError(t, err)
	require.Equal(t, rightIn, first.Result.Types())

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSecondPiece, user.State)
	require.Equal(t, first.Piece.ID(), user.FirstPieceID)

	report, err := svc.AcceptSecondPiece(ctx, 1, 10, []byte("second"))
	require.NoError(t, err)
	require.Equal(t, leftOut, report.Second.Result.Types())
	require.Len(t, report.Matches, 1)
	require.True(t, report.Matches[0].Result.Match)

	require.Equal(t, first.Piece.ID(), report.First.Piece.ID())

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Empty(t, user.FirstPieceID)
}

func TestSessionService_SecondWithoutFirst(t *testing.T) {
	f := newFixture(t)
	svc := NewSessionService(NewUserService(storage.NewMemoryUserRepository()), f.pieces, f.matches)

	_, err := svc.AcceptSecondPiece(context.Background(), 5, 50, []byte("photo"))
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSessionService_NoPiecesOnPhoto(t *testing.T) {
	f := newFixture(t)
	svc := NewSessionService(NewUserService(storage.NewMemoryUserRepository()), f.pieces, f.matches)

	_, err := svc.AcceptFirstPiece(context.Background(), 5, 50, []byte("photo"))
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidPieceGeometry))
}
