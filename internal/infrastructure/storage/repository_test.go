package storage

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/testutil"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	return img
}

func TestFilePieceRepository(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "pieces")
	repo, err := NewFilePieceRepository(dir)
	require.NoError(t, err)

	p, err := testutil.TabbedPiece("b", 200, tabs)
	require.NoError(t, err)
	p.SetImage(solidImage(201, 201))
	require.NoError(t, repo.Save(ctx, p))

	raw, err := entity.NewPiece("a", testutil.SquareBoundary(100, 20), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, raw))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ids)

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, tabs, got.EdgeTypes())
	require.NotNil(t, got.Image())
	require.Equal(t, image.Rect(0, 0, 201, 201), got.Image().Bounds())

	got, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got.Image())
	require.False(t, got.Classified())

	_, err = os.Stat(filepath.Join(dir, "b.edg.tmp"))
	require.True(t, os.IsNotExist(err))
}

func TestFilePieceRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFilePieceRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Get(ctx, "missing")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = repo.Get(ctx, "../etc/passwd")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestFilePieceRepository_UnreadableImage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewFilePieceRepository(dir)
	require.NoError(t, err)

	p, err := entity.NewPiece("a", testutil.SquareBoundary(100, 20), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	// изображение, которое не удаётся прочитать, не подменяется пустым
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.jpg"), 0o755))

	_, err = repo.Get(ctx, "a")
	require.Error(t, err)
	require.False(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestMemoryPieceRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPieceRepository()

	p, err := testutil.TabbedPiece("p", 200, tabs)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	p.Translate(image.Pt(1000, 1000))

	got, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, image.Pt(200, 0), got.Corner(entity.CornerTopRight))

	got.Translate(image.Pt(5, 5))
	again, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, image.Pt(200, 0), again.Corner(entity.CornerTopRight))

	_, err = repo.Get(ctx, "nope")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	// Get отдаёт копию: изменения без Save не видны
	user.BeginMatch()
	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, again.State)

	require.NoError(t, repo.Save(ctx, user))
	again, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFirstPiece, again.State)

	updated, err := repo.Update(ctx, 1, 10, func(u *entity.User) error {
		u.RememberFirstPiece("p-0")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "p-0", updated.FirstPieceID)

	_, err = repo.Update(ctx, 1, 10, func(u *entity.User) error {
		u.Reset()
		return errors.New("boom")
	})
	require.Error(t, err)
	again, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSecondPiece, again.State)
	require.Equal(t, "p-0", again.FirstPieceID)

	require.True(t, apperrors.IsType(repo.Save(ctx, nil), apperrors.ErrorTypeValidation))
}

func TestNewBlobPieceRepository_Validation(t *testing.T) {
	_, err := NewBlobPieceRepository("account", "key", "")
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = NewBlobPieceRepository("account", "not base64!", "pieces")
	require.Error(t, err)

	repo, err := NewBlobPieceRepository("account", "c2VjcmV0", "pieces")
	require.NoError(t, err)
	require.NotNil(t, repo)
}
