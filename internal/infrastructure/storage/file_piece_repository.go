package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
)

const (
	edgeExt  = ".edg"
	imageExt = ".jpg"
)

// FilePieceRepository хранит детали парами файлов <dir>/<id>.edg и <dir>/<id>.jpg
type FilePieceRepository struct {
	dir string
}

// NewFilePieceRepository создаёт хранилище, создавая каталог при необходимости
func NewFilePieceRepository(dir string) (*FilePieceRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FilePieceRepository{dir: dir}, nil
}

// Get читает контур и, если есть, изображение детали
func (r *FilePieceRepository) Get(ctx context.Context, id string) (*entity.Piece, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var img image.Image
	data, err := os.ReadFile(r.path(id, imageExt))
	switch {
	case err == nil:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image of piece %s: %w", id, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read image of piece %s: %w", id, err)
	}

	f, err := os.Open(r.path(id, edgeExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("piece %s not found", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("open piece %s: %w", id, err)
	}
	defer f.Close()

	return DecodePiece(f, id, img)
}

// Save записывает контур и изображение; файлы заменяются атомарно
func (r *FilePieceRepository) Save(ctx context.Context, piece *entity.Piece) error {
	if err := validateID(piece.ID()); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodePiece(&buf, piece); err != nil {
		return err
	}
	if err := writeAtomic(r.path(piece.ID(), edgeExt), buf.Bytes()); err != nil {
		return err
	}

	if img := piece.Image(); img != nil {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("encode image of piece %s: %w", piece.ID(), err)
		}
		if err := writeAtomic(r.path(piece.ID(), imageExt), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// List возвращает ID всех деталей в каталоге
func (r *FilePieceRepository) List(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*"+edgeExt))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), edgeExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *FilePieceRepository) path(id, ext string) string {
	return filepath.Join(r.dir, id+ext)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return apperrors.NewValidationError(fmt.Sprintf("invalid piece id %q", id), nil)
	}
	return nil
}

var _ port.PieceRepository = (*FilePieceRepository)(nil)
