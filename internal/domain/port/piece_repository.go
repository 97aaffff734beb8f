package port

import (
	"context"

	"jigsaw-bot/internal/domain/entity"
)

// PieceRepository интерфейс хранилища деталей
type PieceRepository interface {
	// Get возвращает деталь по ID или ошибку not_found
	Get(ctx context.Context, id string) (*entity.Piece, error)

	// Save сохраняет деталь, перезаписывая существующую
	Save(ctx context.Context, piece *entity.Piece) error

	// List возвращает ID всех сохранённых деталей в отсортированном порядке
	List(ctx context.Context) ([]string, error)
}
