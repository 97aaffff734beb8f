package port

import (
	"context"
	"image"

	"jigsaw-bot/internal/domain/entity"
)

// Segmenter интерфейс выделения деталей на фотографии
type Segmenter interface {
	// Segment находит контуры деталей на изображении
	Segment(ctx context.Context, imageData []byte) ([]entity.SegmentedPiece, error)
}

// Simplifier интерфейс упрощения замкнутого контура с допуском epsilon
type Simplifier interface {
	Simplify(points []image.Point, epsilon float64) []image.Point
}
