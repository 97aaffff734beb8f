package port

import (
	"image"

	"jigsaw-bot/internal/domain/entity"
)

// Renderer интерфейс отрисовки отладочных изображений
type Renderer interface {
	// RenderPiece рисует контур детали с раскрашенными сторонами, углами и опорной точкой
	RenderPiece(piece *entity.Piece) ([]byte, error)

	// RenderComparison рисует две нормализованные стороны в общей системе координат
	RenderComparison(in, out []image.Point) ([]byte, error)
}

// ImageRotator интерфейс поворота изображения детали вслед за её контуром
type ImageRotator interface {
	RotateImage(img image.Image, center image.Point, radians float64) image.Image
}
