//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	"jigsaw-bot/internal/geometry"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVSegmenter сегментатор-заглушка (без OpenCV)
type GoCVSegmenter struct {
	ResizeDivider   int
	BlurKernel      int
	CannyThresholds [3]float32
	CannyRatio      float32
	MinArea         float64
}

// NewGoCVSegmenter создаёт сегментатор-заглушку
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{
		ResizeDivider:   2,
		BlurKernel:      5,
		CannyThresholds: [3]float32{550, 250, 250},
		CannyRatio:      4,
		MinArea:         1000,
	}
}

// Segment возвращает ошибку, если сборка без тега gocv.
func (s *GoCVSegmenter) Segment(ctx context.Context, imageData []byte) ([]entity.SegmentedPiece, error) {
	return nil, errNoGoCV
}

// GoCVSimplifier без OpenCV упрощает контур собственной реализацией Дугласа-Пекера
type GoCVSimplifier struct{}

// NewSimplifier создаёт упроститель контуров
func NewSimplifier() *GoCVSimplifier {
	return &GoCVSimplifier{}
}

// Simplify упрощает замкнутый контур
func (GoCVSimplifier) Simplify(points []image.Point, epsilon float64) []image.Point {
	return geometry.SimplifyClosed(points, epsilon)
}

// GoCVRenderer рендерер-заглушка
type GoCVRenderer struct {
	CanvasSize int
	Offset     image.Point
}

// NewGoCVRenderer создаёт рендерер-заглушку
func NewGoCVRenderer() *GoCVRenderer {
	return &GoCVRenderer{CanvasSize: 600, Offset: image.Pt(200, 200)}
}

// RenderPiece возвращает ошибку, если сборка без тега gocv.
func (r *GoCVRenderer) RenderPiece(piece *entity.Piece) ([]byte, error) {
	return nil, errNoGoCV
}

// RenderComparison возвращает ошибку, если сборка без тега gocv.
func (r *GoCVRenderer) RenderComparison(in, out []image.Point) ([]byte, error) {
	return nil, errNoGoCV
}

var (
	_ port.Segmenter  = (*GoCVSegmenter)(nil)
	_ port.Simplifier = GoCVSimplifier{}
	_ port.Renderer   = (*GoCVRenderer)(nil)
)
