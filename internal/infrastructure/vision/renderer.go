//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
)

var (
	sideColors = [entity.EdgeCount]color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

// GoCVRenderer рисует отладочные наложения
type GoCVRenderer struct {
	CanvasSize int         // размер холста сравнения
	Offset     image.Point // где на холсте находится начало координат нормализованных сторон
}

// NewGoCVRenderer создаёт рендерер
func NewGoCVRenderer() *GoCVRenderer {
	return &GoCVRenderer{CanvasSize: 600, Offset: image.Pt(200, 200)}
}

// RenderPiece рисует стороны детали поверх её изображения: каждая сторона своим цветом,
// углы и опорная точка кружками.
func (r *GoCVRenderer) RenderPiece(piece *entity.Piece) ([]byte, error) {
	var canvas gocv.Mat
	if img := piece.Image(); img != nil {
		m, err := gocv.ImageToMatRGB(img)
		if err != nil {
			return nil, err
		}
		canvas = m
	} else {
		b := piece.Bounds()
		canvas = gocv.Zeros(b.Max.Y+1, b.Max.X+1, gocv.MatTypeCV8UC3)
	}
	defer canvas.Close()

	if !piece.Classified() {
		drawPolyline(&canvas, piece.Boundary(), image.Point{}, gray, 1, true)
	} else {
		sides, err := piece.Sides()
		if err != nil {
			return nil, err
		}
		for i, side := range sides {
			drawPolyline(&canvas, side.Points, image.Point{}, sideColors[i], 2, false)
			gocv.Circle(&canvas, piece.Corner(i), 4, sideColors[i], -1)
		}
	}
	gocv.Circle(&canvas, piece.Origin(), 6, white, -1)

	return encodeJPEG(canvas)
}

// RenderComparison рисует впадину и выступ после нормализации, хорды серым
func (r *GoCVRenderer) RenderComparison(in, out []image.Point) ([]byte, error) {
	if len(in) == 0 || len(out) == 0 {
		return nil, errors.New("nothing to render")
	}

	canvas := gocv.Zeros(r.CanvasSize, r.CanvasSize, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	gocv.Circle(&canvas, r.Offset, 6, white, -1)
	for _, curve := range [][]image.Point{in, out} {
		first, last := curve[0].Add(r.Offset), curve[len(curve)-1].Add(r.Offset)
		gocv.Line(&canvas, first, last, gray, 1)
		gocv.Circle(&canvas, first, 4, blue, -1)
		gocv.Circle(&canvas, last, 4, red, -1)
	}
	drawPolyline(&canvas, in, r.Offset, green, 2, false)
	drawPolyline(&canvas, out, r.Offset, blue, 2, false)

	return encodeJPEG(canvas)
}

func drawPolyline(m *gocv.Mat, pts []image.Point, offset image.Point, c color.RGBA, width int, closed bool) {
	for i := 1; i < len(pts); i++ {
		gocv.Line(m, pts[i-1].Add(offset), pts[i].Add(offset), c, width)
	}
	if closed && len(pts) > 2 {
		gocv.Line(m, pts[len(pts)-1].Add(offset), pts[0].Add(offset), c, width)
	}
}

var _ port.Renderer = (*GoCVRenderer)(nil)
