//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
)

// GoCVSegmenter выделяет детали на фото по карте границ всех трёх каналов
type GoCVSegmenter struct {
	ResizeDivider   int
	BlurKernel      int
	CannyThresholds [3]float32 // B, G, R
	CannyRatio      float32
	MinArea         float64 // минимальная площадь контура в пикселях исходного фото
}

// NewGoCVSegmenter создаёт сегментатор с настройками по умолчанию
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{
		ResizeDivider:   2,
		BlurKernel:      5,
		CannyThresholds: [3]float32{550, 250, 250},
		CannyRatio:      4,
		MinArea:         1000,
	}
}

// Segment находит внешние контуры деталей и вырезает каждую деталь по маске.
func (s *GoCVSegmenter) Segment(ctx context.Context, imageData []byte) ([]entity.SegmentedPiece, error) {
	src, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if src.Empty() {
		return nil, errors.New("empty image")
	}

	// Уменьшаем изображение, чтобы подавить мелкую текстуру фона.
	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(src, &small, image.Pt(src.Cols()/s.ResizeDivider, src.Rows()/s.ResizeDivider), 0, 0, gocv.InterpolationLinear)

	channels := gocv.Split(small)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return nil, fmt.Errorf("expected 3 channels, got %d", len(channels))
	}

	channelKernel := gocv.GetStructuringElement(gocv.MorphCross, image.Pt(3, 3))
	defer channelKernel.Close()

	for i := 0; i < 3; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gocv.Blur(channels[i], &channels[i], image.Pt(s.BlurKernel, s.BlurKernel))
		t := s.CannyThresholds[i]
		gocv.CannyWithParams(channels[i], &channels[i], t, t*s.CannyRatio, s.BlurKernel, false)
		gocv.MorphologyEx(channels[i], &channels[i], gocv.MorphDilate, channelKernel)
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.BitwiseOr(channels[0], channels[1], &edges)
	gocv.BitwiseOr(channels[2], edges, &edges)

	finalKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5))
	defer finalKernel.Close()
	gocv.MorphologyEx(edges, &edges, gocv.MorphClose, finalKernel)

	full := gocv.NewMat()
	defer full.Close()
	gocv.Resize(edges, &full, image.Pt(src.Cols(), src.Rows()), 0, 0, gocv.InterpolationLinear)

	contours := gocv.FindContours(full, gocv.RetrievalExternal, gocv.ChainApproxTC89KCOS)
	defer contours.Close()

	pieces := make([]entity.SegmentedPiece, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		if gocv.ContourArea(c) < s.MinArea {
			continue
		}
		piece, err := s.crop(src, contours, i)
		if err != nil {
			return nil, fmt.Errorf("crop contour %d: %w", i, err)
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// crop вырезает деталь по заполненному контуру и переносит контур в координаты вырезки
func (s *GoCVSegmenter) crop(src gocv.Mat, contours gocv.PointsVector, idx int) (entity.SegmentedPiece, error) {
	c := contours.At(idx)
	rect := gocv.BoundingRect(c)

	mask := gocv.Zeros(src.Rows(), src.Cols(), src.Type())
	defer mask.Close()
	gocv.DrawContours(&mask, contours, idx, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(mask, src, &masked)

	region := masked.Region(rect)
	defer region.Close()
	cropped := region.Clone()
	defer cropped.Close()

	img, err := cropped.ToImage()
	if err != nil {
		return entity.SegmentedPiece{}, err
	}

	points := c.ToPoints()
	boundary := make([]image.Point, len(points))
	for i, p := range points {
		boundary[i] = p.Sub(rect.Min)
	}
	return entity.SegmentedPiece{Boundary: boundary, Image: img, Offset: rect.Min}, nil
}

var _ port.Segmenter = (*GoCVSegmenter)(nil)
