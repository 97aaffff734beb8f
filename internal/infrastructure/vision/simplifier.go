//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"jigsaw-bot/internal/domain/port"
)

// GoCVSimplifier упрощает контур через approxPolyDP
type GoCVSimplifier struct{}

// NewSimplifier создаёт упроститель контуров
func NewSimplifier() *GoCVSimplifier {
	return &GoCVSimplifier{}
}

// Simplify возвращает вершины замкнутого многоугольника, аппроксимирующего контур
func (GoCVSimplifier) Simplify(points []image.Point, epsilon float64) []image.Point {
	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	approx := gocv.ApproxPolyDP(pv, epsilon, true)
	defer approx.Close()
	return approx.ToPoints()
}

var _ port.Simplifier = GoCVSimplifier{}
