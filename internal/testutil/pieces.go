// Package testutil строит синтетические контуры деталей для тестов.
package testutil

import (
	"fmt"
	"image"
	"math"

	"jigsaw-bot/internal/domain/entity"
)

// TabHeight высота выступа/впадины синтетической детали
const TabHeight = 30

// SquareBoundary квадрат со стороной side: углы (0,0),(0,side),(side,side),(side,0),
// perSide точек на каждой стороне, начиная с угла.
func SquareBoundary(side, perSide int) []image.Point {
	corners := []image.Point{{0, 0}, {0, side}, {side, side}, {side, 0}}
	pts := make([]image.Point, 0, 4*perSide)
	for i, a := range corners {
		b := corners[(i+1)%4]
		for k := 0; k < perSide; k++ {
			pts = append(pts, image.Pt(a.X+(b.X-a.X)*k/perSide, a.Y+(b.Y-a.Y)*k/perSide))
		}
	}
	return pts
}

// PieceBoundary квадратная деталь со стороной size и выступами/впадинами по
// сторонам в порядке top, left, bottom, right. Контур начинается с верхнего
// правого угла и идёт в каноническом направлении, шаг по хорде 2 пикселя.
func PieceBoundary(size int, tabs [entity.EdgeCount]entity.EdgeType) []image.Point {
	s := float64(size)
	corners := [entity.EdgeCount][2]float64{{s, 0}, {0, 0}, {0, s}, {s, s}}
	cx, cy := s/2, s/2

	var pts []image.Point
	for i := 0; i < entity.EdgeCount; i++ {
		ax, ay := corners[i][0], corners[i][1]
		bx, by := corners[(i+1)%4][0], corners[(i+1)%4][1]

		// нормаль к хорде, направленная внутрь детали
		nx, ny := -(by - ay), bx-ax
		l := math.Hypot(nx, ny)
		nx, ny = nx/l, ny/l
		mx, my := (ax+bx)/2, (ay+by)/2
		if (cx-mx)*nx+(cy-my)*ny < 0 {
			nx, ny = -nx, -ny
		}

		dir := 0.0
		switch tabs[i] {
		case entity.EdgeIn:
			dir = 1
		case entity.EdgeOut:
			dir = -1
		}

		steps := size / 2
		for k := 0; k < steps; k++ {
			t := float64(k) / float64(steps)
			off := dir * TabHeight * tabProfile(t)
			x := ax + (bx-ax)*t + nx*off
			y := ay + (by-ay)*t + ny*off
			p := image.Pt(int(math.Round(x)), int(math.Round(y)))
			if len(pts) > 0 && pts[len(pts)-1] == p {
				continue
			}
			pts = append(pts, p)
		}
	}
	return pts
}

// tabProfile гладкий горб на отрезке [0.35, 0.65] хорды
func tabProfile(t float64) float64 {
	if t < 0.35 || t > 0.65 {
		return 0
	}
	return math.Sin(math.Pi * (t - 0.35) / 0.3)
}

// Rotate90 поворачивает точки на 90 градусов вокруг начала координат: (x, y) -> (-y, x)
func Rotate90(points []image.Point) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = image.Pt(-p.Y, p.X)
	}
	return out
}

// Unrotate90 обратный поворот к Rotate90
func Unrotate90(p image.Point) image.Point {
	return image.Pt(p.Y, -p.X)
}

// TabbedPiece классифицированная деталь из PieceBoundary: углы найдены точным
// поиском вершин квадрата, типы сторон взяты из tabs.
func TabbedPiece(id string, size int, tabs [entity.EdgeCount]entity.EdgeType) (*entity.Piece, error) {
	p, err := entity.NewPiece(id, PieceBoundary(size, tabs), nil)
	if err != nil {
		return nil, err
	}

	want := [entity.EdgeCount]image.Point{{size, 0}, {0, 0}, {0, size}, {size, size}}
	var corners entity.CornerIndexes
	boundary := p.Boundary()
	for i, c := range want {
		corners[i] = -1
		for j, pt := range boundary {
			if pt == c {
				corners[i] = j
				break
			}
		}
		if corners[i] < 0 {
			return nil, fmt.Errorf("corner %v not on boundary", c)
		}
	}
	if err := p.SetCorners(corners); err != nil {
		return nil, err
	}
	for i, t := range tabs {
		if err := p.SetEdgeType(i, t); err != nil {
			return nil, err
		}
	}
	return p, nil
}
