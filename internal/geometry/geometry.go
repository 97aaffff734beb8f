// Package geometry содержит примитивы над целочисленными точками контура.
package geometry

import (
	"image"
	"math"
)

// Distance возвращает евклидово расстояние между точками.
func Distance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// InteriorAngle возвращает угол при вершине middle между направлениями на prev и next, в радианах.
// Если одна из сторон нулевой длины, ok == false.
func InteriorAngle(middle, prev, next image.Point) (angle float64, ok bool) {
	x1 := float64(middle.X - prev.X)
	y1 := float64(middle.Y - prev.Y)
	x2 := float64(middle.X - next.X)
	y2 := float64(middle.Y - next.Y)

	m1 := math.Sqrt(x1*x1 + y1*y1)
	m2 := math.Sqrt(x2*x2 + y2*y2)
	if m1 == 0 || m2 == 0 {
		return 0, false
	}

	cos := (x1*x2 + y1*y2) / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), true
}

// InteriorAngleDeg то же, что InteriorAngle, но в градусах.
func InteriorAngleDeg(middle, prev, next image.Point) (float64, bool) {
	a, ok := InteriorAngle(middle, prev, next)
	return ToDegrees(a), ok
}

// RectangleArea произведение длин двух сторон, сходящихся в middle.
func RectangleArea(middle, prev, next image.Point) float64 {
	return Distance(middle, prev) * Distance(middle, next)
}

// SideOfLine знак векторного произведения (b-a)x(c-a): +1, -1 или 0 для точки на прямой.
func SideOfLine(a, b, c image.Point) int {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	}
	return 0
}

// DistanceFromLine расстояние от p до прямой через l1, l2.
// Для совпадающих l1 и l2 возвращается расстояние до точки.
func DistanceFromLine(p, l1, l2 image.Point) float64 {
	dx := float64(l2.X - l1.X)
	dy := float64(l2.Y - l1.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return Distance(p, l1)
	}
	cross := dx*float64(p.Y-l1.Y) - dy*float64(p.X-l1.X)
	return math.Abs(cross) / length
}

// Midpoint середина отрезка в целых координатах (округление вниз внутри bounding box).
func Midpoint(a, b image.Point) image.Point {
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)
	return image.Pt(minX+(maxX-minX)/2, minY+(maxY-minY)/2)
}

// Centroid среднее арифметическое точек с отбрасыванием дробной части.
func Centroid(points []image.Point) image.Point {
	if len(points) == 0 {
		return image.Point{}
	}
	var sx, sy int64
	for _, p := range points {
		sx += int64(p.X)
		sy += int64(p.Y)
	}
	n := float64(len(points))
	return image.Pt(int(float64(sx)/n), int(float64(sy)/n))
}

// Reverse возвращает копию в обратном порядке.
func Reverse(points []image.Point) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// Translate возвращает копию, сдвинутую так, что base становится началом координат.
func Translate(points []image.Point, base image.Point) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = p.Sub(base)
	}
	return out
}

// SignedArea удвоенная ориентированная площадь (формула шнурования).
func SignedArea(points []image.Point) int64 {
	var sum int64
	n := len(points)
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	return sum
}

func ToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
