package entity

import "image"

// Side одна из четырёх дуг контура между соседними углами.
// Points принадлежат вызывающему: Side всегда строится копией из Piece.
type Side struct {
	Index    int           // позиция стороны 0..3
	Points   []image.Point // от угла Index до угла Index+1 включительно
	Type     EdgeType      // классификация
	Reversed bool          // точки идут против порядка обхода контура
}

// First первая точка стороны
func (s Side) First() image.Point {
	return s.Points[0]
}

// Last последняя точка стороны
func (s Side) Last() image.Point {
	return s.Points[len(s.Points)-1]
}

// Len количество точек
func (s Side) Len() int {
	return len(s.Points)
}

// Reverse возвращает копию стороны с обратным порядком точек
func (s Side) Reverse() Side {
	pts := make([]image.Point, len(s.Points))
	for i, p := range s.Points {
		pts[len(s.Points)-1-i] = p
	}
	s.Points = pts
	s.Reversed = !s.Reversed
	return s
}

// Clone глубокая копия
func (s Side) Clone() Side {
	s.Points = append([]image.Point(nil), s.Points...)
	return s
}
