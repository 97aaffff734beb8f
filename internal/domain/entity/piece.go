package entity

import (
	"fmt"
	"image"

	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// MinBoundaryPoints минимальная длина контура детали
const MinBoundaryPoints = 4

// CornerIndexes индексы четырёх углов в контуре, в циклическом порядке обхода
type CornerIndexes [EdgeCount]int

// Gap количество шагов по контуру от угла i до угла i+1
func (c CornerIndexes) Gap(i, n int) int {
	next := c[(i+1)%EdgeCount]
	return ((next-c[i])%n + n) % n
}

// Validate проверяет, что углы делят контур длины n на 4 непустые непересекающиеся дуги.
func (c CornerIndexes) Validate(n int) error {
	for i, idx := range c {
		if idx < 0 || idx >= n {
			return apperrors.NewDegenerateEdge(fmt.Sprintf("corner %d index %d out of range [0,%d)", i, idx, n), nil)
		}
	}
	total := 0
	for i := range c {
		gap := c.Gap(i, n)
		if gap == 0 {
			return apperrors.NewDegenerateEdge(fmt.Sprintf("corners %d and %d coincide", i, (i+1)%EdgeCount), nil)
		}
		total += gap
	}
	if total != n {
		return apperrors.NewDegenerateEdge(fmt.Sprintf("corners %v are not in boundary order", c), nil)
	}
	return nil
}

// NewBoundary приводит точки к инварианту контура: без соседних дублей
// (включая пару последняя-первая), не менее четырёх точек, обход в каноническом
// направлении TR -> TL -> BL -> BR (отрицательная площадь в координатах изображения).
func NewBoundary(points []image.Point) ([]image.Point, error) {
	out := make([]image.Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	if len(out) < MinBoundaryPoints {
		return nil, apperrors.NewValidationError(fmt.Sprintf("boundary has %d distinct points, need at least %d", len(out), MinBoundaryPoints), nil)
	}
	if geometry.SignedArea(out) > 0 {
		out = geometry.Reverse(out)
	}
	return out, nil
}

// Piece деталь пазла: контур, изображение, опорная точка, углы и типы сторон
type Piece struct {
	id         string
	boundary   []image.Point
	img        image.Image
	origin     image.Point
	corners    CornerIndexes
	hasCorners bool
	types      [EdgeCount]EdgeType
}

// NewPiece создаёт неклассифицированную деталь из сырого контура
func NewPiece(id string, points []image.Point, img image.Image) (*Piece, error) {
	boundary, err := NewBoundary(points)
	if err != nil {
		return nil, err
	}
	return &Piece{
		id:       id,
		boundary: boundary,
		img:      img,
		origin:   geometry.Centroid(boundary),
	}, nil
}

// RestorePiece восстанавливает деталь из хранилища без переупорядочивания контура.
// corners == nil означает, что деталь ещё не классифицирована.
func RestorePiece(id string, boundary []image.Point, img image.Image, origin image.Point, corners *CornerIndexes, types [EdgeCount]EdgeType) (*Piece, error) {
	if len(boundary) < MinBoundaryPoints {
		return nil, apperrors.NewValidationError(fmt.Sprintf("boundary has %d points, need at least %d", len(boundary), MinBoundaryPoints), nil)
	}
	for i := range boundary {
		if boundary[i] == boundary[(i+1)%len(boundary)] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("boundary points %d and %d are identical", i, (i+1)%len(boundary)), nil)
		}
	}

	p := &Piece{
		id:       id,
		boundary: append([]image.Point(nil), boundary...),
		img:      img,
		origin:   origin,
	}
	if corners != nil {
		if err := p.SetCorners(*corners); err != nil {
			return nil, err
		}
		for i, t := range types {
			if err := p.SetEdgeType(i, t); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// ID идентификатор детали
func (p *Piece) ID() string {
	return p.id
}

// Boundary копия контура
func (p *Piece) Boundary() []image.Point {
	return append([]image.Point(nil), p.boundary...)
}

// Len количество точек контура
func (p *Piece) Len() int {
	return len(p.boundary)
}

// Point точка контура по индексу с учётом цикличности
func (p *Piece) Point(i int) image.Point {
	n := len(p.boundary)
	return p.boundary[((i%n)+n)%n]
}

// Image изображение детали (может быть nil)
func (p *Piece) Image() image.Image {
	return p.img
}

// SetImage заменяет изображение, например после поворота
func (p *Piece) SetImage(img image.Image) {
	p.img = img
}

// Origin опорная точка внутри детали
func (p *Piece) Origin() image.Point {
	return p.origin
}

// SetOrigin задаёт опорную точку
func (p *Piece) SetOrigin(origin image.Point) {
	p.origin = origin
}

// Bounds ограничивающий прямоугольник контура
func (p *Piece) Bounds() image.Rectangle {
	r := image.Rectangle{Min: p.boundary[0], Max: p.boundary[0]}
	for _, pt := range p.boundary[1:] {
		r.Min.X = min(r.Min.X, pt.X)
		r.Min.Y = min(r.Min.Y, pt.Y)
		r.Max.X = max(r.Max.X, pt.X)
		r.Max.Y = max(r.Max.Y, pt.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// Classified true, если углы уже найдены
func (p *Piece) Classified() bool {
	return p.hasCorners
}

// Corners индексы углов и признак их наличия
func (p *Piece) Corners() (CornerIndexes, bool) {
	return p.corners, p.hasCorners
}

// SetCorners задаёт углы; стороны пересчитываются при следующем обращении
func (p *Piece) SetCorners(c CornerIndexes) error {
	if err := c.Validate(len(p.boundary)); err != nil {
		return err
	}
	p.corners = c
	p.hasCorners = true
	return nil
}

// Corner точка угла i
func (p *Piece) Corner(i int) image.Point {
	return p.boundary[p.corners[i%EdgeCount]]
}

// EdgeType тип стороны i
func (p *Piece) EdgeType(i int) EdgeType {
	return p.types[i]
}

// EdgeTypes типы всех сторон
func (p *Piece) EdgeTypes() [EdgeCount]EdgeType {
	return p.types
}

// SetEdgeType задаёт тип стороны i
func (p *Piece) SetEdgeType(i int, t EdgeType) error {
	if i < 0 || i >= EdgeCount {
		return apperrors.NewValidationError(fmt.Sprintf("edge index %d out of range", i), nil)
	}
	if !t.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid edge type %d", int(t)), nil)
	}
	p.types[i] = t
	return nil
}

// Side строит сторону i заново из контура и углов.
func (p *Piece) Side(i int) (Side, error) {
	if i < 0 || i >= EdgeCount {
		return Side{}, apperrors.NewValidationError(fmt.Sprintf("edge index %d out of range", i), nil)
	}
	sides, err := p.Sides()
	if err != nil {
		return Side{}, err
	}
	return sides[i], nil
}

// Sides все четыре стороны; пересчитываются при каждом вызове, поэтому
// всегда соответствуют текущему контуру и углам.
func (p *Piece) Sides() ([EdgeCount]Side, error) {
	var sides [EdgeCount]Side
	if !p.hasCorners {
		return sides, apperrors.NewValidationError(fmt.Sprintf("piece %s is not classified", p.id), nil)
	}
	split, err := SplitBoundary(p.boundary, p.corners)
	if err != nil {
		return sides, err
	}
	for i := range sides {
		sides[i] = Side{Index: i, Points: split[i], Type: p.types[i]}
	}
	return sides, nil
}

// Translate сдвигает контур и опорную точку. Изображение не меняется.
func (p *Piece) Translate(d image.Point) {
	for i := range p.boundary {
		p.boundary[i] = p.boundary[i].Add(d)
	}
	p.origin = p.origin.Add(d)
}

// Rotate поворачивает контур вокруг опорной точки с округлением до целых.
// Совпавшие после округления соседние точки схлопываются, индексы углов
// пересчитываются. Изображение поворачивается отдельно (см. vision.RotateImage).
func (p *Piece) Rotate(radians float64) error {
	rotated := geometry.RotationAbout(p.origin, radians).ApplyAll(p.boundary)

	remap := make([]int, len(rotated))
	compact := make([]image.Point, 0, len(rotated))
	for i, pt := range rotated {
		if len(compact) > 0 && compact[len(compact)-1] == pt {
			remap[i] = len(compact) - 1
			continue
		}
		compact = append(compact, pt)
		remap[i] = len(compact) - 1
	}
	if len(compact) > 1 && compact[len(compact)-1] == compact[0] {
		last := len(compact) - 1
		compact = compact[:last]
		for i := range remap {
			if remap[i] == last {
				remap[i] = 0
			}
		}
	}
	if len(compact) < MinBoundaryPoints {
		return apperrors.NewValidationError("rotation collapsed the boundary", nil)
	}

	corners := p.corners
	if p.hasCorners {
		for i := range corners {
			corners[i] = remap[corners[i]]
		}
		if err := corners.Validate(len(compact)); err != nil {
			return fmt.Errorf("rotate piece %s: %w", p.id, err)
		}
	}

	p.boundary = compact
	p.corners = corners
	return nil
}

// Clone глубокая копия контура; изображение разделяется (оно не изменяется на месте)
func (p *Piece) Clone() *Piece {
	c := *p
	c.boundary = append([]image.Point(nil), p.boundary...)
	return &c
}
