package matcher

import (
	"fmt"
	"image"
	"math"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// NormalizedSide копия точек стороны в канонической позе: хорда лежит на оси X,
// выступ или впадина направлены вверх (к отрицательным y).
// Впадина начинается в (0,0), выступ заканчивается в (0,0).
type NormalizedSide struct {
	Points    []image.Point
	Transform geometry.Affine // исходные координаты детали -> нормализованные
	Flipped   bool
	Warning   error // ambiguous_rotation, если выравнивание не прошло проверку
}

// First первая точка
func (n NormalizedSide) First() image.Point {
	return n.Points[0]
}

// Last последняя точка
func (n NormalizedSide) Last() image.Point {
	return n.Points[len(n.Points)-1]
}

// Normalizer выполняет повороты, сдвиги и отражение сторон.
// Не изменяет переданные точки.
type Normalizer struct {
	tolerance float64
}

// NewNormalizer создаёт нормализатор с допуском проверки выравнивания в градусах
func NewNormalizer(tolerance float64) *Normalizer {
	return &Normalizer{tolerance: tolerance}
}

// verticalAxis направление от опорной точки к середине хорды после поворота
var verticalAxis = image.Pt(0, 100)

// RotateToVertical сдвигает точки так, что origin становится началом координат,
// и поворачивает их вокруг него, чтобы середина хорды оказалась на положительной оси Y.
func RotateToVertical(points []image.Point, origin image.Point) ([]image.Point, geometry.Affine, error) {
	if err := checkChord(points); err != nil {
		return nil, geometry.Affine{}, err
	}

	rel := geometry.Translate(points, origin)
	mid := geometry.Midpoint(rel[0], rel[len(rel)-1])
	if mid == (image.Point{}) {
		return nil, geometry.Affine{}, apperrors.NewDegenerateEdge(fmt.Sprintf("chord midpoint coincides with origin %v", origin), nil)
	}

	phi := math.Atan2(float64(mid.Y), float64(mid.X))
	target := math.Atan2(float64(verticalAxis.Y), float64(verticalAxis.X))
	rot := geometry.Rotation(target - phi)

	t := rot.Compose(geometry.Translation(-float64(origin.X), -float64(origin.Y)))
	return rot.ApplyAll(rel), t, nil
}

// Alignment результат выравнивания хорды по оси X
type Alignment struct {
	Points    []image.Point
	Transform geometry.Affine
	Deviation float64 // отклонение последней точки от оси X, градусы
	Warning   error
}

// AlignOnMidpoint сдвигает середину хорды в начало координат и поворачивает
// точки так, чтобы хорда легла на ось X. Направление поворота определяется
// проверкой: после первой попытки последняя точка должна лежать под прямым
// углом к оси Y. Если нет, поворот выполняется в обратную сторону от исходных точек.
// Если не проходит и вторая попытка, возвращается лучший из вариантов и
// предупреждение ambiguous_rotation.
func (n *Normalizer) AlignOnMidpoint(points []image.Point) (Alignment, error) {
	if err := checkChord(points); err != nil {
		return Alignment{}, err
	}

	mid := geometry.Midpoint(points[0], points[len(points)-1])
	centered := geometry.Translate(points, mid)
	shift := geometry.Translation(-float64(mid.X), -float64(mid.Y))

	first := centered[0]
	angle := math.Atan2(math.Abs(float64(first.Y)), math.Abs(float64(first.X)))

	best := Alignment{Deviation: math.Inf(1)}
	for _, sign := range []float64{1, -1} {
		rot := geometry.Rotation(sign * angle)
		pts := rot.ApplyAll(centered)
		dev := axisDeviation(pts[len(pts)-1])
		if dev < best.Deviation {
			best = Alignment{Points: pts, Transform: rot.Compose(shift), Deviation: dev}
		}
		if dev <= n.tolerance {
			return best, nil
		}
	}

	best.Warning = apperrors.NewAmbiguousRotation(
		fmt.Sprintf("chord is %.2f degrees off axis after both rotation attempts", best.Deviation), nil)
	return best, nil
}

// axisDeviation насколько угол между осью Y и направлением на p отличается от прямого
func axisDeviation(p image.Point) float64 {
	a, ok := geometry.InteriorAngleDeg(image.Point{}, image.Pt(0, 10), p)
	if !ok {
		return 90
	}
	return math.Abs(a - 90)
}

// Flip поворот на 180 градусов вокруг начала координат (середины хорды после выравнивания)
func Flip(points []image.Point) ([]image.Point, geometry.Affine) {
	rot := geometry.Rotation(math.Pi)
	return rot.ApplyAll(points), rot
}

// Normalize приводит сторону к канонической позе для роли role (впадина или выступ).
// Выступ отражается, если после выравнивания его первая точка левее последней,
// впадина если правее. Затем впадина сдвигается первой точкой, выступ последней
// точкой в начало координат.
func (n *Normalizer) Normalize(side entity.Side, origin image.Point, role entity.EdgeType) (NormalizedSide, error) {
	if role != entity.EdgeIn && role != entity.EdgeOut {
		return NormalizedSide{}, apperrors.NewIncompatibleEdges(fmt.Sprintf("cannot normalize %s side", role), nil)
	}

	pts, t1, err := RotateToVertical(side.Points, origin)
	if err != nil {
		return NormalizedSide{}, err
	}
	aligned, err := n.AlignOnMidpoint(pts)
	if err != nil {
		return NormalizedSide{}, err
	}
	pts = aligned.Points
	transform := aligned.Transform.Compose(t1)

	first, last := pts[0], pts[len(pts)-1]
	flip := (role == entity.EdgeOut && first.X < last.X) || (role == entity.EdgeIn && first.X > last.X)
	if flip {
		var rot geometry.Affine
		pts, rot = Flip(pts)
		transform = rot.Compose(transform)
	}

	base := pts[0]
	if role == entity.EdgeOut {
		base = pts[len(pts)-1]
	}
	pts = geometry.Translate(pts, base)
	transform = geometry.Translation(-float64(base.X), -float64(base.Y)).Compose(transform)

	return NormalizedSide{
		Points:    pts,
		Transform: transform,
		Flipped:   flip,
		Warning:   aligned.Warning,
	}, nil
}

func checkChord(points []image.Point) error {
	if len(points) < 2 {
		return apperrors.NewDegenerateEdge(fmt.Sprintf("side has %d points", len(points)), nil)
	}
	if points[0] == points[len(points)-1] {
		return apperrors.NewDegenerateEdge(fmt.Sprintf("side chord has zero length at %v", points[0]), nil)
	}
	return nil
}
