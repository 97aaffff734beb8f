package geometry

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Affine аффинное преобразование 2x3.
// [a b tx]
// [c d ty]
type Affine struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity тождественное преобразование.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translation сдвиг на (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation поворот вокруг начала координат.
func Rotation(radians float64) Affine {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Affine{A: cos, B: -sin, C: sin, D: cos}
}

// RotationAbout поворот вокруг точки center.
func RotationAbout(center image.Point, radians float64) Affine {
	cx, cy := float64(center.X), float64(center.Y)
	return Translation(cx, cy).Compose(Rotation(radians)).Compose(Translation(-cx, -cy))
}

// Compose возвращает t * other: сначала other, затем t.
func (t Affine) Compose(other Affine) Affine {
	return Affine{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Inverse обратное преобразование, если оно существует.
func (t Affine) Inverse() (Affine, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	inv := 1.0 / det
	return Affine{
		A:  t.D * inv,
		B:  -t.B * inv,
		TX: (t.B*t.TY - t.D*t.TX) * inv,
		C:  -t.C * inv,
		D:  t.A * inv,
		TY: (t.C*t.TX - t.A*t.TY) * inv,
	}, true
}

// Apply применяет преобразование к точке с округлением до целых.
func (t Affine) Apply(p image.Point) image.Point {
	x, y := float64(p.X), float64(p.Y)
	return image.Pt(
		int(math.Round(t.A*x+t.B*y+t.TX)),
		int(math.Round(t.C*x+t.D*y+t.TY)),
	)
}

// ApplyAll применяет преобразование ко всем точкам одним матричным умножением.
// Входной срез не изменяется.
func (t Affine) ApplyAll(points []image.Point) []image.Point {
	if len(points) == 0 {
		return nil
	}

	n := len(points)
	hom := mat.NewDense(3, n, nil)
	for i, p := range points {
		hom.Set(0, i, float64(p.X))
		hom.Set(1, i, float64(p.Y))
		hom.Set(2, i, 1)
	}

	m := mat.NewDense(2, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
	})

	var res mat.Dense
	res.Mul(m, hom)

	out := make([]image.Point, n)
	for i := range out {
		out[i] = image.Pt(int(math.Round(res.At(0, i))), int(math.Round(res.At(1, i))))
	}
	return out
}

// Matrix возвращает преобразование в виде массива 2x3 (формат warpAffine).
func (t Affine) Matrix() [2][3]float64 {
	return [2][3]float64{
		{t.A, t.B, t.TX},
		{t.C, t.D, t.TY},
	}
}
