package matcher

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"jigsaw-bot/internal/geometry"
)

// CouplingDistance дискретное расстояние Фреше между кривыми a и b:
// минимальный по всем монотонным сопоставлениям точек максимальный шаг.
// Таблица ca[i][j] считается построчно, хранятся только две строки.
// Для пустой кривой возвращается +Inf.
func CouplingDistance(a, b []image.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}

	prev := make([]float64, len(b))
	cur := make([]float64, len(b))

	prev[0] = geometry.Distance(a[0], b[0])
	for j := 1; j < len(b); j++ {
		prev[j] = math.Max(prev[j-1], geometry.Distance(a[0], b[j]))
	}

	for i := 1; i < len(a); i++ {
		cur[0] = math.Max(prev[0], geometry.Distance(a[i], b[0]))
		for j := 1; j < len(b); j++ {
			reach := math.Min(prev[j], math.Min(cur[j-1], prev[j-1]))
			cur[j] = math.Max(reach, geometry.Distance(a[i], b[j]))
		}
		prev, cur = cur, prev
	}
	return prev[len(b)-1]
}

// nearestDistances для каждой точки a расстояние до ближайшей точки b
func nearestDistances(a, b []image.Point) []float64 {
	out := make([]float64, len(a))
	for i, p := range a {
		best := math.Inf(1)
		for _, q := range b {
			if d := geometry.Distance(p, q); d < best {
				best = d
			}
		}
		out[i] = best
	}
	return out
}

// Hausdorff направленное расстояние Хаусдорфа от a до b:
// максимум по точкам a расстояния до ближайшей точки b.
func Hausdorff(a, b []image.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	return floats.Max(nearestDistances(a, b))
}

// AverageMinDistance среднее по точкам a расстояние до ближайшей точки b
func AverageMinDistance(a, b []image.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(nearestDistances(a, b), nil)
}
