package classifier

import (
	"fmt"
	"image"
	"math"
	"sort"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// CornerLocator ищет четыре вершины упрощённого контура, образующие
// максимальный почти прямоугольный четырёхугольник.
type CornerLocator struct {
	cfg Config
}

// NewCornerLocator создаёт поисковик углов
func NewCornerLocator(cfg Config) *CornerLocator {
	return &CornerLocator{cfg: cfg}
}

// EstimateOrigin оценивает опорную точку внутри детали как центр масс вершин
// упрощённого контура, прижатый к границам изображения, если они заданы.
func EstimateOrigin(simplified []image.Point, extent image.Rectangle) image.Point {
	o := geometry.Centroid(simplified)
	if extent.Empty() {
		return o
	}
	o.X = min(max(o.X, extent.Min.X), extent.Max.X-1)
	o.Y = min(max(o.Y, extent.Min.Y), extent.Max.Y-1)
	return o
}

// Locate перебирает упорядоченные четвёрки вершин a->b->c->d->a.
// Внутренние углы при b, c, d должны быть прямыми с допуском RightAngleTolerance,
// угол между соседними вершинами, видимыми из origin, прямым с допуском
// OriginAngleTolerance. Из прошедших выбирается четвёрка с наибольшим
// произведением сторон при d. Сложность O(n^4) по числу вершин.
func (l *CornerLocator) Locate(simplified []image.Point, origin image.Point) ([entity.EdgeCount]image.Point, error) {
	var best [entity.EdgeCount]image.Point
	n := len(simplified)
	if n < entity.EdgeCount {
		return best, apperrors.NewInvalidPieceGeometry(fmt.Sprintf("simplified boundary has %d vertices", n), nil)
	}

	right := func(middle, prev, next image.Point) bool {
		a, ok := geometry.InteriorAngleDeg(middle, prev, next)
		return ok && math.Abs(a-90) <= l.cfg.RightAngleTolerance
	}
	fromOrigin := func(p, q image.Point) bool {
		a, ok := geometry.InteriorAngleDeg(origin, p, q)
		return ok && math.Abs(a-90) <= l.cfg.OriginAngleTolerance
	}

	greatest := 0.0
	iterations := 0
	// каждый рассмотренный кандидат на любом уровне перебора расходует бюджет
	exhausted := func() bool {
		iterations++
		return l.cfg.MaxIterations > 0 && iterations > l.cfg.MaxIterations
	}
	budgetErr := func() error {
		return apperrors.NewSearchBudgetExceeded(
			fmt.Sprintf("corner search exceeded %d iterations on %d vertices", l.cfg.MaxIterations, n), nil)
	}

	for b := 0; b < n; b++ {
		if exhausted() {
			return best, budgetErr()
		}
		for a := 0; a < n; a++ {
			if a == b {
				continue
			}
			if exhausted() {
				return best, budgetErr()
			}
			pa, pb := simplified[a], simplified[b]
			if !fromOrigin(pa, pb) {
				continue
			}
			for c := 0; c < n; c++ {
				if c == a || c == b {
					continue
				}
				if exhausted() {
					return best, budgetErr()
				}
				pc := simplified[c]
				if !right(pb, pa, pc) || !fromOrigin(pb, pc) {
					continue
				}
				for d := 0; d < n; d++ {
					if d == a || d == b || d == c {
						continue
					}
					if exhausted() {
						return best, budgetErr()
					}
					pd := simplified[d]
					if !right(pc, pb, pd) || !right(pd, pc, pa) {
						continue
					}
					if !fromOrigin(pc, pd) || !fromOrigin(pd, pa) {
						continue
					}
					area := geometry.RectangleArea(pd, pc, pa)
					if area > greatest {
						greatest = area
						best = [entity.EdgeCount]image.Point{pa, pb, pc, pd}
					}
				}
			}
		}
	}

	if greatest == 0 {
		return best, apperrors.NewInvalidPieceGeometry("no valid corners", nil)
	}
	return best, nil
}

// FindCornerIndexes находит индексы угловых точек в исходном контуре:
// сначала точное совпадение, иначе ближайшая точка.
func FindCornerIndexes(boundary []image.Point, corners [entity.EdgeCount]image.Point) ([entity.EdgeCount]int, error) {
	var idx [entity.EdgeCount]int
	seen := make(map[int]bool, entity.EdgeCount)
	for i, c := range corners {
		found := -1
		for j, p := range boundary {
			if p == c {
				found = j
				break
			}
		}
		if found < 0 {
			bestDist := math.Inf(1)
			for j, p := range boundary {
				if d := geometry.Distance(p, c); d < bestDist {
					bestDist = d
					found = j
				}
			}
		}
		if found < 0 || seen[found] {
			return idx, apperrors.NewInvalidPieceGeometry(fmt.Sprintf("corner %v has no distinct boundary point", c), nil)
		}
		seen[found] = true
		idx[i] = found
	}
	return idx, nil
}

// OrderCorners упорядочивает индексы по обходу контура и начинает с верхнего
// правого угла относительно origin. При каноническом обходе дальше идут
// верхний левый, нижний левый и нижний правый.
func OrderCorners(boundary []image.Point, idx [entity.EdgeCount]int, origin image.Point) entity.CornerIndexes {
	sorted := idx[:]
	sort.Ints(sorted)

	start := 0
	bestScore := math.MinInt
	for k, i := range sorted {
		rel := boundary[i].Sub(origin)
		if score := rel.X - rel.Y; score > bestScore {
			bestScore = score
			start = k
		}
	}

	var out entity.CornerIndexes
	for k := range out {
		out[k] = sorted[(start+k)%entity.EdgeCount]
	}
	return out
}
