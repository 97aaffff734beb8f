package geometry

import "image"

// SimplifyClosed упрощает замкнутый контур алгоритмом Дугласа-Пекера с допуском epsilon.
// Контур делится на две дуги: от первой точки до самой удалённой от неё и обратно,
// каждая упрощается отдельно. Результат подмножество исходных точек в исходном порядке.
func SimplifyClosed(points []image.Point, epsilon float64) []image.Point {
	n := len(points)
	if n <= 3 || epsilon <= 0 {
		return append([]image.Point(nil), points...)
	}

	far := 0
	best := -1.0
	for i := 1; i < n; i++ {
		if d := Distance(points[0], points[i]); d > best {
			best = d
			far = i
		}
	}

	keep := make([]bool, n+1)
	keep[0] = true
	keep[far] = true
	keep[n] = true

	// Индекс n обозначает повторную первую точку, чтобы вторая дуга замкнулась.
	at := func(i int) image.Point { return points[i%n] }
	dpSimplify(at, 0, far, epsilon, keep)
	dpSimplify(at, far, n, epsilon, keep)

	out := make([]image.Point, 0, 16)
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, points[i])
		}
	}
	return out
}

func dpSimplify(at func(int) image.Point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a, b := at(start), at(end)
	for i := start + 1; i < end; i++ {
		d := segmentDistance(at(i), a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		keep[index] = true
		dpSimplify(at, start, index, eps, keep)
		dpSimplify(at, index, end, eps, keep)
	}
}

// segmentDistance расстояние от p до отрезка ab.
func segmentDistance(p, a, b image.Point) float64 {
	vx, vy := float64(b.X-a.X), float64(b.Y-a.Y)
	wx, wy := float64(p.X-a.X), float64(p.Y-a.Y)
	l2 := vx*vx + vy*vy
	if l2 == 0 {
		return Distance(p, a)
	}
	t := (wx*vx + wy*vy) / l2
	switch {
	case t <= 0:
		return Distance(p, a)
	case t >= 1:
		return Distance(p, b)
	}
	return DistanceFromLine(p, a, b)
}
