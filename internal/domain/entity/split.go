package entity

import "image"

// SplitBoundary делит контур на четыре стороны за один проход.
// Обход начинается с угла corners[0]; каждый угол попадает в обе соседние
// стороны, поэтому суммарно точек len(boundary)+4.
func SplitBoundary(boundary []image.Point, corners CornerIndexes) ([EdgeCount][]image.Point, error) {
	var sides [EdgeCount][]image.Point
	n := len(boundary)
	if err := corners.Validate(n); err != nil {
		return sides, err
	}

	for i := range sides {
		sides[i] = make([]image.Point, 0, corners.Gap(i, n)+1)
	}

	cur := 0
	sides[0] = append(sides[0], boundary[corners[0]])
	for k := 1; k <= n; k++ {
		idx := (corners[0] + k) % n
		p := boundary[idx]
		switch {
		case k == n:
			sides[EdgeCount-1] = append(sides[EdgeCount-1], p)
		case cur < EdgeCount-1 && idx == corners[cur+1]:
			sides[cur] = append(sides[cur], p)
			cur++
			sides[cur] = append(sides[cur], p)
		default:
			sides[cur] = append(sides[cur], p)
		}
	}
	return sides, nil
}
