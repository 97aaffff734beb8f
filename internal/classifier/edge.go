package classifier

import (
	"fmt"
	"image"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// EdgeClassification результат классификации одной стороны с диагностикой
type EdgeClassification struct {
	Type      entity.EdgeType
	Bias      int     // сумма знаков отклонившихся точек
	Deviating int     // сколько точек превысило порог
	Threshold float64 // порог отклонения от хорды
}

// ClassifyEdge определяет тип стороны по точкам, отклонившимся от хорды
// между её углами. Каждая такая точка добавляет +1 или -1 в зависимости от
// стороны хорды. Малый |перевес| означает плоскую сторону, перевес в сторону
// опорной точки впадину, в обратную выступ.
func ClassifyEdge(points []image.Point, origin image.Point, cfg Config) (EdgeClassification, error) {
	if len(points) < 2 {
		return EdgeClassification{}, apperrors.NewDegenerateEdge(fmt.Sprintf("side has %d points", len(points)), nil)
	}
	first, last := points[0], points[len(points)-1]
	if first == last {
		return EdgeClassification{}, apperrors.NewDegenerateEdge(fmt.Sprintf("side chord has zero length at %v", first), nil)
	}

	originSide := geometry.SideOfLine(first, last, origin)
	if originSide == 0 {
		return EdgeClassification{}, apperrors.NewDegenerateEdge(fmt.Sprintf("origin %v lies on the chord %v-%v", origin, first, last), nil)
	}

	res := EdgeClassification{
		Threshold: geometry.DistanceFromLine(origin, first, last) * cfg.StrayFactor,
	}
	for _, p := range points {
		if geometry.DistanceFromLine(p, first, last) <= res.Threshold {
			continue
		}
		res.Deviating++
		res.Bias += geometry.SideOfLine(first, last, p)
	}

	switch {
	case abs(res.Bias) < cfg.BiasThreshold:
		res.Type = entity.EdgeFlat
	case sign(res.Bias) == originSide:
		res.Type = entity.EdgeIn
	default:
		res.Type = entity.EdgeOut
	}
	return res, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
