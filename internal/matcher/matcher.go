package matcher

import (
	"fmt"
	"image"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// Comparison результат сравнения двух сторон вместе с нормализованными кривыми
type Comparison struct {
	Result   entity.MatchResult
	In       NormalizedSide
	Out      NormalizedSide
	Warnings []string
}

// Matcher сравнивает стороны. Не хранит состояния между вызовами,
// безопасен для использования из нескольких горутин.
type Matcher struct {
	cfg        Config
	normalizer *Normalizer
}

// New создаёт сопоставитель
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg, normalizer: NewNormalizer(cfg.RotationTolerance)}
}

// Config текущие настройки
func (m *Matcher) Config() Config {
	return m.cfg
}

// Normalizer нормализатор с допуском из настроек
func (m *Matcher) Normalizer() *Normalizer {
	return m.normalizer
}

// Score оценивает две нормализованные кривые. Кривая out обходится в обратном
// порядке, чтобы обе проходились в одном геометрическом направлении.
func (m *Matcher) Score(in, out []image.Point) (entity.MatchResult, error) {
	if len(in) == 0 || len(out) == 0 {
		return entity.MatchResult{}, apperrors.NewDegenerateEdge(
			fmt.Sprintf("cannot score curves of %d and %d points", len(in), len(out)), nil)
	}

	reversed := geometry.Reverse(out)
	res := entity.MatchResult{
		CouplingDistance: CouplingDistance(in, reversed),
		Secondary:        m.cfg.Secondary,
	}
	switch m.cfg.Secondary {
	case entity.MeasureHausdorff:
		res.SecondaryDistance = Hausdorff(in, reversed)
	default:
		res.Secondary = entity.MeasureAverage
		res.SecondaryDistance = AverageMinDistance(in, reversed)
	}
	res.Match = res.CouplingDistance <= m.cfg.CouplingThreshold && res.SecondaryDistance <= m.cfg.SecondaryThreshold
	return res, nil
}

// MatchSides нормализует впадину и выступ относительно опорных точек их деталей
// и оценивает их. Переданные стороны не изменяются.
func (m *Matcher) MatchSides(in entity.Side, inOrigin image.Point, out entity.Side, outOrigin image.Point) (*Comparison, error) {
	nin, err := m.normalizer.Normalize(in, inOrigin, entity.EdgeIn)
	if err != nil {
		return nil, fmt.Errorf("normalize in side: %w", err)
	}
	nout, err := m.normalizer.Normalize(out, outOrigin, entity.EdgeOut)
	if err != nil {
		return nil, fmt.Errorf("normalize out side: %w", err)
	}

	res, err := m.Score(nin.Points, nout.Points)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{Result: res, In: nin, Out: nout}
	for _, w := range []error{nin.Warning, nout.Warning} {
		if w != nil {
			cmp.Warnings = append(cmp.Warnings, w.Error())
		}
	}
	return cmp, nil
}

// Pair определяет роли сторон: возвращает впадину и выступ.
// swapped == true, если впадиной оказалась вторая сторона.
// Плоские стороны и стороны одного типа не сопоставляются.
func Pair(a, b entity.Side) (in, out entity.Side, swapped bool, err error) {
	switch {
	case a.Type == entity.EdgeFlat:
		return in, out, false, apperrors.NewIncompatibleEdges("first edge is flat", nil)
	case b.Type == entity.EdgeFlat:
		return in, out, false, apperrors.NewIncompatibleEdges("second edge is flat", nil)
	case a.Type == b.Type:
		return in, out, false, apperrors.NewIncompatibleEdges(fmt.Sprintf("edges are both %s", a.Type), nil)
	}
	if a.Type == entity.EdgeIn {
		return a, b, false, nil
	}
	return b, a, true, nil
}
