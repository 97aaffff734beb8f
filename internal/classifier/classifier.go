package classifier

import (
	"fmt"
	"image"

	"jigsaw-bot/internal/domain/entity"
)

// Result итог классификации детали
type Result struct {
	Origin  image.Point
	Corners entity.CornerIndexes
	Edges   [entity.EdgeCount]EdgeClassification
}

// Types типы сторон в порядке top, left, bottom, right
func (r *Result) Types() [entity.EdgeCount]entity.EdgeType {
	var t [entity.EdgeCount]entity.EdgeType
	for i, e := range r.Edges {
		t[i] = e.Type
	}
	return t
}

// Classifier выполняет фазу классификации детали целиком
type Classifier struct {
	cfg     Config
	locator *CornerLocator
}

// New создаёт классификатор
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg, locator: NewCornerLocator(cfg)}
}

// Config текущие настройки
func (c *Classifier) Config() Config {
	return c.cfg
}

// Analyze находит опорную точку, углы и типы сторон, не изменяя деталь.
// simplified упрощённый контур той же детали (см. port.Simplifier).
func (c *Classifier) Analyze(piece *entity.Piece, simplified []image.Point) (*Result, error) {
	extent := piece.Bounds()
	if img := piece.Image(); img != nil {
		extent = img.Bounds()
	}
	origin := EstimateOrigin(simplified, extent)

	points, err := c.locator.Locate(simplified, origin)
	if err != nil {
		return nil, fmt.Errorf("piece %s: %w", piece.ID(), err)
	}

	boundary := piece.Boundary()
	idx, err := FindCornerIndexes(boundary, points)
	if err != nil {
		return nil, fmt.Errorf("piece %s: %w", piece.ID(), err)
	}
	corners := OrderCorners(boundary, idx, origin)

	sides, err := entity.SplitBoundary(boundary, corners)
	if err != nil {
		return nil, fmt.Errorf("piece %s: %w", piece.ID(), err)
	}

	res := &Result{Origin: origin, Corners: corners}
	for i, side := range sides {
		edge, err := ClassifyEdge(side, origin, c.cfg)
		if err != nil {
			return nil, fmt.Errorf("piece %s %s side: %w", piece.ID(), entity.EdgeName(i), err)
		}
		res.Edges[i] = edge
	}
	return res, nil
}

// Classify выполняет Analyze и записывает результат в деталь.
// При ошибке деталь остаётся без изменений.
func (c *Classifier) Classify(piece *entity.Piece, simplified []image.Point) (*Result, error) {
	res, err := c.Analyze(piece, simplified)
	if err != nil {
		return nil, err
	}
	if err := piece.SetCorners(res.Corners); err != nil {
		return nil, err
	}
	piece.SetOrigin(res.Origin)
	for i, t := range res.Types() {
		if err := piece.SetEdgeType(i, t); err != nil {
			return nil, err
		}
	}
	return res, nil
}
