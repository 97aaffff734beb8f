package classifier

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
)

// chordWithBump хорда (0,0)-(100,0) с точками через 5 пикселей,
// на участке x=35..65 точки смещены по y на dy.
func chordWithBump(dy int) []image.Point {
	var pts []image.Point
	for x := 0; x <= 100; x += 5 {
		y := 0
		if x >= 35 && x <= 65 {
			y = dy
		}
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}

func TestClassifyEdge(t *testing.T) {
	origin := image.Pt(50, 60)

	tests := []struct {
		name string
		dy   int
		want entity.EdgeType
	}{
		{"dent towards origin", 40, entity.EdgeIn},
		{"bump away from origin", -40, entity.EdgeOut},
		{"straight", 0, entity.EdgeFlat},
		{"noise under threshold", 8, entity.EdgeFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ClassifyEdge(chordWithBump(tt.dy), origin, DefaultConfig())
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Type)
			require.InDelta(t, 12.0, res.Threshold, 1e-9)
		})
	}
}

func TestClassifyEdge_BiasCounts(t *testing.T) {
	res, err := ClassifyEdge(chordWithBump(40), image.Pt(50, 60), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 7, res.Deviating)
	require.Equal(t, 7, res.Bias)
}

func TestClassifyEdge_SmallBumpIsFlat(t *testing.T) {
	pts := chordWithBump(0)
	pts[8] = image.Pt(40, 30)
	pts[9] = image.Pt(45, 30)

	res, err := ClassifyEdge(pts, image.Pt(50, 60), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 2, res.Bias)
	require.Equal(t, entity.EdgeFlat, res.Type)
}

func TestClassifyEdge_Degenerate(t *testing.T) {
	cfg := DefaultConfig()

	_, err := ClassifyEdge([]image.Point{{0, 0}}, image.Pt(5, 5), cfg)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeDegenerateEdge))

	_, err = ClassifyEdge([]image.Point{{0, 0}, {10, 10}, {0, 0}}, image.Pt(5, 5), cfg)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeDegenerateEdge))

	_, err = ClassifyEdge(chordWithBump(0), image.Pt(50, 0), cfg)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeDegenerateEdge))
}
