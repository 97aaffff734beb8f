package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitBoundary_CountsSumToLenPlusFour(t *testing.T) {
	boundary := squareBoundary()
	tests := []CornerIndexes{
		{0, 20, 40, 60},
		{60, 0, 20, 40},
		{5, 6, 7, 8},
		{79, 0, 1, 2},
		{3, 33, 47, 78},
	}

	for _, c := range tests {
		sides, err := SplitBoundary(boundary, c)
		require.NoError(t, err)

		total := 0
		for i, s := range sides {
			require.GreaterOrEqual(t, len(s), 2)
			require.Equal(t, boundary[c[i]], s[0], "side %d starts on its corner", i)
			require.Equal(t, boundary[c[(i+1)%4]], s[len(s)-1], "side %d ends on next corner", i)
			total += len(s)
		}
		require.Equal(t, len(boundary)+4, total, "%v", c)
	}
}

func TestSplitBoundary_RejectsMalformedCorners(t *testing.T) {
	_, err := SplitBoundary(squareBoundary(), CornerIndexes{0, 40, 20, 60})
	require.Error(t, err)
}

func TestSplitBoundary_StartInsideArc(t *testing.T) {
	boundary := []image.Point{{1, 0}, {0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}}
	sides, err := SplitBoundary(boundary, CornerIndexes{7, 1, 3, 5})
	require.NoError(t, err)
	require.Equal(t, []image.Point{{2, 0}, {1, 0}, {0, 0}}, sides[0])
	require.Equal(t, []image.Point{{0, 0}, {0, 1}, {0, 2}}, sides[1])
	require.Equal(t, []image.Point{{0, 2}, {1, 2}, {2, 2}}, sides[2])
	require.Equal(t, []image.Point{{2, 2}, {2, 1}, {2, 0}}, sides[3])
}
