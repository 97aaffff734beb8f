package matcher

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/geometry"
)

func line(from, to image.Point, step int) []image.Point {
	var pts []image.Point
	n := int(geometry.Distance(from, to)) / step
	for k := 0; k <= n; k++ {
		pts = append(pts, image.Pt(from.X+(to.X-from.X)*k/n, from.Y+(to.Y-from.Y)*k/n))
	}
	return pts
}

func randomCurve(r *rand.Rand, n int) []image.Point {
	pts := make([]image.Point, n)
	for i := range pts {
		pts[i] = image.Pt(i*4+r.Intn(5), r.Intn(40)-20)
	}
	return pts
}

func TestCouplingDistance_Identical(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		a := randomCurve(r, 30+i)
		require.Zero(t, CouplingDistance(a, a))
	}
}

func TestCouplingDistance_ReversalSymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		a := randomCurve(r, 10+r.Intn(30))
		b := randomCurve(r, 10+r.Intn(30))
		require.Equal(t, CouplingDistance(a, b), CouplingDistance(geometry.Reverse(a), geometry.Reverse(b)))
	}
}

func TestCouplingDistance_ParallelOffset(t *testing.T) {
	a := line(image.Pt(0, 0), image.Pt(200, 0), 5)
	b := line(image.Pt(0, 50), image.Pt(200, 50), 5)

	require.InDelta(t, 50, CouplingDistance(a, b), 1e-9)
	require.InDelta(t, 50, Hausdorff(a, b), 1e-9)
	require.InDelta(t, 50, AverageMinDistance(a, b), 1e-9)
}

func TestCouplingDistance_Endpoints(t *testing.T) {
	a := []image.Point{{0, 0}, {10, 0}, {20, 0}}
	b := []image.Point{{0, 0}, {10, 0}, {20, 30}}

	// последняя пара точек всегда сопоставлена
	require.InDelta(t, 30, CouplingDistance(a, b), 1e-9)
	require.InDelta(t, 10, AverageMinDistance(a, b), 1e-9)
	require.InDelta(t, 30, Hausdorff(a, b), 1e-9)
}

func TestCouplingDistance_SingleRowAndColumn(t *testing.T) {
	a := []image.Point{{0, 0}}
	b := []image.Point{{3, 4}, {0, 10}}
	require.InDelta(t, 10, CouplingDistance(a, b), 1e-9)
	require.InDelta(t, 10, CouplingDistance(b, a), 1e-9)
}

func TestDistances_Empty(t *testing.T) {
	a := []image.Point{{0, 0}}
	require.True(t, math.IsInf(CouplingDistance(nil, a), 1))
	require.True(t, math.IsInf(Hausdorff(a, nil), 1))
	require.True(t, math.IsInf(AverageMinDistance(nil, nil), 1))
}

func TestHausdorff_Directed(t *testing.T) {
	a := []image.Point{{0, 0}, {10, 0}}
	b := []image.Point{{0, 0}, {10, 0}, {50, 0}}

	require.Zero(t, Hausdorff(a, b))
	require.InDelta(t, 40, Hausdorff(b, a), 1e-9)
}
