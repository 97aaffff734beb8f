package app

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/geometry"
	"jigsaw-bot/internal/infrastructure/storage"
	"jigsaw-bot/internal/matcher"
	"jigsaw-bot/internal/testutil"
	"jigsaw-bot/internal/worker"
)

var (
	rightIn = [entity.EdgeCount]entity.EdgeType{entity.EdgeFlat, entity.EdgeFlat, entity.EdgeFlat, entity.EdgeIn}
	leftOut = [entity.EdgeCount]entity.EdgeType{entity.EdgeFlat, entity.EdgeOut, entity.EdgeFlat, entity.EdgeFlat}
	topOut  = [entity.EdgeCount]entity.EdgeType{entity.EdgeOut, entity.EdgeFlat, entity.EdgeFlat, entity.EdgeFlat}
)

// fakeSegmenter отдаёт заранее заданные наборы контуров по одному на вызов
type fakeSegmenter struct {
	mu    sync.Mutex
	calls [][]entity.SegmentedPiece
}

func (f *fakeSegmenter) Segment(ctx context.Context, imageData []byte) ([]entity.SegmentedPiece, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil, nil
	}
	next := f.calls[0]
	f.calls = f.calls[1:]
	return next, nil
}

type dpSimplifier struct{}

func (dpSimplifier) Simplify(points []image.Point, epsilon float64) []image.Point {
	return geometry.SimplifyClosed(points, epsilon)
}

type fakeRotator struct {
	center  image.Point
	radians float64
	calls   int
}

func (f *fakeRotator) RotateImage(img image.Image, center image.Point, radians float64) image.Image {
	f.center, f.radians = center, radians
	f.calls++
	return img
}

type fixture struct {
	repo      *storage.MemoryPieceRepository
	segmenter *fakeSegmenter
	rotator   *fakeRotator
	pieces    *PieceService
	matches   *MatchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pool := worker.NewPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	f := &fixture{
		repo:      storage.NewMemoryPieceRepository(),
		segmenter: &fakeSegmenter{},
		rotator:   &fakeRotator{},
	}
	f.pieces = NewPieceService(f.repo, f.segmenter, dpSimplifier{}, f.rotator, nil, classifier.New(classifier.DefaultConfig()), 20)
	f.matches = NewMatchService(f.repo, matcher.New(matcher.DefaultConfig()), pool, nil)
	return f
}

func (f *fixture) store(t *testing.T, id string, tabs [entity.EdgeCount]entity.EdgeType) *entity.Piece {
	t.Helper()
	p, err := testutil.TabbedPiece(id, 200, tabs)
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(context.Background(), p))
	return p
}

func segment(tabs [entity.EdgeCount]entity.EdgeType) entity.SegmentedPiece {
	return entity.SegmentedPiece{Boundary: testutil.PieceBoundary(200, tabs)}
}
