package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/logger"
	"jigsaw-bot/internal/matcher"
	"jigsaw-bot/internal/worker"
)

// MatchService сопоставляет стороны деталей
type MatchService struct {
	repo     port.PieceRepository
	matcher  *matcher.Matcher
	pool     *worker.Pool
	renderer port.Renderer
}

// NewMatchService создаёт сервис; pool должен быть запущен, renderer может быть nil
func NewMatchService(repo port.PieceRepository, m *matcher.Matcher, pool *worker.Pool, renderer port.Renderer) *MatchService {
	return &MatchService{repo: repo, matcher: m, pool: pool, renderer: renderer}
}

// MatchEdges сравнивает сторону a.Edge детали a.PieceID со стороной b.Edge детали b.PieceID.
// Стороны одной детали, плоские стороны и стороны одного типа не сравниваются.
func (s *MatchService) MatchEdges(ctx context.Context, a, b entity.EdgeRef) (*entity.EdgeMatch, error) {
	m, _, err := s.compareRefs(ctx, a, b)
	return m, err
}

// CompareEdges то же, что MatchEdges, и вдобавок рисует нормализованные стороны
func (s *MatchService) CompareEdges(ctx context.Context, a, b entity.EdgeRef) (*entity.EdgeMatch, []byte, error) {
	if s.renderer == nil {
		return nil, nil, apperrors.NewInternalError("renderer is not configured", nil)
	}
	m, cmp, err := s.compareRefs(ctx, a, b)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.renderer.RenderComparison(cmp.In.Points, cmp.Out.Points)
	if err != nil {
		return m, nil, err
	}
	return m, img, nil
}

func (s *MatchService) compareRefs(ctx context.Context, a, b entity.EdgeRef) (*entity.EdgeMatch, *matcher.Comparison, error) {
	if a.PieceID == b.PieceID {
		return nil, nil, apperrors.NewIncompatibleEdges(fmt.Sprintf("edges %s and %s belong to the same piece", a, b), nil)
	}
	pa, err := s.repo.Get(ctx, a.PieceID)
	if err != nil {
		return nil, nil, err
	}
	pb, err := s.repo.Get(ctx, b.PieceID)
	if err != nil {
		return nil, nil, err
	}
	return s.compare(pa, a.Edge, pb, b.Edge)
}

// compare сравнивает стороны двух уже загруженных деталей. Детали не изменяются.
func (s *MatchService) compare(pa *entity.Piece, ea int, pb *entity.Piece, eb int) (*entity.EdgeMatch, *matcher.Comparison, error) {
	if pa.ID() == pb.ID() {
		return nil, nil, apperrors.NewIncompatibleEdges(fmt.Sprintf("piece %s cannot match itself", pa.ID()), nil)
	}
	sa, err := pa.Side(ea)
	if err != nil {
		return nil, nil, err
	}
	sb, err := pb.Side(eb)
	if err != nil {
		return nil, nil, err
	}

	in, out, swapped, err := matcher.Pair(sa, sb)
	if err != nil {
		return nil, nil, err
	}
	inPiece, outPiece := pa, pb
	if swapped {
		inPiece, outPiece = pb, pa
	}

	cmp, err := s.matcher.MatchSides(in, inPiece.Origin(), out, outPiece.Origin())
	if err != nil {
		return nil, nil, fmt.Errorf("match %s/%d with %s/%d: %w", inPiece.ID(), in.Index, outPiece.ID(), out.Index, err)
	}

	m := &entity.EdgeMatch{
		In:       entity.EdgeRef{PieceID: inPiece.ID(), Edge: in.Index},
		Out:      entity.EdgeRef{PieceID: outPiece.ID(), Edge: out.Index},
		Result:   cmp.Result,
		Warnings: cmp.Warnings,
	}

	entry := logger.WithFields(logrus.Fields{
		"in":        m.In.String(),
		"out":       m.Out.String(),
		"coupling":  m.Result.CouplingDistance,
		"secondary": m.Result.SecondaryDistance,
		"measure":   string(m.Result.Secondary),
		"match":     m.Result.Match,
	})
	if len(m.Warnings) > 0 {
		entry.WithField("warnings", m.Warnings).Warn("Edges compared with ambiguous rotation")
	} else {
		entry.Debug("Edges compared")
	}
	return m, cmp, nil
}

// MatchPieces сравнивает все пары впадина-выступ двух классифицированных деталей.
// Пары, которые не удалось сравнить, пропускаются.
func (s *MatchService) MatchPieces(ctx context.Context, a, b *entity.Piece) ([]entity.EdgeMatch, error) {
	if !a.Classified() || !b.Classified() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("pieces %s and %s must be classified", a.ID(), b.ID()), nil)
	}
	if a.ID() == b.ID() {
		return nil, apperrors.NewIncompatibleEdges(fmt.Sprintf("piece %s cannot match itself", a.ID()), nil)
	}

	var out []entity.EdgeMatch
	for i := 0; i < entity.EdgeCount; i++ {
		for j := 0; j < entity.EdgeCount; j++ {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			ta, tb := a.EdgeType(i), b.EdgeType(j)
			if ta == entity.EdgeFlat || tb == entity.EdgeFlat || ta == tb {
				continue
			}
			m, _, err := s.compare(a, i, b, j)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"a": entity.EdgeRef{PieceID: a.ID(), Edge: i}.String(),
					"b": entity.EdgeRef{PieceID: b.ID(), Edge: j}.String(),
				}).Warn("Skipping edge pair")
				continue
			}
			out = append(out, *m)
		}
	}
	sortMatches(out)
	return out, nil
}

// MatchAll сравнивает деталь id со всеми остальными классифицированными
// деталями хранилища на пуле воркеров. Результаты отсортированы по
// возрастанию расстояния сцепления.
func (s *MatchService) MatchAll(ctx context.Context, id string) ([]entity.EdgeMatch, error) {
	base, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !base.Classified() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("piece %s is not classified", id), nil)
	}
	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []entity.EdgeMatch
	)
	for _, other := range ids {
		if other == id {
			continue
		}
		wg.Add(1)
		err := s.pool.Submit(ctx, func() {
			defer wg.Done()

			p, err := s.repo.Get(ctx, other)
			if err != nil {
				logger.WithError(err).WithField("piece_id", other).Warn("Skipping piece")
				return
			}
			if !p.Classified() {
				return
			}
			// каждый воркер работает со своей копией базовой детали
			matches, err := s.MatchPieces(ctx, base.Clone(), p)
			if err != nil {
				logger.WithError(err).WithField("piece_id", other).Warn("Skipping piece")
				return
			}
			mu.Lock()
			results = append(results, matches...)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	sortMatches(results)
	logger.WithFields(logrus.Fields{
		"piece_id": id,
		"pieces":   len(ids),
		"pairs":    len(results),
	}).Info("Piece matched against storage")
	return results, nil
}

// sortMatches совпадения первыми, внутри по расстоянию сцепления
func sortMatches(ms []entity.EdgeMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Result.Match != ms[j].Result.Match {
			return ms[i].Result.Match
		}
		return ms[i].Result.CouplingDistance < ms[j].Result.CouplingDistance
	})
}
