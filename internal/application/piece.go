package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
	"jigsaw-bot/internal/logger"
)

// PieceService выделяет детали на фото, классифицирует и поворачивает их
type PieceService struct {
	repo       port.PieceRepository
	segmenter  port.Segmenter
	simplifier port.Simplifier
	rotator    port.ImageRotator
	renderer   port.Renderer
	classifier *classifier.Classifier
	epsilon    float64
}

// PieceOutcome результат классификации одной детали в пакетном режиме
type PieceOutcome struct {
	ID     string
	Piece  *entity.Piece
	Result *classifier.Result
	Err    error
}

// NewPieceService создаёт сервис. segmenter, rotator и renderer могут быть nil,
// тогда соответствующие операции возвращают ошибку.
func NewPieceService(
	repo port.PieceRepository,
	segmenter port.Segmenter,
	simplifier port.Simplifier,
	rotator port.ImageRotator,
	renderer port.Renderer,
	cls *classifier.Classifier,
	epsilon float64,
) *PieceService {
	return &PieceService{
		repo:       repo,
		segmenter:  segmenter,
		simplifier: simplifier,
		rotator:    rotator,
		renderer:   renderer,
		classifier: cls,
		epsilon:    epsilon,
	}
}

// Get возвращает деталь из хранилища
func (s *PieceService) Get(ctx context.Context, id string) (*entity.Piece, error) {
	return s.repo.Get(ctx, id)
}

// List возвращает ID всех деталей
func (s *PieceService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Segment выделяет детали на фотографии и сохраняет их неклассифицированными
// с ID вида <prefix>-<n>.
func (s *PieceService) Segment(ctx context.Context, photo []byte, prefix string) ([]*entity.Piece, error) {
	if s.segmenter == nil {
		return nil, apperrors.NewInternalError("segmenter is not configured", nil)
	}
	if len(photo) == 0 {
		return nil, apperrors.NewValidationError("photo is empty", nil)
	}

	start := time.Now()
	segments, err := s.segmenter.Segment(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("segment photo: %w", err)
	}

	pieces := make([]*entity.Piece, 0, len(segments))
	for i, seg := range segments {
		id := fmt.Sprintf("%s-%d", prefix, i)
		p, err := entity.NewPiece(id, seg.Boundary, seg.Image)
		if err != nil {
			logger.WithError(err).WithField("piece_id", id).Warn("Skipping segmented contour")
			continue
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save piece %s: %w", id, err)
		}
		pieces = append(pieces, p)
	}

	logger.WithFields(logrus.Fields{
		"prefix":   prefix,
		"contours": len(segments),
		"pieces":   len(pieces),
		"duration": time.Since(start).String(),
	}).Info("Photo segmented")
	return pieces, nil
}

// ClassifyPiece находит углы и типы сторон детали, не сохраняя её
func (s *PieceService) ClassifyPiece(ctx context.Context, p *entity.Piece) (*classifier.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	simplified := s.simplifier.Simplify(p.Boundary(), s.epsilon)
	res, err := s.classifier.Classify(p, simplified)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"piece_id": p.ID(),
			"vertices": len(simplified),
		}).Warn("Piece classification failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"piece_id": p.ID(),
		"vertices": len(simplified),
		"origin":   res.Origin.String(),
		"corners":  res.Corners,
		"types":    entity.FormatEdgeTypes(res.Types()),
	}).Info("Piece classified")
	return res, nil
}

// Classify классифицирует сохранённую деталь и сохраняет результат
func (s *PieceService) Classify(ctx context.Context, id string) (*entity.Piece, *classifier.Result, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ClassifyPiece(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("save piece %s: %w", id, err)
	}
	return p, res, nil
}

// ClassifyAll классифицирует детали по очереди; ошибка одной детали
// не прерывает обработку остальных.
func (s *PieceService) ClassifyAll(ctx context.Context, ids []string) []PieceOutcome {
	out := make([]PieceOutcome, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			out = append(out, PieceOutcome{ID: id, Err: ctx.Err()})
			continue
		}
		p, res, err := s.Classify(ctx, id)
		out = append(out, PieceOutcome{ID: id, Piece: p, Result: res, Err: err})
	}
	return out
}

// Ingest выделяет детали на фото и сразу классифицирует их.
// Детали, которые не удалось классифицировать, остаются в хранилище
// неклассифицированными и возвращаются с ошибкой.
func (s *PieceService) Ingest(ctx context.Context, photo []byte, prefix string) ([]PieceOutcome, error) {
	pieces, err := s.Segment(ctx, photo, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]PieceOutcome, 0, len(pieces))
	for _, p := range pieces {
		res, err := s.ClassifyPiece(ctx, p)
		if err == nil {
			err = s.repo.Save(ctx, p)
		}
		out = append(out, PieceOutcome{ID: p.ID(), Piece: p, Result: res, Err: err})
	}
	return out, nil
}

// Rotate поворачивает контур детали вокруг опорной точки и, если есть,
// изображение тем же преобразованием.
func (s *PieceService) Rotate(ctx context.Context, id string, degrees float64) (*entity.Piece, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rad := geometry.ToRadians(degrees)
	if err := p.Rotate(rad); err != nil {
		return nil, err
	}
	if img := p.Image(); img != nil && s.rotator != nil {
		p.SetImage(s.rotator.RotateImage(img, p.Origin(), rad))
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save piece %s: %w", id, err)
	}

	logger.WithFields(logrus.Fields{
		"piece_id": id,
		"degrees":  degrees,
	}).Info("Piece rotated")
	return p, nil
}

// Render рисует отладочное изображение детали
func (s *PieceService) Render(ctx context.Context, p *entity.Piece) ([]byte, error) {
	if s.renderer == nil {
		return nil, apperrors.NewInternalError("renderer is not configured", nil)
	}
	return s.renderer.RenderPiece(p)
}
