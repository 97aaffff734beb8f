package app

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/logger"
)

// PieceReport деталь, найденная на присланном фото, с результатом классификации
type PieceReport struct {
	Piece  *entity.Piece
	Result *classifier.Result
}

// SessionReport итог диалога: обе детали и все сравнения их сторон
type SessionReport struct {
	First   *PieceReport
	Second  *PieceReport
	Matches []entity.EdgeMatch
}

// SessionService ведёт диалог бота: фото первой детали, фото второй, отчёт.
type SessionService struct {
	users   *UserService
	pieces  *PieceService
	matches *MatchService
	seq     atomic.Int64
}

// NewSessionService создаёт сервис, который управляет сравнением двух деталей.
func NewSessionService(users *UserService, pieces *PieceService, matches *MatchService) *SessionService {
	return &SessionService{
		users:   users,
		pieces:  pieces,
		matches: matches,
	}
}

// Begin начинает новое сравнение
func (s *SessionService) Begin(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.users.BeginMatch(ctx, userID, chatID)
}

// Cancel сбрасывает диалог
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.users.Cancel(ctx, userID, chatID)
}

// AcceptFirstPiece классифицирует деталь с первого фото и ждёт второе.
// При ошибке пользователь остаётся в ожидании первой детали.
func (s *SessionService) AcceptFirstPiece(ctx context.Context, userID, chatID int64, photo []byte) (*PieceReport, error) {
	report, err := s.ingest(ctx, userID, photo)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.RememberFirstPiece(ctx, userID, chatID, report.Piece.ID()); err != nil {
		return nil, err
	}
	return report, nil
}

// AcceptSecondPiece классифицирует вторую деталь, сравнивает её с первой
// и возвращает пользователя в главное меню.
func (s *SessionService) AcceptSecondPiece(ctx context.Context, userID, chatID int64, photo []byte) (*SessionReport, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	firstID := user.FirstPieceID
	if firstID == "" {
		return nil, apperrors.NewValidationError("first piece is not found", nil)
	}

	second, err := s.ingest(ctx, userID, photo)
	if err != nil {
		return nil, err
	}

	first, err := s.pieces.Get(ctx, firstID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matches.MatchPieces(ctx, first, second.Piece)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Cancel(ctx, userID, chatID); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"user_id": userID,
		"first":   firstID,
		"second":  second.Piece.ID(),
		"pairs":   len(matches),
	}).Info("Session completed")
	return &SessionReport{
		First:   &PieceReport{Piece: first},
		Second:  second,
		Matches: matches,
	}, nil
}

// ingest берёт самую крупную деталь на фото и классифицирует её
func (s *SessionService) ingest(ctx context.Context, userID int64, photo []byte) (*PieceReport, error) {
	prefix := fmt.Sprintf("tg%d-%d", userID, s.seq.Add(1))
	outcomes, err := s.pieces.Ingest(ctx, photo, prefix)
	if err != nil {
		return nil, err
	}
	if len(outcomes) == 0 {
		return nil, apperrors.NewInvalidPieceGeometry("no pieces found on the photo", nil)
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return area(outcomes[i].Piece) > area(outcomes[j].Piece)
	})
	best := outcomes[0]
	if best.Err != nil {
		return nil, best.Err
	}
	return &PieceReport{Piece: best.Piece, Result: best.Result}, nil
}

func area(p *entity.Piece) int {
	b := p.Bounds()
	return b.Dx() * b.Dy()
}
