package app

import (
	"context"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
)

// UserService ведёт шаги диалога пользователя бота
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет шаг, не трогая запомненную деталь
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.apply(ctx, userID, chatID, func(u *entity.User) { u.SetState(state) })
}

// BeginMatch переводит пользователя к ожиданию фото первой детали
func (s *UserService) BeginMatch(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.apply(ctx, userID, chatID, (*entity.User).BeginMatch)
}

// RememberFirstPiece запоминает первую деталь и ждёт фото второй
func (s *UserService) RememberFirstPiece(ctx context.Context, userID, chatID int64, pieceID string) (*entity.User, error) {
	return s.apply(ctx, userID, chatID, func(u *entity.User) { u.RememberFirstPiece(pieceID) })
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.apply(ctx, userID, chatID, (*entity.User).Reset)
}

func (s *UserService) apply(ctx context.Context, userID, chatID int64, fn func(*entity.User)) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) error {
		fn(u)
		return nil
	})
}
