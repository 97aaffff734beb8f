package port

import (
	"context"

	"jigsaw-bot/internal/domain/entity"
)

// UserRepository хранилище пользователей бота. Get и Update возвращают копии.
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя целиком
	Save(ctx context.Context, user *entity.User) error

	// Update атомарно изменяет пользователя функцией fn; при ошибке fn
	// пользователь остаётся прежним
	Update(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error)
}
