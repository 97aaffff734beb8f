package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
)

// MemoryUserRepository in-memory хранилище пользователей бота
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.load(userID, chatID)
	return &u, nil
}

// Save сохраняет пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if user == nil {
		return apperrors.NewValidationError("user is nil", nil)
	}
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()
	return nil
}

// Update изменяет пользователя под блокировкой хранилища
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.load(userID, chatID)
	if err := fn(&u); err != nil {
		return nil, err
	}
	r.users[userID] = u
	return &u, nil
}

func (r *MemoryUserRepository) load(userID, chatID int64) entity.User {
	if u, ok := r.users[userID]; ok {
		return u
	}
	return *entity.NewUser(userID, chatID)
}

// MemoryPieceRepository in-memory хранилище деталей. Хранит и отдаёт копии,
// поэтому вызывающие могут поворачивать полученные детали без блокировок.
type MemoryPieceRepository struct {
	mu     sync.RWMutex
	pieces map[string]*entity.Piece
}

// NewMemoryPieceRepository создаёт пустое хранилище
func NewMemoryPieceRepository() *MemoryPieceRepository {
	return &MemoryPieceRepository{pieces: make(map[string]*entity.Piece)}
}

// Get возвращает копию детали
func (r *MemoryPieceRepository) Get(ctx context.Context, id string) (*entity.Piece, error) {
	r.mu.RLock()
	p, ok := r.pieces[id]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("piece %s not found", id), nil)
	}
	return p.Clone(), nil
}

// Save сохраняет копию детали
func (r *MemoryPieceRepository) Save(ctx context.Context, piece *entity.Piece) error {
	if piece.ID() == "" {
		return apperrors.NewValidationError("piece id is empty", nil)
	}
	r.mu.Lock()
	r.pieces[piece.ID()] = piece.Clone()
	r.mu.Unlock()
	return nil
}

// List возвращает отсортированные ID
func (r *MemoryPieceRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.pieces))
	for id := range r.pieces {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

// Проверка реализации интерфейсов
var (
	_ port.UserRepository  = (*MemoryUserRepository)(nil)
	_ port.PieceRepository = (*MemoryPieceRepository)(nil)
)
