package container

import (
	"fmt"
	"net/http"

	"jigsaw-bot/config"
	app "jigsaw-bot/internal/application"
	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/port"
	"jigsaw-bot/internal/infrastructure/storage"
	"jigsaw-bot/internal/infrastructure/vision"
	"jigsaw-bot/internal/matcher"
	"jigsaw-bot/internal/transport"
	"jigsaw-bot/internal/worker"
)

type Container struct {
	UserService    *app.UserService
	PieceService   *app.PieceService
	MatchService   *app.MatchService
	SessionService *app.SessionService

	cfg  *config.Config
	pool *worker.Pool
}

func New(cfg *config.Config, userRepo port.UserRepository, pieceRepo port.PieceRepository) *Container {
	renderer := vision.NewGoCVRenderer()

	pool := worker.NewPool(cfg.Workers)
	pool.Start()

	userService := app.NewUserService(userRepo)
	pieceService := app.NewPieceService(
		pieceRepo,
		vision.NewGoCVSegmenter(),
		vision.NewSimplifier(),
		vision.Imaging{},
		renderer,
		classifier.New(cfg.ClassifierConfig()),
		cfg.SimplifyEpsilon,
	)
	matchService := app.NewMatchService(pieceRepo, matcher.New(cfg.MatcherConfig()), pool, renderer)

	return &Container{
		UserService:    userService,
		PieceService:   pieceService,
		MatchService:   matchService,
		SessionService: app.NewSessionService(userService, pieceService, matchService),
		cfg:            cfg,
		pool:           pool,
	}
}

// NewPieceRepository выбирает хранилище деталей по конфигурации
func NewPieceRepository(cfg *config.Config) (port.PieceRepository, error) {
	if cfg.UseBlobStorage() {
		repo, err := storage.NewBlobPieceRepository(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.AzureStorageContainer)
		if err != nil {
			return nil, fmt.Errorf("blob storage: %w", err)
		}
		return repo, nil
	}
	repo, err := storage.NewFilePieceRepository(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}
	return repo, nil
}

// FromConfig собирает контейнер с хранилищем деталей из конфигурации
// и пользователями в памяти
func FromConfig(cfg *config.Config) (*Container, error) {
	pieceRepo, err := NewPieceRepository(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, storage.NewMemoryUserRepository(), pieceRepo), nil
}

// Handler HTTP API поверх сервисов контейнера
func (c *Container) Handler() http.Handler {
	return transport.NewHandler(c.PieceService, c.MatchService, c.cfg)
}

// Close останавливает пул воркеров
func (c *Container) Close() {
	c.pool.Close()
}
