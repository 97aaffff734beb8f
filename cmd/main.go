package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jigsaw-bot/config"
	telegram "jigsaw-bot/internal/api"
	"jigsaw-bot/internal/container"
	"jigsaw-bot/internal/infrastructure/storage"
	"jigsaw-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		logger.Logger.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилища пользователей и деталей
	userRepo := storage.NewMemoryUserRepository()
	pieceRepo, err := container.NewPieceRepository(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open piece storage")
	}

	// Собираем сервисы приложения
	appContainer := container.New(cfg, userRepo, pieceRepo)
	defer appContainer.Close()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		logger.WithError(err).Error("Bot error")
	}
	logger.Info("Bot stopped")
}
