package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "jigsaw-bot/internal/application"
	"jigsaw-bot/internal/container"
	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/infrastructure/vision"
	"jigsaw-bot/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот, который проверяет, стыкуются ли две детали пазла.

📸 Пришлите фото одной детали, затем фото второй, и я сравню их стороны.

📋 Команды:
/match — начать сравнение двух деталей
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /match
2️⃣ Пришлите фото первой детали
3️⃣ Пришлите фото второй детали
4️⃣ Бот определит типы сторон и сравнит каждую впадину с каждым выступом

💡 Рекомендации:
• Одна деталь на фото, лицевой стороной вверх
• Однотонный контрастный фон
• Снимайте сверху, без перспективы

📋 Команды:
/match — начать сравнение
/cancel — отменить операцию`

	msgAwaitingFirst   = "📸 Пришлите фото первой детали."
	msgAwaitingSecond  = "📸 Теперь пришлите фото второй детали."
	msgCancelled       = "❌ Операция отменена. Отправьте /match для нового сравнения."
	msgSendMatch       = "Отправьте /match, чтобы сравнить две детали."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgNoPairs         = "У деталей нет пары впадина-выступ, сравнивать нечего."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgGeometryError   = "⚠️ Не удалось найти углы детали. Сфотографируйте её на однотонном фоне целиком."

	processingTimeout = 2 * time.Minute
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// sender возвращает автора и чат; у постов каналов и части служебных
// сообщений автора нет
func sender(msg *tgbotapi.Message) (userID, chatID int64, ok bool) {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return 0, 0, false
	}
	return msg.From.ID, msg.Chat.ID, true
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID, ok := sender(msg)
	if !ok {
		logger.WithField("message_id", msg.MessageID).Debug("Skipping message without sender")
		return
	}

	user, err := b.container.UserService.Get(ctx, userID, chatID)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Error("Failed to get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	switch user.State {
	case entity.StateAwaitingFirstPiece:
		b.sendMessage(msg.Chat.ID, msgAwaitingFirst)
	case entity.StateAwaitingSecondPiece:
		b.sendMessage(msg.Chat.ID, msgAwaitingSecond)
	default:
		b.sendMessage(msg.Chat.ID, msgSendMatch)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "match":
		if _, err := b.container.SessionService.Begin(ctx, userID, chatID); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Failed to begin session")
			return
		}
		b.sendMessage(chatID, msgAwaitingFirst)

	case "cancel":
		b.cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) cancel(ctx context.Context, userID, chatID int64) {
	if _, err := b.container.SessionService.Cancel(ctx, userID, chatID); err != nil {
		logger.WithError(err).WithField("user_id", userID).Error("Failed to cancel session")
	}
}

// handlePhoto обрабатывает входящее фото в зависимости от шага диалога
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	prev := user.State
	if prev == entity.StateProcessing {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	if !user.AwaitingPhoto() {
		b.sendMessage(msg.Chat.ID, msgSendMatch)
		return
	}

	if _, err := b.container.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		logger.WithError(err).WithField("user_id", user.ID).Error("Failed to update user state")
		return
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	ctx, cancel := context.WithTimeout(ctx, processingTimeout)
	defer cancel()

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err == nil {
		imageData, _, err = vision.NormalizePhoto(imageData)
	}
	if err != nil {
		b.fail(ctx, msg, user, prev, err)
		return
	}

	log := logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"bytes":   len(imageData),
		"step":    string(prev),
	})
	log.Info("Received piece photo")

	if prev == entity.StateAwaitingFirstPiece {
		report, err := b.container.SessionService.AcceptFirstPiece(ctx, user.ID, user.ChatID, imageData)
		if err != nil {
			b.fail(ctx, msg, user, prev, err)
			return
		}
		b.sendMessage(msg.Chat.ID, formatPiece("Первая деталь", report)+"\n\n"+msgAwaitingSecond)
		return
	}

	report, err := b.container.SessionService.AcceptSecondPiece(ctx, user.ID, user.ChatID, imageData)
	if err != nil {
		b.fail(ctx, msg, user, prev, err)
		return
	}
	b.sendMessage(msg.Chat.ID, formatReport(report))
	b.sendOverlay(ctx, msg.Chat.ID, report.Matches)
}

// fail сообщает об ошибке и возвращает пользователя на тот же шаг
func (b *Bot) fail(ctx context.Context, msg *tgbotapi.Message, user *entity.User, prev entity.UserState, err error) {
	logger.WithError(err).WithField("user_id", user.ID).Warn("Photo processing failed")

	text := msgProcessingError
	if apperrors.IsType(err, apperrors.ErrorTypeInvalidPieceGeometry) || apperrors.IsType(err, apperrors.ErrorTypeSearchBudget) {
		text = msgGeometryError
	}
	b.sendMessage(msg.Chat.ID, text)

	if _, err := b.container.UserService.SetState(context.WithoutCancel(ctx), user.ID, user.ChatID, prev); err != nil {
		logger.WithError(err).WithField("user_id", user.ID).Error("Failed to restore user state")
	}
}

// sendOverlay отправляет картинку лучшей пары, если рендер доступен
func (b *Bot) sendOverlay(ctx context.Context, chatID int64, matches []entity.EdgeMatch) {
	if len(matches) == 0 {
		return
	}
	best := matches[0]
	_, img, err := b.container.MatchService.CompareEdges(ctx, best.In, best.Out)
	if err != nil {
		logger.WithError(err).Debug("Overlay is not available")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "match.jpg", Bytes: img})
	photo.Caption = fmt.Sprintf("%s ↔ %s", best.In, best.Out)
	if _, err := b.api.Send(photo); err != nil {
		logger.WithError(err).Error("Failed to send photo")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

var edgeLabels = [entity.EdgeCount]string{"верх", "лево", "низ", "право"}

var typeLabels = map[entity.EdgeType]string{
	entity.EdgeFlat: "плоская",
	entity.EdgeIn:   "впадина",
	entity.EdgeOut:  "выступ",
}

// formatPiece описывает стороны детали
func formatPiece(title string, r *app.PieceReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧩 %s (%s):", title, r.Piece.ID())
	for i, t := range r.Piece.EdgeTypes() {
		fmt.Fprintf(&sb, "\n• %s: %s", edgeLabels[i], typeLabels[t])
	}
	return sb.String()
}

// formatReport итог сравнения двух деталей
func formatReport(r *app.SessionReport) string {
	var sb strings.Builder
	sb.WriteString(formatPiece("Вторая деталь", r.Second))
	sb.WriteString("\n\n")

	if len(r.Matches) == 0 {
		sb.WriteString(msgNoPairs)
		return sb.String()
	}

	sb.WriteString("📐 Сравнение сторон:")
	for _, m := range r.Matches {
		verdict := "❌ не подходит"
		if m.Result.Match {
			verdict = "✅ подходит"
		}
		fmt.Fprintf(&sb, "\n%s %s ↔ %s %s: сцепление %.1f, %s %.1f, %s",
			m.In.PieceID, edgeLabels[m.In.Edge],
			m.Out.PieceID, edgeLabels[m.Out.Edge],
			m.Result.CouplingDistance, m.Result.Secondary, m.Result.SecondaryDistance,
			verdict)
		if len(m.Warnings) > 0 {
			sb.WriteString(" ⚠️")
		}
	}
	return sb.String()
}
