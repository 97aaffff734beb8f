package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	app "jigsaw-bot/internal/application"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/testutil"
)

func TestFormatPiece(t *testing.T) {
	p, err := testutil.TabbedPiece("tg1-1-0", 200, [entity.EdgeCount]entity.EdgeType{entity.EdgeOut, entity.EdgeIn, entity.EdgeFlat, entity.EdgeOut})
	require.NoError(t, err)

	text := formatPiece("Первая деталь", &app.PieceReport{Piece: p})
	require.Equal(t, "🧩 Первая деталь (tg1-1-0):\n• верх: выступ\n• лево: впадина\n• низ: плоская\n• право: выступ", text)
}

func TestFormatReport(t *testing.T) {
	p, err := testutil.TabbedPiece("b", 200, [entity.EdgeCount]entity.EdgeType{entity.EdgeFlat, entity.EdgeOut, entity.EdgeFlat, entity.EdgeFlat})
	require.NoError(t, err)
	second := &app.PieceReport{Piece: p}

	empty := formatReport(&app.SessionReport{Second: second})
	require.Contains(t, empty, msgNoPairs)

	report := formatReport(&app.SessionReport{
		Second: second,
		Matches: []entity.EdgeMatch{
			{
				In:  entity.EdgeRef{PieceID: "a", Edge: entity.EdgeRight},
				Out: entity.EdgeRef{PieceID: "b", Edge: entity.EdgeLeft},
				Result: entity.MatchResult{
					CouplingDistance:  4.3,
					SecondaryDistance: 1.5,
					Secondary:         entity.MeasureAverage,
					Match:             true,
				},
			},
			{
				In:       entity.EdgeRef{PieceID: "a", Edge: entity.EdgeTop},
				Out:      entity.EdgeRef{PieceID: "b", Edge: entity.EdgeLeft},
				Result:   entity.MatchResult{CouplingDistance: 80, SecondaryDistance: 30, Secondary: entity.MeasureAverage},
				Warnings: []string{"ambiguous rotation"},
			},
		},
	})
	require.Contains(t, report, "a право ↔ b лево: сцепление 4.3, average 1.5, ✅ подходит")
	require.Contains(t, report, "a верх ↔ b лево: сцепление 80.0, average 30.0, ❌ не подходит ⚠️")
}

func TestSender(t *testing.T) {
	_, _, ok := sender(&tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}})
	require.False(t, ok)

	_, _, ok = sender(&tgbotapi.Message{From: &tgbotapi.User{ID: 1}})
	require.False(t, ok)

	userID, chatID, ok := sender(&tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 5}})
	require.True(t, ok)
	require.Equal(t, int64(1), userID)
	require.Equal(t, int64(5), chatID)
}

func TestHandleMessage_ChannelPost(t *testing.T) {
	b := &Bot{}
	require.NotPanics(t, func() {
		b.handleMessage(context.Background(), &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: -100}, Text: "/start"})
	})
}
