package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier дублирует события администратору в Telegram — решение
// можно принять прямо из чата по тем же ссылкам, что и в письме.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	appURL string
	logger *zap.Logger
}

func NewTelegramNotifier(b *bot.Bot, chatID int64, appURL string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		appURL: strings.TrimRight(appURL, "/"),
		logger: logger,
	}
}

func (n *TelegramNotifier) BookingCreated(ctx context.Context, booking *model.BookingRequest) {
	text := fmt.Sprintf(
		"📅 Новая заявка на %s %s\n\n%s\n%s\n%s\n\n✅ Подтвердить: %s\n❌ Отклонить: %s",
		booking.Date, booking.Time,
		booking.Name, booking.Phone, booking.Email,
		n.decisionURL(booking.DecisionToken, model.ActionConfirm),
		n.decisionURL(booking.DecisionToken, model.ActionReject),
	)
	n.send(ctx, booking.ID, text)
}

func (n *TelegramNotifier) BookingDecided(ctx context.Context, booking *model.BookingRequest) {
	icon := "❌"
	if booking.Status == model.BookingStatusConfirmed {
		icon = "✅"
	}
	text := fmt.Sprintf(
		"%s Заявка %s %s → %s\n%s (%s)",
		icon, booking.Date, booking.Time, booking.Status, booking.Name, booking.Phone,
	)
	n.send(ctx, booking.ID, text)
}

func (n *TelegramNotifier) send(ctx context.Context, bookingID, text string) {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("Failed to send telegram notification",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}
}

func (n *TelegramNotifier) decisionURL(token string, action model.DecisionAction) string {
	return fmt.Sprintf("%s/api/decision?token=%s&action=%s", n.appURL, token, action)
}
