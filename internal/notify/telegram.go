package notify

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amonks/sidequest/reminder"
)

// sender is the part of *tgbotapi.BotAPI used for delivery.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends reminders to one chat through a bot.
type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram connects to the bot API with token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Name implements Notifier.
func (t *Telegram) Name() string {
	return "telegram"
}

// Notify implements Notifier.
func (t *Telegram) Notify(ctx context.Context, r reminder.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, formatTelegram(r))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram reminder %s: %w", r.ID, err)
	}
	return nil
}

func formatTelegram(r reminder.Reminder) string {
	return fmt.Sprintf("🔔 <b>%s</b>\n⏰ %s", html.EscapeString(r.Title), r.TimeOfDay)
}
