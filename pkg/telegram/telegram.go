package telegram

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"

	"golang-backtester/config"
	"golang-backtester/pkg/logger"
)

var ErrNotConfigured = errors.New("telegram is not configured")

// Sender is the part of *telebot.Bot the notifier needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Notifier posts text messages to the configured chat.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NewBot builds an offline bot: it only sends, so it never polls for
// updates or calls getMe on startup.
func NewBot(cfg *config.TelegramConfig) (*telebot.Bot, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	return telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: true,
	})
}

type TelegramNotifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	sender  Sender
	limiter *rate.Limiter
}

func NewTelegramNotifier(cfg *config.TelegramConfig, log *logger.Logger, sender Sender) *TelegramNotifier {
	return &TelegramNotifier{
		cfg:     cfg,
		log:     log,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxMessagePerSecond), cfg.MaxMessagePerSecond),
	}
}

// Notify sends message as MarkdownV2. Callers escape user text.
func (t *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for telegram rate limit", logger.ErrorField(err))
		return err
	}

	_, err := t.sender.Send(&telebot.Chat{ID: t.cfg.ChatID}, message, telebot.ModeMarkdownV2)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log. Used when no bot is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.InfoContext(ctx, "Notification", logger.StringField("message", message))
	return nil
}
