package cmd

import (
	"context"
	"errors"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"golang-backtester/config"
	"golang-backtester/internal/repository"
	"golang-backtester/internal/service"
	"golang-backtester/pkg/cache"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/telegram"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	notifier  telegram.Notifier
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	var notifier telegram.Notifier = telegram.NewLogNotifier(log)
	bot, err := telegram.NewBot(&cfg.Telegram)
	switch {
	case errors.Is(err, telegram.ErrNotConfigured):
		log.Info("Telegram is not configured, notifications go to the log")
	case err != nil:
		log.Error("Failed to create telegram bot", zap.Error(err))
		return nil, err
	default:
		notifier = telegram.NewTelegramNotifier(&cfg.Telegram, log, bot)
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		notifier:  notifier,
	}, nil
}

// Services wires repositories and services on top of the dependency set.
func (d *AppDependency) Services() *service.Service {
	repo := repository.NewRepository(d.cfg, d.log, d.cache)
	return service.NewService(d.cfg, d.log, repo, d.notifier)
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	d.cache.Flush()
	// stdout/stderr sinks return EINVAL on Sync
	_ = d.log.Sync()
	return nil
}
