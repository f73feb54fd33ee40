package service

import (
	"github.com/shopspring/decimal"

	"golang-backtester/config"
	"golang-backtester/internal/indicator"
	"golang-backtester/internal/portfolio"
	"golang-backtester/internal/repository"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/telegram"
)

type Service struct {
	BacktestService  BacktestService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	notifier telegram.Notifier,
) *Service {
	backtestService := NewBacktestService(cfg, log, repo.PriceRepo)
	return &Service{
		BacktestService:  backtestService,
		SchedulerService: NewSchedulerService(cfg, log, backtestService, notifier),
	}
}

// IndicatorConfig maps the indicator section onto the engine's windows.
func IndicatorConfig(cfg *config.Config) indicator.Config {
	return indicator.Config{
		SMAShortWindow: cfg.Indicator.SMAShortWindow,
		SMALongWindow:  cfg.Indicator.SMALongWindow,
		EMAShortSpan:   cfg.Indicator.EMAShortSpan,
		EMALongSpan:    cfg.Indicator.EMALongSpan,
		ATRWindow:      cfg.Indicator.ATRWindow,
		SignalWarmup:   cfg.Indicator.SignalWarmup,
	}
}

// PortfolioConfig converts the portfolio section to exact decimals.
// Percentages go through their shortest decimal form so 0.95 stays 0.95.
func PortfolioConfig(cfg *config.Config) portfolio.Config {
	return portfolio.Config{
		InitialCash:   decimal.NewFromFloat(cfg.Portfolio.InitialCash),
		StopLossPct:   decimal.NewFromFloat(cfg.Portfolio.StopLossPct),
		TakeProfitPct: decimal.NewFromFloat(cfg.Portfolio.TakeProfitPct),
	}
}
