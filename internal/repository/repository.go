package repository

import (
	"errors"
	"fmt"
	"time"

	"golang-backtester/config"
	"golang-backtester/pkg/cache"
	"golang-backtester/pkg/logger"
)

var (
	// ErrNoPriceData means the provider had no closes inside the requested range.
	ErrNoPriceData = errors.New("no price data")
	// ErrProviderMessage wraps the Note, Information or Error Message text
	// the provider returns instead of a time series.
	ErrProviderMessage = errors.New("provider returned a message instead of data")
	// ErrQuotaExceeded means the daily request budget is spent.
	ErrQuotaExceeded = errors.New("provider daily quota exceeded")
	ErrInvalidRange  = errors.New("end date is before start date")
	// ErrRangeTooLong means the window exceeds backtest.max_range_days.
	ErrRangeTooLong = errors.New("date range too long")
)

// CheckRange rejects inverted windows and windows longer than maxDays.
// A non-positive maxDays leaves the length unbounded.
func CheckRange(start, end time.Time, maxDays int) error {
	if end.Before(start) {
		return ErrInvalidRange
	}
	if maxDays > 0 && start.AddDate(0, 0, maxDays).Before(end) {
		return fmt.Errorf("%w: at most %d days allowed", ErrRangeTooLong, maxDays)
	}
	return nil
}

type Repository struct {
	AlphaVantageRepo AlphaVantageRepository
	PriceRepo        PriceRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) *Repository {
	alphaVantageRepo := NewAlphaVantageRepository(cfg, log)
	return &Repository{
		AlphaVantageRepo: alphaVantageRepo,
		PriceRepo: NewPriceRepository(
			cfg,
			log,
			alphaVantageRepo,
			NewSyntheticGenerator(cfg.Synthetic),
			inmemoryCache,
		),
	}
}
