package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/pkg/utils"
)

type fakePriceRepo struct {
	mu        sync.Mutex
	closes    map[string][]float64
	synthetic map[string]bool
	calls     []dto.GetPriceSeriesParam
	block     chan struct{}
}

var errUnknownTicker = errors.New("unknown ticker")

func (f *fakePriceRepo) GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, param)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	closes, ok := f.closes[param.Ticker]
	if !ok {
		return nil, errUnknownTicker
	}
	days := utils.BusinessDays(param.StartDate, param.EndDate)
	points := make([]dto.PricePoint, 0, len(closes))
	for i, c := range closes {
		if i >= len(days) {
			break
		}
		points = append(points, dto.PricePoint{Date: days[i], Close: decimal.NewFromFloat(c)})
	}
	return &dto.PriceSeries{Ticker: param.Ticker, Points: points, Synthetic: f.synthetic[param.Ticker]}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Indicator: config.Indicator{
			SMAShortWindow: 10,
			SMALongWindow:  30,
			EMAShortSpan:   10,
			EMALongSpan:    30,
			ATRWindow:      14,
			SignalWarmup:   30,
		},
		Portfolio: config.Portfolio{
			InitialCash:   10000,
			StopLossPct:   0.95,
			TakeProfitPct: 1.10,
		},
		Backtest: config.Backtest{MaxConcurrency: 2},
		Scheduler: config.Scheduler{
			Enabled:        true,
			CronExpression: "0 18 * * 1-5",
			Tickers:        []string{"aapl", "FLAT", "MISSING"},
			LookbackDays:   120,
			Timeout:        time.Minute,
		},
	}
}

// crossover is flat at 50 for 35 days then climbs by 1 a day, entering at
// day 35 and taking profit at 57.
func crossover() []float64 {
	closes := make([]float64, 45)
	for i := range closes {
		closes[i] = 50
		if i >= 35 {
			closes[i] = 50 + float64(i-34)
		}
	}
	return closes
}

func flat(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 50
	}
	return closes
}

var (
	rangeStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
)
