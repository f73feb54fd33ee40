package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/pkg/cache"
	"golang-backtester/pkg/common"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/utils"
)

// PriceRepository is the data source the backtest reads closes from.
type PriceRepository interface {
	GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error)
}

type priceRepository struct {
	cfg       *config.Config
	logger    *logger.Logger
	source    AlphaVantageRepository
	synthetic *SyntheticGenerator
	cache     cache.Cache
}

func NewPriceRepository(
	cfg *config.Config,
	log *logger.Logger,
	source AlphaVantageRepository,
	synthetic *SyntheticGenerator,
	inmemoryCache cache.Cache,
) PriceRepository {
	return &priceRepository{
		cfg:       cfg,
		logger:    log,
		source:    source,
		synthetic: synthetic,
		cache:     inmemoryCache,
	}
}

// GetDailyCloses fetches closes from the provider, retrying up to the
// configured number of attempts. When every attempt fails it falls back to a
// synthetic series. Only provider data is cached.
func (r *priceRepository) GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error) {
	param.Ticker = strings.ToUpper(strings.TrimSpace(param.Ticker))
	param.StartDate = utils.TruncateDay(param.StartDate)
	param.EndDate = utils.TruncateDay(param.EndDate)
	if err := CheckRange(param.StartDate, param.EndDate, r.cfg.Backtest.MaxRangeDays); err != nil {
		return nil, err
	}

	key := fmt.Sprintf(common.KEY_PRICE_SERIES, param.Ticker, utils.FormatDate(param.StartDate), utils.FormatDate(param.EndDate))
	if series, ok := cache.GetFromCache[*dto.PriceSeries](r.cache, key); ok {
		r.logger.DebugContext(ctx, "Price series served from cache", logger.StringField("key", key))
		return series, nil
	}

	attempts := r.cfg.AlphaVantage.Retries
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if !utils.ShouldContinue(ctx, r.logger) {
			return nil, ctx.Err()
		}

		series, err := r.source.GetDailyCloses(ctx, param)
		if err == nil {
			if r.cache != nil {
				r.cache.Set(key, series, 0)
			}
			r.logger.InfoContext(ctx, "Fetched price series",
				logger.TickerField(param.Ticker),
				logger.StringField("source", common.SOURCE_ALPHA_VANTAGE),
				logger.IntField("points", len(series.Points)),
				logger.IntField("attempt", attempt))
			return series, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		r.logger.WarnContext(ctx, "Failed to fetch price series",
			logger.TickerField(param.Ticker),
			logger.IntField("attempt", attempt),
			logger.IntField("max_attempts", attempts),
			logger.ErrorField(err))

		if errors.Is(err, ErrQuotaExceeded) {
			break
		}
		if attempt < attempts {
			if err := sleep(ctx, r.cfg.AlphaVantage.RetryDelay); err != nil {
				return nil, err
			}
		}
	}

	series := r.synthetic.Generate(param.Ticker, param.StartDate, param.EndDate)
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("%w: no business days between %s and %s", ErrNoPriceData,
			utils.FormatDate(param.StartDate), utils.FormatDate(param.EndDate))
	}

	r.logger.WarnContext(ctx, "Using synthetic price series",
		logger.TickerField(param.Ticker),
		logger.StringField("source", common.SOURCE_SYNTHETIC),
		logger.IntField("points", len(series.Points)),
		logger.ErrorField(lastErr))
	return series, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
