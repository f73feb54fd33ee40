package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/pkg/httpclient"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/ratelimit"
	"golang-backtester/pkg/utils"
)

type AlphaVantageRepository interface {
	GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error)
}

type alphaVantageRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	dailyQuota     *ratelimit.TokenLimiter
}

// NewAlphaVantageRepository creates a client for the TIME_SERIES_DAILY endpoint.
func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) AlphaVantageRepository {
	perRequest := time.Minute / time.Duration(cfg.AlphaVantage.MaxRequestPerMinute)

	return &alphaVantageRepository{
		httpClient:     httpclient.New(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
		dailyQuota:     ratelimit.NewTokenLimiter(cfg.AlphaVantage.MaxRequestPerDay, 24*time.Hour),
	}
}

func (r *alphaVantageRepository) GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error) {
	if !r.dailyQuota.TryTake(1) {
		return nil, ErrQuotaExceeded
	}

	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Alpha Vantage request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.AlphaVantage.MaxRequestPerMinute),
		)
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	queryParams := map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     param.Ticker,
		"outputsize": "full",
		"datatype":   "json",
		"apikey":     r.cfg.AlphaVantage.APIKey,
	}

	var avResp dto.AlphaVantageDailyResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &avResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from alpha vantage: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Alpha Vantage API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("alpha vantage api returned status: %d", resp.StatusCode)
	}

	switch {
	case avResp.ErrorMessage != "":
		return nil, fmt.Errorf("%w: %s", ErrProviderMessage, avResp.ErrorMessage)
	case avResp.Note != "":
		return nil, fmt.Errorf("%w: %s", ErrProviderMessage, avResp.Note)
	case avResp.Information != "" && len(avResp.TimeSeries) == 0:
		return nil, fmt.Errorf("%w: %s", ErrProviderMessage, avResp.Information)
	}

	points := r.toPricePoints(ctx, avResp.TimeSeries, param)
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s between %s and %s", ErrNoPriceData, param.Ticker,
			utils.FormatDate(param.StartDate), utils.FormatDate(param.EndDate))
	}

	return &dto.PriceSeries{
		Ticker: param.Ticker,
		Points: points,
	}, nil
}

// toPricePoints keeps the closes inside [StartDate, EndDate] in ascending
// date order. Malformed entries are skipped.
func (r *alphaVantageRepository) toPricePoints(ctx context.Context, series map[string]dto.AlphaVantageDailyCandle, param dto.GetPriceSeriesParam) []dto.PricePoint {
	start := utils.TruncateDay(param.StartDate)
	end := utils.TruncateDay(param.EndDate)

	points := make([]dto.PricePoint, 0, len(series))
	for day, candle := range series {
		date, err := utils.ParseDate(day)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed date", logger.StringField("date", day))
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}

		closePrice, err := decimal.NewFromString(candle.Close)
		if err != nil || !closePrice.IsPositive() {
			r.logger.WarnContext(ctx, "Skipping malformed close",
				logger.StringField("date", day),
				logger.StringField("close", candle.Close))
			continue
		}

		points = append(points, dto.PricePoint{Date: date, Close: closePrice})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
