package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtester/internal/dto"
	"golang-backtester/pkg/cache"
	"golang-backtester/pkg/logger"
)

type fakeSource struct {
	calls   int
	failFor int
	err     error
	series  *dto.PriceSeries
	params  []dto.GetPriceSeriesParam
}

func (f *fakeSource) GetDailyCloses(ctx context.Context, param dto.GetPriceSeriesParam) (*dto.PriceSeries, error) {
	f.calls++
	f.params = append(f.params, param)
	if f.calls <= f.failFor {
		return nil, f.err
	}
	return f.series, nil
}

func realSeries() *dto.PriceSeries {
	return &dto.PriceSeries{
		Ticker: "AAPL",
		Points: []dto.PricePoint{
			{Date: date("2024-03-04"), Close: decimal.NewFromInt(170)},
			{Date: date("2024-03-05"), Close: decimal.NewFromInt(171)},
		},
	}
}

func newTestPriceRepo(source AlphaVantageRepository) PriceRepository {
	cfg := testConfig("http://unused")
	return NewPriceRepository(cfg, logger.NewNop(), source, NewSyntheticGenerator(cfg.Synthetic), cache.NewCache(time.Minute, time.Minute))
}

var param = dto.GetPriceSeriesParam{
	Ticker:    " aapl ",
	StartDate: date("2024-03-01"),
	EndDate:   date("2024-03-08"),
}

func TestPriceRepository_SucceedsAfterRetry(t *testing.T) {
	source := &fakeSource{failFor: 2, err: errors.New("timeout"), series: realSeries()}
	repo := newTestPriceRepo(source)

	series, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.False(t, series.Synthetic)
	assert.Len(t, series.Points, 2)
	assert.Equal(t, 3, source.calls)
	assert.Equal(t, "AAPL", source.params[0].Ticker)
}

func TestPriceRepository_FallsBackToSynthetic(t *testing.T) {
	source := &fakeSource{failFor: 99, err: ErrProviderMessage}
	repo := newTestPriceRepo(source)

	series, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.True(t, series.Synthetic)
	assert.Equal(t, "AAPL", series.Ticker)
	assert.Len(t, series.Points, 6)
	assert.Equal(t, 3, source.calls)
}

func TestPriceRepository_QuotaSkipsRetries(t *testing.T) {
	source := &fakeSource{failFor: 99, err: ErrQuotaExceeded}
	repo := newTestPriceRepo(source)

	series, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.True(t, series.Synthetic)
	assert.Equal(t, 1, source.calls)
}

func TestPriceRepository_CachesProviderData(t *testing.T) {
	source := &fakeSource{series: realSeries()}
	repo := newTestPriceRepo(source)

	_, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	_, err = repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestPriceRepository_DoesNotCacheSynthetic(t *testing.T) {
	source := &fakeSource{failFor: 3, err: errors.New("down"), series: realSeries()}
	repo := newTestPriceRepo(source)

	first, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.True(t, first.Synthetic)

	second, err := repo.GetDailyCloses(context.Background(), param)
	require.NoError(t, err)
	assert.False(t, second.Synthetic)
	assert.Equal(t, 4, source.calls)
}

func TestPriceRepository_InvalidRange(t *testing.T) {
	repo := newTestPriceRepo(&fakeSource{})
	_, err := repo.GetDailyCloses(context.Background(), dto.GetPriceSeriesParam{
		Ticker:    "AAPL",
		StartDate: date("2024-03-08"),
		EndDate:   date("2024-03-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPriceRepository_RangeTooLong(t *testing.T) {
	source := &fakeSource{failFor: 99, err: ErrProviderMessage}
	repo := newTestPriceRepo(source)

	_, err := repo.GetDailyCloses(context.Background(), dto.GetPriceSeriesParam{
		Ticker:    "AAPL",
		StartDate: date("0001-01-02"),
		EndDate:   date("2999-12-31"),
	})
	assert.ErrorIs(t, err, ErrRangeTooLong)
	assert.Equal(t, 0, source.calls)
}

func TestPriceRepository_NoBusinessDays(t *testing.T) {
	repo := newTestPriceRepo(&fakeSource{failFor: 99, err: ErrNoPriceData})
	_, err := repo.GetDailyCloses(context.Background(), dto.GetPriceSeriesParam{
		Ticker:    "AAPL",
		StartDate: date("2024-03-02"),
		EndDate:   date("2024-03-03"),
	})
	assert.ErrorIs(t, err, ErrNoPriceData)
}

func TestPriceRepository_CancelledDuringRetryDelay(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.AlphaVantage.RetryDelay = time.Hour
	source := &fakeSource{failFor: 99, err: errors.New("down")}
	repo := NewPriceRepository(cfg, logger.NewNop(), source, NewSyntheticGenerator(cfg.Synthetic), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := repo.GetDailyCloses(ctx, param)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, source.calls)
}
