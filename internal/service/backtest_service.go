package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/internal/indicator"
	"golang-backtester/internal/portfolio"
	"golang-backtester/internal/repository"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/utils"
)

type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	RunSweep(ctx context.Context, req dto.SweepRequest) ([]dto.SweepItem, error)
}

type backtestService struct {
	cfg          *config.Config
	log          *logger.Logger
	priceRepo    repository.PriceRepository
	indicatorCfg indicator.Config
	portfolioCfg portfolio.Config
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	priceRepo repository.PriceRepository,
) BacktestService {
	return &backtestService{
		cfg:          cfg,
		log:          log,
		priceRepo:    priceRepo,
		indicatorCfg: IndicatorConfig(cfg),
		portfolioCfg: PortfolioConfig(cfg),
	}
}

// RunBacktest loads closes for the request window, derives indicators and
// replays them through a fresh portfolio.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	log := s.log.ForTicker(ticker)

	series, err := s.priceRepo.GetDailyCloses(ctx, dto.GetPriceSeriesParam{
		Ticker:    ticker,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to load price series", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to load prices for %s: %w", ticker, err)
	}

	rows := indicator.Compute(series.Points, s.indicatorCfg)
	res := portfolio.Simulate(rows, s.portfolioCfg)
	summary := portfolio.Summarize(res, s.portfolioCfg)

	values := make([]dto.DailyValue, len(rows))
	for i, row := range rows {
		values[i] = dto.DailyValue{Date: row.Date, Value: res.Values[i]}
	}

	result := &dto.BacktestResult{
		Ticker:    ticker,
		StartDate: utils.TruncateDay(req.StartDate),
		EndDate:   utils.TruncateDay(req.EndDate),
		Synthetic: series.Synthetic,
		Summary:   summary,
		Trades:    res.Trades,
		Values:    values,
	}
	if req.IncludeRows {
		result.Rows = rows
	}

	log.InfoContext(ctx, "Backtest completed",
		logger.IntField("rows", len(rows)),
		logger.IntField("trades", summary.TotalTrades),
		logger.BoolField("synthetic", series.Synthetic),
		logger.DecimalField("final_value", summary.FinalValue),
		logger.DecimalField("return_pct", summary.ReturnPct),
	)
	return result, nil
}

// RunSweep backtests every ticker over the same window with at most
// backtest.max_concurrency runs in flight. A failing ticker is reported in
// its item and does not stop the others. Items keep the request order.
func (s *backtestService) RunSweep(ctx context.Context, req dto.SweepRequest) ([]dto.SweepItem, error) {
	start, end := utils.TruncateDay(req.StartDate), utils.TruncateDay(req.EndDate)
	if err := repository.CheckRange(start, end, s.cfg.Backtest.MaxRangeDays); err != nil {
		return nil, err
	}

	tickers := utils.UniqueUpper(req.Tickers)
	items := make([]dto.SweepItem, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Backtest.MaxConcurrency))

	for i, ticker := range tickers {
		if !utils.ShouldContinue(gctx, s.log) {
			break
		}

		g.Go(func() error {
			items[i].Ticker = ticker
			err := utils.Recover(func() error {
				result, err := s.RunBacktest(gctx, dto.BacktestRequest{
					Ticker:    ticker,
					StartDate: req.StartDate,
					EndDate:   req.EndDate,
				})
				if err != nil {
					return err
				}
				items[i].Result = result
				return nil
			})
			if err != nil {
				items[i].Error = err.Error()
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
