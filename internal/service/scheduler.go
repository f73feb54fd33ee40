package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/telegram"
	"golang-backtester/pkg/utils"
)

// ErrJobRunning is returned by Execute while a previous sweep is still going.
var ErrJobRunning = errors.New("scheduled sweep is already running")

type SchedulerService interface {
	// Execute runs the configured sweep once, now.
	Execute(ctx context.Context) error
	// Start registers the cron schedule. It is a no-op when the scheduler is
	// disabled.
	Start(ctx context.Context) error
	Stop()
	NextRun() (time.Time, bool)
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	backtest   BacktestService
	notifier   telegram.Notifier
	cronParser cron.Parser
	cron       *cron.Cron
	entryID    cron.EntryID
	semaphore  chan struct{}
	now        func() time.Time
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	backtest BacktestService,
	notifier telegram.Notifier,
) *schedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		backtest:   backtest,
		notifier:   notifier,
		cronParser: parser,
		cron:       cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		semaphore:  make(chan struct{}, 1),
		now:        time.Now,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler is disabled")
		return nil
	}

	if _, err := s.cronParser.Parse(s.cfg.Scheduler.CronExpression); err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", s.cfg.Scheduler.CronExpression, err)
	}

	id, err := s.cron.AddFunc(s.cfg.Scheduler.CronExpression, func() {
		if err := s.Execute(ctx); err != nil && !errors.Is(err, ErrJobRunning) {
			s.log.ErrorContext(ctx, "Scheduled sweep failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register scheduled sweep: %w", err)
	}
	s.entryID = id
	s.cron.Start()

	next, _ := s.NextRun()
	s.log.Info("Scheduler started",
		logger.StringField("cron_expression", s.cfg.Scheduler.CronExpression),
		logger.StringField("next_run", next.Format(time.RFC3339)),
	)
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

// NextRun reports when the registered sweep fires next.
func (s *schedulerService) NextRun() (time.Time, bool) {
	if s.entryID == 0 {
		return time.Time{}, false
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Next, true
}

func (s *schedulerService) Execute(ctx context.Context) error {
	select {
	case s.semaphore <- struct{}{}:
	default:
		s.log.WarnContext(ctx, "Skipping sweep, previous run still in progress")
		return ErrJobRunning
	}
	defer func() { <-s.semaphore }()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.Timeout)
	defer cancel()

	end := utils.TruncateDay(s.now().UTC())
	start := end.AddDate(0, 0, -s.cfg.Scheduler.LookbackDays)
	tickers := utils.UniqueUpper(s.cfg.Scheduler.Tickers)
	if len(tickers) == 0 {
		s.log.InfoContext(ctx, "No tickers to sweep")
		return nil
	}

	s.log.InfoContext(ctx, "Start running scheduled sweep",
		logger.Field("tickers", tickers),
		logger.DateField("start_date", start),
		logger.DateField("end_date", end),
	)

	items, err := s.backtest.RunSweep(ctx, dto.SweepRequest{
		Tickers:   tickers,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		s.notifyError(ctx, err)
		return fmt.Errorf("failed to run sweep: %w", err)
	}

	lines := make([]telegram.SummaryLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, toSummaryLine(item))
		if item.Error != "" {
			s.log.WarnContext(ctx, "Ticker failed in sweep",
				logger.TickerField(item.Ticker),
				logger.StringField("error", item.Error))
			continue
		}
		s.log.InfoContext(ctx, "Sweep result",
			logger.TickerField(item.Ticker),
			logger.DecimalField("final_value", item.Result.Summary.FinalValue),
			logger.DecimalField("return_pct", item.Result.Summary.ReturnPct),
			logger.IntField("trades", item.Result.Summary.TotalTrades),
			logger.BoolField("synthetic", item.Result.Synthetic),
		)
	}

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, telegram.FormatSweepReport(start, end, lines)); err != nil {
		return fmt.Errorf("failed to send sweep report: %w", err)
	}
	return nil
}

func (s *schedulerService) notifyError(ctx context.Context, err error) {
	if s.notifier == nil {
		return
	}
	msg := telegram.FormatErrorAlertMessage(s.now(), "scheduled sweep", err.Error())
	// the sweep context may already be done
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if notifyErr := s.notifier.Notify(notifyCtx, msg); notifyErr != nil {
		s.log.ErrorContext(ctx, "Failed to send error alert", logger.ErrorField(notifyErr))
	}
}

func toSummaryLine(item dto.SweepItem) telegram.SummaryLine {
	if item.Error != "" || item.Result == nil {
		return telegram.SummaryLine{Ticker: item.Ticker, Err: item.Error}
	}
	summary := item.Result.Summary
	return telegram.SummaryLine{
		Ticker:      item.Ticker,
		ReturnPct:   summary.ReturnPct.InexactFloat64(),
		FinalValue:  summary.FinalValue.StringFixed(2),
		TotalTrades: summary.TotalTrades,
		WinRate:     summary.WinRate.InexactFloat64(),
		Synthetic:   item.Result.Synthetic,
	}
}
