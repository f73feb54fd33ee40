package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-backtester/internal/dto"
	"golang-backtester/internal/report"
	"golang-backtester/pkg/logger"
	"golang-backtester/pkg/utils"
)

var backtestFlags struct {
	ticker    string
	start     string
	end       string
	report    bool
	reportDir string
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one backtest and print the summary, trades and last rows",
	RunE:  runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.ticker, "ticker", "", "ticker symbol (default backtest.ticker)")
	f.StringVar(&backtestFlags.start, "start", "", "first date, YYYY-MM-DD (default backtest.start_date)")
	f.StringVar(&backtestFlags.end, "end", "", "last date, YYYY-MM-DD (default backtest.end_date)")
	f.BoolVar(&backtestFlags.report, "report", false, "also write the HTML chart report")
	f.StringVar(&backtestFlags.reportDir, "report-dir", "", "directory for the HTML report (default backtest.report_dir)")
}

// dateRange resolves --start/--end against the configured defaults.
func dateRange(appDep *AppDependency, startFlag, endFlag string) (dto.BacktestRequest, error) {
	start, end := appDep.cfg.Backtest.StartDate, appDep.cfg.Backtest.EndDate
	if startFlag != "" {
		start = startFlag
	}
	if endFlag != "" {
		end = endFlag
	}

	startDate, err := utils.ParseDate(start)
	if err != nil {
		return dto.BacktestRequest{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := utils.ParseDate(end)
	if err != nil {
		return dto.BacktestRequest{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return dto.BacktestRequest{StartDate: startDate, EndDate: endDate}, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return fmt.Errorf("failed to create app dependency: %w", err)
	}
	defer appDep.Close()

	req, err := dateRange(appDep, backtestFlags.start, backtestFlags.end)
	if err != nil {
		return err
	}
	req.Ticker = appDep.cfg.Backtest.Ticker
	if backtestFlags.ticker != "" {
		req.Ticker = backtestFlags.ticker
	}
	req.IncludeRows = true
	if err := appDep.validator.Struct(req); err != nil {
		return err
	}

	result, err := appDep.Services().BacktestService.RunBacktest(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.WriteText(out, result); err != nil {
		return err
	}

	if !backtestFlags.report {
		return nil
	}
	dir := appDep.cfg.Backtest.ReportDir
	if backtestFlags.reportDir != "" {
		dir = backtestFlags.reportDir
	}
	path, err := report.GenerateReport(dir, result)
	if err != nil {
		return err
	}
	appDep.log.Info("Report written", logger.StringField("path", path))
	fmt.Fprintf(out, "\nReport written to %s\n", path)
	return nil
}
