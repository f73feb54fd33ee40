package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"golang-backtester/internal/dto"
)

var sweepFlags struct {
	tickers []string
	start   string
	end     string
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest several tickers over the same window and compare them",
	RunE:  runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringSliceVar(&sweepFlags.tickers, "tickers", nil, "comma separated tickers (default scheduler.tickers)")
	f.StringVar(&sweepFlags.start, "start", "", "first date, YYYY-MM-DD (default backtest.start_date)")
	f.StringVar(&sweepFlags.end, "end", "", "last date, YYYY-MM-DD (default backtest.end_date)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return fmt.Errorf("failed to create app dependency: %w", err)
	}
	defer appDep.Close()

	window, err := dateRange(appDep, sweepFlags.start, sweepFlags.end)
	if err != nil {
		return err
	}
	req := dto.SweepRequest{
		Tickers:   appDep.cfg.Scheduler.Tickers,
		StartDate: window.StartDate,
		EndDate:   window.EndDate,
	}
	if len(sweepFlags.tickers) > 0 {
		req.Tickers = sweepFlags.tickers
	}
	if err := appDep.validator.Struct(req); err != nil {
		return err
	}

	items, err := appDep.Services().BacktestService.RunSweep(ctx, req)
	if err != nil {
		return err
	}
	return writeSweepTable(cmd, items)
}

func writeSweepTable(cmd *cobra.Command, items []dto.SweepItem) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Ticker\tFinal value\tP/L\tReturn %\tTrades\tWin rate %\tMax DD %\tData\t")
	for _, item := range items {
		if item.Error != "" {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\t\t\t\t\t\n", item.Ticker, item.Error)
			continue
		}
		s := item.Result.Summary
		source := "alpha vantage"
		if item.Result.Synthetic {
			source = "synthetic"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t\n",
			item.Ticker,
			s.FinalValue.StringFixed(2),
			s.ProfitLoss.StringFixed(2),
			s.ReturnPct.StringFixed(2),
			s.TotalTrades,
			s.WinRate.StringFixed(2),
			s.MaxDrawdownPct.StringFixed(2),
			source,
		)
	}
	return tw.Flush()
}
