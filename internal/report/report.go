// Package report renders a finished backtest as plain text and as a
// self-contained HTML page with SVG charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
	"golang-backtester/pkg/utils"
)

// TailRows is how many trailing rows WriteText prints.
const TailRows = 5

var (
	ErrNoData       = errors.New("no data to report")
	ErrRowsRequired = errors.New("result has no indicator rows")
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return "NaN"
	}
	return d.Decimal.StringFixed(2)
}

// FormatTrade describes one trade as a single log line.
func FormatTrade(t dto.TradeRecord) string {
	body := fmt.Sprintf("%d shares at %s on %s", t.Shares, money(t.Price), utils.FormatDate(t.Date))
	switch t.Action {
	case dto.ActionBuy:
		return "Buy " + body
	case dto.ActionSell:
		return "Sell " + body
	case dto.ActionStopLoss:
		return "Stop-loss triggered: Sold " + body
	case dto.ActionTakeProfit:
		return "Take-profit triggered: Sold " + body
	default:
		return fmt.Sprintf("%s %s", t.Action, body)
	}
}

// Narrative returns one line per trade in execution order.
func Narrative(trades []dto.TradeRecord) []string {
	lines := make([]string, len(trades))
	for i, t := range trades {
		lines[i] = FormatTrade(t)
	}
	return lines
}

func WriteSummary(w io.Writer, res *dto.BacktestResult) error {
	if res == nil {
		return ErrNoData
	}
	s := res.Summary

	source := ""
	if res.Synthetic {
		source = " (synthetic data)"
	}
	openAtEnd := "no"
	if s.OpenAtEnd {
		openAtEnd = "yes"
	}

	lines := []string{
		"--- Trading Summary ---",
		fmt.Sprintf("Ticker: %s%s", res.Ticker, source),
		fmt.Sprintf("Period: %s to %s", utils.FormatDate(res.StartDate), utils.FormatDate(res.EndDate)),
		fmt.Sprintf("Initial Cash: %s", money(s.InitialCash)),
		fmt.Sprintf("Final Portfolio Value: %s", money(s.FinalValue)),
		fmt.Sprintf("Profit/Loss: %s (%s)", money(s.ProfitLoss), utils.FormatPercentage(s.ReturnPct.InexactFloat64())),
		fmt.Sprintf("Trades: %d (%d round trips, %d winning, win rate %s%%)", s.TotalTrades, s.RoundTrips, s.WinningTrips, s.WinRate.StringFixed(2)),
		fmt.Sprintf("Max Drawdown: %s (%s%%)", money(s.MaxDrawdown), s.MaxDrawdownPct.StringFixed(2)),
		fmt.Sprintf("Open Position At End: %s", openAtEnd),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteTail prints the last n rows with their portfolio value. values must
// be aligned with rows.
func WriteTail(w io.Writer, rows []dto.IndicatorRow, values []dto.DailyValue, n int) error {
	if len(rows) != len(values) {
		return fmt.Errorf("rows and values differ in length: %d != %d", len(rows), len(values))
	}
	start := max(0, len(rows)-n)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tClose\tSMA short\tSMA long\tEMA short\tEMA long\tATR proxy\tSignal\tPosition\tPortfolio value\t")
	for i := start; i < len(rows); i++ {
		row := rows[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			utils.FormatDate(row.Date),
			row.Close.StringFixed(2),
			nullable(row.SMAShort),
			nullable(row.SMALong),
			nullable(row.EMAShort),
			nullable(row.EMALong),
			nullable(row.ATRProxy),
			row.Signal,
			row.PositionChange,
			values[i].Value.StringFixed(2),
		)
	}
	return tw.Flush()
}

// WriteText prints the summary, the trade narrative and the tail table.
// The tail needs res.Rows, so run the backtest with IncludeRows.
func WriteText(w io.Writer, res *dto.BacktestResult) error {
	if err := WriteSummary(w, res); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n--- Trades ---\n"); err != nil {
		return err
	}
	if len(res.Trades) == 0 {
		if _, err := io.WriteString(w, "No trades executed\n"); err != nil {
			return err
		}
	}
	for _, line := range Narrative(res.Trades) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}

	if len(res.Rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n--- Last %d Rows of Data ---\n", min(TailRows, len(res.Rows))); err != nil {
		return err
	}
	return WriteTail(w, res.Rows, res.Values, TailRows)
}
