package portfolio

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes the end-of-run statistics for res.
func Summarize(res Result, cfg Config) dto.BacktestSummary {
	summary := dto.BacktestSummary{
		InitialCash: cfg.InitialCash,
		FinalValue:  cfg.InitialCash,
		TotalTrades: len(res.Trades),
		OpenAtEnd:   res.Final.Holding(),
	}
	if n := len(res.Values); n > 0 {
		summary.FinalValue = res.Values[n-1]
	}
	summary.ProfitLoss = summary.FinalValue.Sub(cfg.InitialCash)
	if cfg.InitialCash.IsPositive() {
		summary.ReturnPct = summary.ProfitLoss.Div(cfg.InitialCash).Mul(hundred).Round(2)
	}

	var entry *dto.TradeRecord
	for i := range res.Trades {
		t := res.Trades[i]
		if t.Action == dto.ActionBuy {
			entry = &res.Trades[i]
			continue
		}
		if entry == nil || !t.Action.IsExit() {
			continue
		}
		summary.RoundTrips++
		if t.Price.GreaterThan(entry.Price) {
			summary.WinningTrips++
		}
		entry = nil
	}
	if summary.RoundTrips > 0 {
		summary.WinRate = decimal.NewFromInt(int64(summary.WinningTrips)).
			Div(decimal.NewFromInt(int64(summary.RoundTrips))).
			Mul(hundred).Round(2)
	}

	summary.MaxDrawdown, summary.MaxDrawdownPct = MaxDrawdown(res.Values)
	return summary
}

// MaxDrawdown returns the largest peak-to-trough decline of values, both
// absolute and as a percentage of the peak.
func MaxDrawdown(values []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero
	}

	peak := values[0]
	worst := decimal.Zero
	worstPct := decimal.Zero
	for _, v := range values[1:] {
		if v.GreaterThan(peak) {
			peak = v
			continue
		}
		dd := peak.Sub(v)
		if dd.GreaterThan(worst) {
			worst = dd
			if peak.IsPositive() {
				worstPct = dd.Div(peak).Mul(hundred).Round(2)
			}
		}
	}
	return worst, worstPct
}
