package portfolio

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

// Step applies the first matching rule to row and returns the next state and
// the trade it executed, if any.
func Step(s State, row dto.IndicatorRow, cfg Config) (State, *dto.TradeRecord) {
	for _, r := range rules {
		if r.match(s, row) {
			return r.apply(s, row, cfg)
		}
	}
	return s, nil
}

// Simulate folds Step over rows starting from a flat account holding
// cfg.InitialCash. Empty rows give empty Values and Trades.
func Simulate(rows []dto.IndicatorRow, cfg Config) Result {
	state := NewState(cfg.InitialCash)
	values := make([]decimal.Decimal, 0, len(rows))
	trades := make([]dto.TradeRecord, 0)

	for _, row := range rows {
		var trade *dto.TradeRecord
		state, trade = Step(state, row, cfg)
		if trade != nil {
			trades = append(trades, *trade)
		}
		values = append(values, state.Value(row.Close))
	}

	return Result{
		Values: values,
		Trades: trades,
		Final:  state,
	}
}
