package portfolio

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

// rule is one entry of the trade decision list. Rules are tried in order and
// the first whose match returns true decides the row, even when apply ends
// up not trading.
type rule struct {
	name  string
	match func(s State, row dto.IndicatorRow) bool
	apply func(s State, row dto.IndicatorRow, cfg Config) (State, *dto.TradeRecord)
}

// rules is the decision order: entry, signal exit, then risk exit.
var rules = []rule{
	{
		name: "enter",
		match: func(s State, row dto.IndicatorRow) bool {
			return row.PositionChange == dto.PositionEnter && !s.Holding()
		},
		apply: enter,
	},
	{
		name: "exit_signal",
		match: func(s State, row dto.IndicatorRow) bool {
			return row.PositionChange == dto.PositionExit && s.Holding()
		},
		apply: func(s State, row dto.IndicatorRow, _ Config) (State, *dto.TradeRecord) {
			return closePosition(s, row, dto.ActionSell)
		},
	},
	{
		name: "risk_exit",
		match: func(s State, row dto.IndicatorRow) bool {
			return s.Holding() && riskAction(s.Position, row.Close) != ""
		},
		apply: func(s State, row dto.IndicatorRow, _ Config) (State, *dto.TradeRecord) {
			return closePosition(s, row, riskAction(s.Position, row.Close))
		},
	},
}

// enter buys as many whole shares as the cash covers. Zero affordable
// shares is a no-op rather than an error.
func enter(s State, row dto.IndicatorRow, cfg Config) (State, *dto.TradeRecord) {
	if !row.Close.IsPositive() {
		return s, nil
	}

	// QuoRem with precision 0 is an exact integer division, unlike Div which
	// rounds to DivisionPrecision and could round a quotient up.
	q, _ := s.Cash.QuoRem(row.Close, 0)
	shares := q.IntPart()
	if shares <= 0 {
		return s, nil
	}

	cost := row.Close.Mul(decimal.NewFromInt(shares))
	next := State{
		Cash: s.Cash.Sub(cost),
		Position: &Position{
			Shares:     shares,
			EntryPrice: row.Close,
			StopLoss:   row.Close.Mul(cfg.StopLossPct),
			TakeProfit: row.Close.Mul(cfg.TakeProfitPct),
		},
	}
	return next, &dto.TradeRecord{
		Date:   row.Date,
		Action: dto.ActionBuy,
		Shares: shares,
		Price:  row.Close,
	}
}

func closePosition(s State, row dto.IndicatorRow, action dto.TradeAction) (State, *dto.TradeRecord) {
	shares := s.Position.Shares
	next := State{
		Cash: s.Cash.Add(row.Close.Mul(decimal.NewFromInt(shares))),
	}
	return next, &dto.TradeRecord{
		Date:   row.Date,
		Action: action,
		Shares: shares,
		Price:  row.Close,
	}
}

// riskAction returns the exit triggered by close, or "" when neither
// threshold is crossed. A close at or under the stop wins over the target.
func riskAction(p *Position, close decimal.Decimal) dto.TradeAction {
	if close.LessThanOrEqual(p.StopLoss) {
		return dto.ActionStopLoss
	}
	if close.GreaterThanOrEqual(p.TakeProfit) {
		return dto.ActionTakeProfit
	}
	return ""
}
