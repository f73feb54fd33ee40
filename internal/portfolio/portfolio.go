// Package portfolio replays indicator rows through a single-asset,
// long-only cash account with stop-loss and take-profit exits.
//
// A run is a fold: Simulate threads a State through Step once per row in
// time order. A State belongs to one run only, so separate runs can execute
// in parallel without coordination.
package portfolio

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

// Config holds the account parameters of a run.
type Config struct {
	InitialCash   decimal.Decimal
	StopLossPct   decimal.Decimal
	TakeProfitPct decimal.Decimal
}

// DefaultConfig is 10,000 cash with a 5% stop and a 10% target.
func DefaultConfig() Config {
	return Config{
		InitialCash:   decimal.NewFromInt(10000),
		StopLossPct:   decimal.RequireFromString("0.95"),
		TakeProfitPct: decimal.RequireFromString("1.10"),
	}
}

// Position is an open long holding. It only exists while Shares > 0.
type Position struct {
	Shares     int64
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
}

// State is the account carried from one row to the next.
type State struct {
	Cash     decimal.Decimal
	Position *Position
}

// NewState opens a flat account holding cash.
func NewState(cash decimal.Decimal) State {
	return State{Cash: cash}
}

// Holding reports whether the account has shares.
func (s State) Holding() bool {
	return s.Position != nil && s.Position.Shares > 0
}

// Shares is the held share count, 0 when flat.
func (s State) Shares() int64 {
	if !s.Holding() {
		return 0
	}
	return s.Position.Shares
}

// Value marks the account to close.
func (s State) Value(close decimal.Decimal) decimal.Decimal {
	return s.Cash.Add(close.Mul(decimal.NewFromInt(s.Shares())))
}

// Result is the output of Simulate. Values is aligned with the input rows.
type Result struct {
	Values []decimal.Decimal
	Trades []dto.TradeRecord
	Final  State
}
