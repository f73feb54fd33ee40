package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BacktestRequest defines the parameters of one backtest run.
type BacktestRequest struct {
	Ticker      string    `json:"ticker" validate:"required,max=16"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	IncludeRows bool      `json:"include_rows"`
}

// SweepRequest runs the same window over several tickers.
type SweepRequest struct {
	Tickers   []string  `json:"tickers" validate:"required,min=1,max=50,dive,required,max=16"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

type TradeAction string

const (
	ActionBuy        TradeAction = "BUY"
	ActionSell       TradeAction = "SELL"
	ActionStopLoss   TradeAction = "STOP_LOSS"
	ActionTakeProfit TradeAction = "TAKE_PROFIT"
)

// IsExit reports whether the action closes a position.
func (a TradeAction) IsExit() bool {
	return a == ActionSell || a == ActionStopLoss || a == ActionTakeProfit
}

// TradeRecord is appended once per executed trade and never mutated.
type TradeRecord struct {
	Date   time.Time       `json:"date"`
	Action TradeAction     `json:"action"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
}

// Amount is the cash moved by the trade.
func (t TradeRecord) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares))
}

// DailyValue is the portfolio total at one row's close.
type DailyValue struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// BacktestSummary holds the statistics printed after a run.
type BacktestSummary struct {
	InitialCash    decimal.Decimal `json:"initial_cash"`
	FinalValue     decimal.Decimal `json:"final_value"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
	ReturnPct      decimal.Decimal `json:"return_pct"`
	TotalTrades    int             `json:"total_trades"`
	RoundTrips     int             `json:"round_trips"`
	WinningTrips   int             `json:"winning_trips"`
	WinRate        decimal.Decimal `json:"win_rate"`
	MaxDrawdown    decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownPct decimal.Decimal `json:"max_drawdown_pct"`
	OpenAtEnd      bool            `json:"open_at_end"`
}

// BacktestResult is everything a reporting collaborator needs.
type BacktestResult struct {
	Ticker    string          `json:"ticker"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Synthetic bool            `json:"synthetic"`
	Summary   BacktestSummary `json:"summary"`
	Trades    []TradeRecord   `json:"trades"`
	Values    []DailyValue    `json:"values,omitempty"`
	Rows      []IndicatorRow  `json:"rows,omitempty"`
}

// SweepItem is one ticker's outcome inside a sweep. Error is set instead of
// Result when the run failed.
type SweepItem struct {
	Ticker string          `json:"ticker"`
	Result *BacktestResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}
