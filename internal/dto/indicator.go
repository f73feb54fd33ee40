package dto

import "github.com/shopspring/decimal"

type Signal int

const (
	SignalFlat Signal = 0
	SignalLong Signal = 1
)

func (s Signal) String() string {
	if s == SignalLong {
		return "LONG"
	}
	return "FLAT"
}

// PositionChange is the first difference of Signal.
type PositionChange int

const (
	PositionExit  PositionChange = -1
	PositionNone  PositionChange = 0
	PositionEnter PositionChange = 1
)

func (p PositionChange) String() string {
	switch p {
	case PositionEnter:
		return "ENTER"
	case PositionExit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// IndicatorRow is a PricePoint with its derived columns. Invalid NullDecimal
// fields mean the window has not filled yet.
type IndicatorRow struct {
	PricePoint
	SMAShort       decimal.NullDecimal `json:"sma_short"`
	SMALong        decimal.NullDecimal `json:"sma_long"`
	EMAShort       decimal.NullDecimal `json:"ema_short"`
	EMALong        decimal.NullDecimal `json:"ema_long"`
	ATRProxy       decimal.NullDecimal `json:"atr_proxy"`
	Signal         Signal              `json:"signal"`
	PositionChange PositionChange      `json:"position_change"`
}
