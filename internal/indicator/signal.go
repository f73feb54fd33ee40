package indicator

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

// Signals marks a row Long when the short SMA is strictly above the long SMA
// and the row index has reached warmup-1. Equal or undefined averages are
// Flat.
func Signals(short, long []decimal.NullDecimal, warmup int) []dto.Signal {
	out := make([]dto.Signal, len(short))
	for i := range short {
		if i < warmup-1 || i >= len(long) {
			continue
		}
		if !short[i].Valid || !long[i].Valid {
			continue
		}
		if short[i].Decimal.GreaterThan(long[i].Decimal) {
			out[i] = dto.SignalLong
		}
	}
	return out
}

// PositionChanges is the first difference of signals; row 0 is always None.
func PositionChanges(signals []dto.Signal) []dto.PositionChange {
	out := make([]dto.PositionChange, len(signals))
	for i := 1; i < len(signals); i++ {
		out[i] = dto.PositionChange(signals[i] - signals[i-1])
	}
	return out
}
