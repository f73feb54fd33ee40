package indicator

import (
	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
)

// Compute derives every indicator column for prices. An empty input yields
// an empty, non-nil slice.
func Compute(prices []dto.PricePoint, cfg Config) []dto.IndicatorRow {
	rows := make([]dto.IndicatorRow, len(prices))
	if len(prices) == 0 {
		return rows
	}

	closes := make([]decimal.Decimal, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}

	smaShort := SMA(closes, cfg.SMAShortWindow)
	smaLong := SMA(closes, cfg.SMALongWindow)
	emaShort := EMA(closes, cfg.EMAShortSpan)
	emaLong := EMA(closes, cfg.EMALongSpan)
	atr := RollingStdDev(closes, cfg.ATRWindow)
	signals := Signals(smaShort, smaLong, cfg.SignalWarmup)
	changes := PositionChanges(signals)

	for i, p := range prices {
		rows[i] = dto.IndicatorRow{
			PricePoint:     p,
			SMAShort:       smaShort[i],
			SMALong:        smaLong[i],
			EMAShort:       emaShort[i],
			EMALong:        emaLong[i],
			ATRProxy:       atr[i],
			Signal:         signals[i],
			PositionChange: changes[i],
		}
	}
	return rows
}
