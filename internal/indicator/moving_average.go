package indicator

import "github.com/shopspring/decimal"

// emaPrecision bounds the digits carried from one EMA step to the next.
const emaPrecision int32 = 16

// SMA returns the simple moving average over window for every index. Values
// before the window fills are invalid.
func SMA(closes []decimal.Decimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(closes))
	if window <= 0 {
		return out
	}

	n := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, c := range closes {
		sum = sum.Add(c)
		if i >= window {
			sum = sum.Sub(closes[i-window])
		}
		if i >= window-1 {
			out[i] = decimal.NewNullDecimal(sum.Div(n))
		}
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1), seeded
// with the first close, so it is valid from index 0.
func EMA(closes []decimal.Decimal, span int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(closes))
	if span <= 0 || len(closes) == 0 {
		return out
	}

	alpha := Alpha(span)
	keep := decimal.NewFromInt(1).Sub(alpha)

	prev := closes[0]
	out[0] = decimal.NewNullDecimal(prev)
	for i := 1; i < len(closes); i++ {
		prev = alpha.Mul(closes[i]).Add(keep.Mul(prev)).Round(emaPrecision)
		out[i] = decimal.NewNullDecimal(prev)
	}
	return out
}

// Alpha is the EMA smoothing factor for a span.
func Alpha(span int) decimal.Decimal {
	return decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(span + 1)))
}
