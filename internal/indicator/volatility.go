package indicator

import (
	"math"

	"github.com/shopspring/decimal"
)

// RollingStdDev is the sample standard deviation (n-1 denominator) of the
// closes over window. It stands in for ATR because only closes are
// available; it is not a true-range measure.
func RollingStdDev(closes []decimal.Decimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(closes))
	if window < 2 {
		return out
	}

	n := decimal.NewFromInt(int64(window))
	dof := decimal.NewFromInt(int64(window - 1))
	for i := window - 1; i < len(closes); i++ {
		slice := closes[i-window+1 : i+1]

		sum := decimal.Zero
		for _, c := range slice {
			sum = sum.Add(c)
		}
		mean := sum.Div(n)

		sq := decimal.Zero
		for _, c := range slice {
			d := c.Sub(mean)
			sq = sq.Add(d.Mul(d))
		}
		variance := sq.Div(dof)

		// decimal has no square root
		std := math.Sqrt(variance.InexactFloat64())
		out[i] = decimal.NewNullDecimal(decimal.NewFromFloat(std))
	}
	return out
}
