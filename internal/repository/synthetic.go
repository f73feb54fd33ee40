package repository

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"golang-backtester/config"
	"golang-backtester/internal/dto"
	"golang-backtester/pkg/utils"
)

// SyntheticGenerator produces placeholder closes when the provider cannot
// be reached. Closes are uniform in [MinPrice, MaxPrice) with cent precision.
type SyntheticGenerator struct {
	min decimal.Decimal
	max decimal.Decimal
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSyntheticGenerator seeds from cfg.Seed, or from the clock when it is 0.
func NewSyntheticGenerator(cfg config.Synthetic) *SyntheticGenerator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticGenerator{
		min: decimal.NewFromFloat(cfg.MinPrice),
		max: decimal.NewFromFloat(cfg.MaxPrice),
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Generate returns one close per business day of [start, end].
func (g *SyntheticGenerator) Generate(ticker string, start, end time.Time) *dto.PriceSeries {
	days := utils.BusinessDays(start, end)
	spread := g.max.Sub(g.min)

	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]dto.PricePoint, 0, len(days))
	for _, day := range days {
		offset := spread.Mul(decimal.NewFromFloat(g.rnd.Float64())).Truncate(2)
		closePrice := g.min.Add(offset)
		if closePrice.GreaterThanOrEqual(g.max) {
			closePrice = g.max.Sub(decimal.New(1, -2))
		}
		points = append(points, dto.PricePoint{Date: day, Close: closePrice})
	}

	return &dto.PriceSeries{
		Ticker:    ticker,
		Points:    points,
		Synthetic: true,
	}
}
