// Package indicator derives moving averages, a volatility proxy and the
// crossover signal from a daily close series.
//
// Every function here is a pure function of its input: nothing is cached
// between calls, so columns may be computed independently of each other.
package indicator

// Config holds the window lengths used by Compute.
type Config struct {
	SMAShortWindow int
	SMALongWindow  int
	EMAShortSpan   int
	EMALongSpan    int
	ATRWindow      int
	SignalWarmup   int
}

// DefaultConfig returns the 10/30 crossover setup.
func DefaultConfig() Config {
	return Config{
		SMAShortWindow: 10,
		SMALongWindow:  30,
		EMAShortSpan:   10,
		EMALongSpan:    30,
		ATRWindow:      14,
		SignalWarmup:   30,
	}
}
