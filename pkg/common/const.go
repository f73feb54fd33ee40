package common

// Cache keys. Format arguments are ticker, start date and end date.
const (
	KEY_PRICE_SERIES = "price_series:%s:%s:%s"
)

const (
	SOURCE_ALPHA_VANTAGE = "ALPHA_VANTAGE"
	SOURCE_SYNTHETIC     = "SYNTHETIC"
)
