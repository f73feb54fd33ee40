package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// PriceSeries is the ordered close history handed to the indicator engine.
type PriceSeries struct {
	Ticker    string       `json:"ticker"`
	Points    []PricePoint `json:"points"`
	Synthetic bool         `json:"synthetic"`
}

type GetPriceSeriesParam struct {
	Ticker    string    `json:"ticker"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// AlphaVantageDailyResponse mirrors the TIME_SERIES_DAILY payload. The
// provider reports throttling and bad symbols in Note, Information or
// ErrorMessage with a 200 status.
type AlphaVantageDailyResponse struct {
	MetaData     map[string]string                  `json:"Meta Data"`
	TimeSeries   map[string]AlphaVantageDailyCandle `json:"Time Series (Daily)"`
	Note         string                             `json:"Note"`
	Information  string                             `json:"Information"`
	ErrorMessage string                             `json:"Error Message"`
}

type AlphaVantageDailyCandle struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
