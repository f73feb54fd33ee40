package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtester/internal/dto"
	"golang-backtester/internal/indicator"
	"golang-backtester/internal/portfolio"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sampleResult runs the real pipeline over a flat-then-rising series so the
// report sees one buy and one take-profit.
func sampleResult(t *testing.T) *dto.BacktestResult {
	t.Helper()
	prices := make([]dto.PricePoint, 45)
	for i := range prices {
		c := int64(50)
		if i >= 35 {
			c = int64(50 + i - 34)
		}
		prices[i] = dto.PricePoint{Date: day0.AddDate(0, 0, i), Close: decimal.NewFromInt(c)}
	}

	cfg := portfolio.DefaultConfig()
	rows := indicator.Compute(prices, indicator.DefaultConfig())
	res := portfolio.Simulate(rows, cfg)
	values := make([]dto.DailyValue, len(rows))
	for i, row := range rows {
		values[i] = dto.DailyValue{Date: row.Date, Value: res.Values[i]}
	}
	require.Len(t, res.Trades, 2)

	return &dto.BacktestResult{
		Ticker:    "AAPL",
		StartDate: day0,
		EndDate:   day0.AddDate(0, 0, 44),
		Summary:   portfolio.Summarize(res, cfg),
		Trades:    res.Trades,
		Values:    values,
		Rows:      rows,
	}
}

func TestFormatTrade(t *testing.T) {
	date := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		action dto.TradeAction
		want   string
	}{
		{dto.ActionBuy, "Buy 78 shares at $127.43 on 2023-11-20"},
		{dto.ActionSell, "Sell 78 shares at $127.43 on 2023-11-20"},
		{dto.ActionStopLoss, "Stop-loss triggered: Sold 78 shares at $127.43 on 2023-11-20"},
		{dto.ActionTakeProfit, "Take-profit triggered: Sold 78 shares at $127.43 on 2023-11-20"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got := FormatTrade(dto.TradeRecord{Date: date, Action: tt.action, Shares: 78, Price: d("127.43")})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleResult(t)))

	out := buf.String()
	assert.Contains(t, out, "--- Trading Summary ---")
	assert.Contains(t, out, "Initial Cash: $10000.00")
	assert.Contains(t, out, "Final Portfolio Value: $11176.00")
	assert.Contains(t, out, "Profit/Loss: $1176.00 (+11.76%)")
	assert.Contains(t, out, "Trades: 2 (1 round trips, 1 winning, win rate 100.00%)")
	assert.Contains(t, out, "Open Position At End: no")
	assert.NotContains(t, out, "synthetic")

	assert.ErrorIs(t, WriteSummary(&buf, nil), ErrNoData)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult(t)
	require.NoError(t, WriteText(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "Buy 196 shares at $51.00 on 2024-02-05")
	assert.Contains(t, out, "Take-profit triggered: Sold 196 shares at $57.00 on 2024-02-11")
	assert.Contains(t, out, "--- Last 5 Rows of Data ---")

	tail := out[strings.Index(out, "--- Last 5 Rows of Data ---"):]
	lines := strings.Split(strings.TrimSpace(tail), "\n")
	// heading, column header, five rows
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "Portfolio value")
	assert.Contains(t, lines[6], "2024-02-14")
	assert.Contains(t, lines[6], "11176.00")
	assert.Contains(t, lines[6], "LONG")
}

func TestWriteText_WithoutRowsOrTrades(t *testing.T) {
	var buf bytes.Buffer
	res := &dto.BacktestResult{Ticker: "X", Synthetic: true}
	require.NoError(t, WriteText(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "Ticker: X (synthetic data)")
	assert.Contains(t, out, "No trades executed")
	assert.NotContains(t, out, "Last")
}

func TestWriteTail_NaNBeforeWindowFills(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTail(&buf, res.Rows[:3], res.Values[:3], 5))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "NaN")
	assert.Contains(t, lines[1], "FLAT")

	assert.Error(t, WriteTail(&buf, res.Rows, res.Values[:3], 5))
}

func TestCreatePriceChart(t *testing.T) {
	_, err := createPriceChart(nil)
	assert.ErrorIs(t, err, ErrNoData)

	res := sampleResult(t)
	chart, err := createPriceChart(res.Rows)
	require.NoError(t, err)

	require.Len(t, chart.Lines, 5)
	assert.Equal(t, "Close", chart.Lines[0].Name)
	assert.Len(t, chart.Lines[0].LinePlots, 45)
	// long SMA is undefined for the first 29 rows
	assert.Len(t, chart.Lines[2].LinePlots, 16)

	require.Len(t, chart.Markers, 1)
	assert.True(t, chart.Markers[0].Buy)
	assert.Contains(t, chart.Markers[0].Label, "2024-02-05")

	for _, line := range chart.Lines {
		for _, p := range line.LinePlots {
			assert.GreaterOrEqual(t, p.X, float64(paddingLeft))
			assert.LessOrEqual(t, p.X, float64(chartWidth-paddingRight))
			assert.GreaterOrEqual(t, p.Y, float64(paddingTop))
			assert.LessOrEqual(t, p.Y, float64(chartHeight-paddingBot))
		}
	}
}

func TestCreateValueChart_FlatSeries(t *testing.T) {
	values := []dto.DailyValue{
		{Date: day0, Value: d("10000")},
		{Date: day0.AddDate(0, 0, 1), Value: d("10000")},
	}
	chart, err := createValueChart(values)
	require.NoError(t, err)
	require.Len(t, chart.Lines, 1)
	assert.Equal(t, chart.Lines[0].LinePlots[0].Y, chart.Lines[0].LinePlots[1].Y)
	assert.Equal(t, "70.0,170.0 940.0,170.0", chart.Lines[0].Points())
}

func TestMarkerPath(t *testing.T) {
	assert.Equal(t, "M10.0,13.0 L3.0,27.0 L17.0,27.0 Z", Marker{X: 10, Y: 20, Buy: true}.Path())
	assert.Equal(t, "M10.0,27.0 L3.0,13.0 L17.0,13.0 Z", Marker{X: 10, Y: 20}.Path())
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleResult(t)))

	out := buf.String()
	assert.Contains(t, out, "<title>AAPL backtest</title>")
	assert.Contains(t, out, "Price and moving averages")
	assert.Contains(t, out, "Portfolio value")
	assert.Equal(t, 2, strings.Count(out, "<svg"))
	assert.Equal(t, 6, strings.Count(out, "<polyline"))
	assert.Contains(t, out, "#27ae60")
	assert.Contains(t, out, "Buy 196 shares at $51.00 on 2024-02-05")
}

func TestWriteHTML_RequiresRows(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteHTML(&buf, &dto.BacktestResult{Ticker: "X"}), ErrRowsRequired)
	assert.ErrorIs(t, WriteHTML(&buf, nil), ErrNoData)
}

func TestGenerateReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	res := sampleResult(t)

	path, err := GenerateReport(dir, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AAPL_2024-01-01_2024-02-14.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<svg")
}
