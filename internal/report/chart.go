package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"golang-backtester/internal/dto"
	"golang-backtester/pkg/utils"
)

const (
	chartWidth   = 960
	chartHeight  = 360
	paddingLeft  = 70
	paddingRight = 20
	paddingTop   = 20
	paddingBot   = 40
	yTickCount   = 5
	xTickCount   = 6
)

// LinePlot is one point of a line in SVG coordinates.
type LinePlot struct {
	X float64
	Y float64
}

type ChartLine struct {
	Name      string
	Color     string
	Dashed    bool
	LinePlots []LinePlot
}

// Points renders the line as an SVG polyline points attribute.
func (l ChartLine) Points() string {
	var b strings.Builder
	for i, p := range l.LinePlots {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", p.X, p.Y)
	}
	return b.String()
}

// Marker is a buy or sell annotation on the price chart.
type Marker struct {
	X     float64
	Y     float64
	Buy   bool
	Label string
}

// Path draws a small triangle: pointing up for buys, down for sells.
func (m Marker) Path() string {
	const s = 7.0
	if m.Buy {
		return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f Z", m.X, m.Y-s, m.X-s, m.Y+s, m.X+s, m.Y+s)
	}
	return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f Z", m.X, m.Y+s, m.X-s, m.Y-s, m.X+s, m.Y-s)
}

type Tick struct {
	Pos   float64
	Label string
}

type Chart struct {
	Title   string
	Width   int
	Height  int
	Left    float64
	Right   float64
	Top     float64
	Bottom  float64
	Lines   []ChartLine
	Markers []Marker
	XTicks  []Tick
	YTicks  []Tick
}

// scale maps row indexes and values onto the plot area.
type scale struct {
	n        int
	min, max float64
}

func newScale(n int, values []float64) scale {
	s := scale{n: n}
	for i, v := range values {
		if i == 0 || v < s.min {
			s.min = v
		}
		if i == 0 || v > s.max {
			s.max = v
		}
	}
	if s.max == s.min {
		s.min--
		s.max++
	}
	return s
}

func (s scale) x(i int) float64 {
	width := float64(chartWidth - paddingLeft - paddingRight)
	if s.n <= 1 {
		return paddingLeft + width/2
	}
	return paddingLeft + float64(i)*width/float64(s.n-1)
}

func (s scale) y(v float64) float64 {
	height := float64(chartHeight - paddingTop - paddingBot)
	return paddingTop + (s.max-v)/(s.max-s.min)*height
}

func newChart(title string, s scale, dates []dto.DailyValue) *Chart {
	c := &Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Left:   paddingLeft,
		Right:  chartWidth - paddingRight,
		Top:    paddingTop,
		Bottom: chartHeight - paddingBot,
	}
	for i := 0; i < yTickCount; i++ {
		v := s.min + (s.max-s.min)*float64(i)/float64(yTickCount-1)
		c.YTicks = append(c.YTicks, Tick{Pos: s.y(v), Label: fmt.Sprintf("%.2f", v)})
	}

	step := max(1, len(dates)/(xTickCount-1))
	for i := 0; i < len(dates); i += step {
		c.XTicks = append(c.XTicks, Tick{Pos: s.x(i), Label: utils.FormatDate(dates[i].Date)})
	}
	return c
}

// createPriceChart plots the close with its moving averages and marks the
// rows where the crossover signal enters or exits.
func createPriceChart(rows []dto.IndicatorRow) (*Chart, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	series := []struct {
		name   string
		color  string
		dashed bool
		get    func(dto.IndicatorRow) decimal.NullDecimal
	}{
		{"Close", "#7f8c8d", false, func(r dto.IndicatorRow) decimal.NullDecimal { return decimal.NewNullDecimal(r.Close) }},
		{"SMA short", "#2980b9", false, func(r dto.IndicatorRow) decimal.NullDecimal { return r.SMAShort }},
		{"SMA long", "#e67e22", false, func(r dto.IndicatorRow) decimal.NullDecimal { return r.SMALong }},
		{"EMA short", "#8e44ad", true, func(r dto.IndicatorRow) decimal.NullDecimal { return r.EMAShort }},
		{"EMA long", "#16a085", true, func(r dto.IndicatorRow) decimal.NullDecimal { return r.EMALong }},
	}

	var all []float64
	for _, row := range rows {
		for _, s := range series {
			if v := s.get(row); v.Valid {
				all = append(all, v.Decimal.InexactFloat64())
			}
		}
	}
	sc := newScale(len(rows), all)

	dates := make([]dto.DailyValue, len(rows))
	for i, row := range rows {
		dates[i] = dto.DailyValue{Date: row.Date}
	}
	chart := newChart("Price and moving averages", sc, dates)

	for _, s := range series {
		line := ChartLine{Name: s.name, Color: s.color, Dashed: s.dashed}
		for i, row := range rows {
			if v := s.get(row); v.Valid {
				line.LinePlots = append(line.LinePlots, LinePlot{X: sc.x(i), Y: sc.y(v.Decimal.InexactFloat64())})
			}
		}
		chart.Lines = append(chart.Lines, line)
	}

	for i, row := range rows {
		if row.PositionChange == dto.PositionNone {
			continue
		}
		buy := row.PositionChange == dto.PositionEnter
		label := "Sell signal"
		if buy {
			label = "Buy signal"
		}
		chart.Markers = append(chart.Markers, Marker{
			X:     sc.x(i),
			Y:     sc.y(row.Close.InexactFloat64()),
			Buy:   buy,
			Label: fmt.Sprintf("%s %s at %s", label, utils.FormatDate(row.Date), row.Close.StringFixed(2)),
		})
	}
	return chart, nil
}

// createValueChart plots the portfolio value over time.
func createValueChart(values []dto.DailyValue) (*Chart, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = v.Value.InexactFloat64()
	}
	sc := newScale(len(values), floats)

	chart := newChart("Portfolio value", sc, values)
	line := ChartLine{Name: "Portfolio value", Color: "#27ae60"}
	for i, v := range floats {
		line.LinePlots = append(line.LinePlots, LinePlot{X: sc.x(i), Y: sc.y(v)})
	}
	chart.Lines = append(chart.Lines, line)
	return chart, nil
}
