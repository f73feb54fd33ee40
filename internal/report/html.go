package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang-backtester/internal/dto"
	"golang-backtester/pkg/utils"
)

// Data is what the HTML template renders.
type Data struct {
	Result      *dto.BacktestResult
	Summary     []string
	Narrative   []string
	PriceChart  *Chart
	ValueChart  *Chart
	TailHeaders []string
	Tail        [][]string
}

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

func newData(res *dto.BacktestResult) (*Data, error) {
	if res == nil {
		return nil, ErrNoData
	}
	if len(res.Rows) == 0 {
		return nil, ErrRowsRequired
	}

	priceChart, err := createPriceChart(res.Rows)
	if err != nil {
		return nil, err
	}
	valueChart, err := createValueChart(res.Values)
	if err != nil {
		return nil, err
	}

	var summary strings.Builder
	if err := WriteSummary(&summary, res); err != nil {
		return nil, err
	}
	// the first line is the text heading
	lines := strings.Split(strings.TrimSpace(summary.String()), "\n")[1:]

	d := &Data{
		Result:      res,
		Summary:     lines,
		Narrative:   Narrative(res.Trades),
		PriceChart:  priceChart,
		ValueChart:  valueChart,
		TailHeaders: []string{"Date", "Close", "SMA short", "SMA long", "EMA short", "EMA long", "Signal", "Position", "Portfolio value"},
	}
	for i := max(0, len(res.Rows)-TailRows); i < len(res.Rows); i++ {
		row := res.Rows[i]
		value := ""
		if i < len(res.Values) {
			value = res.Values[i].Value.StringFixed(2)
		}
		d.Tail = append(d.Tail, []string{
			utils.FormatDate(row.Date),
			row.Close.StringFixed(2),
			nullable(row.SMAShort),
			nullable(row.SMALong),
			nullable(row.EMAShort),
			nullable(row.EMALong),
			row.Signal.String(),
			row.PositionChange.String(),
			value,
		})
	}
	return d, nil
}

// WriteHTML renders the full report page to w.
func WriteHTML(w io.Writer, res *dto.BacktestResult) error {
	d, err := newData(res)
	if err != nil {
		return err
	}
	return reportTemplate.Execute(w, d)
}

// FileName is the report file name for res inside a report directory.
func FileName(res *dto.BacktestResult) string {
	return fmt.Sprintf("%s_%s_%s.html", res.Ticker, utils.FormatDate(res.StartDate), utils.FormatDate(res.EndDate))
}

// GenerateReport writes the HTML report into dir, creating it if needed,
// and returns the file path.
func GenerateReport(dir string, res *dto.BacktestResult) (string, error) {
	d, err := newData(res)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, FileName(res))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, d); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return path, file.Close()
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Result.Ticker}} backtest</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 24px; color: #2c3e50; }
h1 { font-size: 22px; }
h2 { font-size: 17px; margin-top: 28px; }
.synthetic { color: #c0392b; font-weight: bold; }
table { border-collapse: collapse; font-size: 13px; }
td, th { border: 1px solid #ddd; padding: 4px 8px; text-align: right; }
th { background: #f4f6f7; }
svg { background: #fff; border: 1px solid #eee; }
.axis { stroke: #bbb; stroke-width: 1; }
.grid { stroke: #f0f0f0; stroke-width: 1; }
.tick { font-size: 11px; fill: #7f8c8d; }
.legend span { display: inline-block; margin-right: 16px; font-size: 13px; }
.legend i { display: inline-block; width: 18px; height: 3px; vertical-align: middle; margin-right: 4px; }
</style>
</head>
<body>
<h1>{{.Result.Ticker}} SMA crossover backtest</h1>
{{if .Result.Synthetic}}<p class="synthetic">Market data was unavailable; this run used synthetic prices.</p>{{end}}
<ul>
{{range .Summary}}<li>{{.}}</li>
{{end}}</ul>
{{template "chart" .PriceChart}}
{{template "chart" .ValueChart}}
<h2>Trades</h2>
{{if .Narrative}}<ol>
{{range .Narrative}}<li>{{.}}</li>
{{end}}</ol>{{else}}<p>No trades executed.</p>{{end}}
<h2>Last rows</h2>
<table>
<tr>{{range .TailHeaders}}<th>{{.}}</th>{{end}}</tr>
{{range .Tail}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
{{define "chart"}}
<h2>{{.Title}}</h2>
<div class="legend">{{range .Lines}}<span><i style="background: {{.Color}}"></i>{{.Name}}</span>{{end}}</div>
<svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg">
{{- $c := .}}
{{range .YTicks}}<line class="grid" x1="{{$c.Left}}" x2="{{$c.Right}}" y1="{{.Pos}}" y2="{{.Pos}}"/>
<text class="tick" x="{{$c.Left}}" y="{{.Pos}}" dx="-6" dy="4" text-anchor="end">{{.Label}}</text>
{{end}}
{{range .XTicks}}<text class="tick" x="{{.Pos}}" y="{{$c.Bottom}}" dy="18" text-anchor="middle">{{.Label}}</text>
{{end}}
<line class="axis" x1="{{.Left}}" x2="{{.Left}}" y1="{{.Top}}" y2="{{.Bottom}}"/>
<line class="axis" x1="{{.Left}}" x2="{{.Right}}" y1="{{.Bottom}}" y2="{{.Bottom}}"/>
{{range .Lines}}<polyline fill="none" stroke="{{.Color}}" stroke-width="1.5"{{if .Dashed}} stroke-dasharray="4 3"{{end}} points="{{.Points}}"><title>{{.Name}}</title></polyline>
{{end}}
{{range .Markers}}<path d="{{.Path}}" fill="{{if .Buy}}#27ae60{{else}}#c0392b{{end}}"><title>{{.Label}}</title></path>
{{end}}
</svg>
{{end}}
`
