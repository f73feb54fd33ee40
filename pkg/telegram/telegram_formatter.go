package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-backtester/pkg/utils"
)

// SummaryLine is one ticker of a sweep report.
type SummaryLine struct {
	Ticker      string
	ReturnPct   float64
	FinalValue  string
	TotalTrades int
	WinRate     float64
	Synthetic   bool
	Err         string
}

// FormatSweepReport renders a sweep as a MarkdownV2 message.
func FormatSweepReport(start, end time.Time, lines []SummaryLine) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("📊 *%s*\n", utils.EscapeMarkdownV2("SMA crossover backtest")))
	builder.WriteString(utils.EscapeMarkdownV2(fmt.Sprintf("%s to %s", utils.FormatDate(start), utils.FormatDate(end))))
	builder.WriteString("\n\n")

	for _, line := range lines {
		if line.Err != "" {
			builder.WriteString(fmt.Sprintf("⚠️ *%s* %s\n", utils.EscapeMarkdownV2(line.Ticker), utils.EscapeMarkdownV2(line.Err)))
			continue
		}

		emoji := "🟢"
		if line.ReturnPct < 0 {
			emoji = "🔴"
		}
		text := fmt.Sprintf("%s value %s, %d trades, win rate %.2f%%",
			utils.FormatPercentage(line.ReturnPct), line.FinalValue, line.TotalTrades, line.WinRate)
		if line.Synthetic {
			text += " (synthetic data)"
		}
		builder.WriteString(fmt.Sprintf("%s *%s* %s\n", emoji, utils.EscapeMarkdownV2(line.Ticker), utils.EscapeMarkdownV2(text)))
	}
	return builder.String()
}

func FormatErrorAlertMessage(at time.Time, errType string, errMsg string) string {
	return utils.EscapeMarkdownV2(fmt.Sprintf("📛 [ERROR ALERT]\n%s\n🔧 %s\n⚠️ %s\n",
		at.UTC().Format(time.RFC3339), errType, errMsg))
}
