package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "golang-backtester",
	Short: "Backtest an SMA crossover strategy on daily closes",
	Long: `golang-backtester fetches daily closes from Alpha Vantage, derives SMA/EMA
crossover signals and replays them through a long-only cash account with
stop-loss and take-profit exits.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default ./config.yaml)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(sweepCmd)
}
