// Command-line client for the option pricing engine.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "pricectl",
	Short:   "Command-line client for the option pricing engine",
	Long:    `pricectl prices European, American, Asian, barrier, and lookback options against the in-process pricing engine.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (not read by the price or history subcommands)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (no effect on the price or history subcommands)")

	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
