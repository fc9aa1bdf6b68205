package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duskcap/optionengine/pkg/history"
)

var (
	flagHistoryPath  string
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded pricing calls",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryPath, "db", "pricectl_history.db", "path to the SQLite history file")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "number of recent calls to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := history.Open(flagHistoryPath)
	if err != nil {
		return fmt.Errorf("pricectl: open history db: %w", err)
	}
	defer db.Close()

	records, err := db.Recent(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("pricectl: read history: %w", err)
	}

	for _, r := range records {
		fmt.Printf("%s  %-18s %-4s  spot=%.4f strike=%.4f price=%.6f (%.2fms)\n",
			r.Timestamp.Format("2006-01-02T15:04:05"), r.Method, r.Side, r.Spot, r.Strike, r.Price, r.ComputeMS)
	}
	return nil
}
