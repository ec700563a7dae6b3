package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartpark/core/runlog"
)

var trainPasses int

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run training passes over simulated history and print the run records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer closeService(svc)
		recs, err := svc.Train(cmd.Context(), trainPasses)
		if err != nil {
			return err
		}
		return writeRecords(cmd, recs)
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded training runs, most recent first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer closeService(svc)
		recs, err := svc.Runs(cmd.Context(), runlog.Query{Limit: runsLimit})
		if err != nil {
			return err
		}
		return writeRecords(cmd, recs)
	},
}

func init() {
	trainCmd.Flags().IntVarP(&trainPasses, "passes", "n", 1, "number of training passes")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "maximum number of runs to list")
	rootCmd.AddCommand(trainCmd, runsCmd)
}

func writeRecords(cmd *cobra.Command, recs []runlog.RunRecord) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
