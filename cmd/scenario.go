package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartpark/qa/scenarios"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario FILE...",
	Short: "Run YAML training scenarios and report failed expectations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			sc, err := scenarios.Load(path)
			if err != nil {
				return err
			}
			res, err := scenarios.Run(sc)
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Name, err)
			}
			status := "PASS"
			if !res.Passed {
				status = "FAIL"
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d updates, mean reward %.3f)\n", status, res.Name, res.Stats.Updates, res.Stats.MeanReward)
			for _, f := range res.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d scenario(s) failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}
