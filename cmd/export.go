package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartpark/pkg/export"
)

var (
	exportFormat string
	exportPasses int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Train, then dump the learned action values as JSON or CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportFormat != "json" && exportFormat != "csv" {
			return fmt.Errorf("unknown format %q", exportFormat)
		}
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer closeService(svc)
		if _, err := svc.Train(cmd.Context(), exportPasses); err != nil {
			return err
		}
		rows := export.Snapshot(svc.Agent.Table())
		if exportFormat == "csv" {
			return export.WriteCSV(cmd.OutOrStdout(), rows)
		}
		return export.WriteJSON(cmd.OutOrStdout(), rows)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or csv")
	exportCmd.Flags().IntVarP(&exportPasses, "passes", "n", 1, "number of training passes")
	rootCmd.AddCommand(exportCmd)
}
