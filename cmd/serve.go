package cmd

import "github.com/spf13/cobra"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Train on simulated history and serve the prediction API",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
