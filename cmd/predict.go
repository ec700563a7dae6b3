package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartpark/core/model"
)

var (
	predictWeather string
	predictDayType string
	predictPasses  int
)

var predictCmd = &cobra.Command{
	Use:     "predict HH:MM",
	Short:   "Train, then print the prediction for one observation",
	Args:    cobra.ExactArgs(1),
	Example: "smartpark predict 08:15 --weather Rainy --day-type Weekday",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := model.ParseWeather(predictWeather)
		if err != nil {
			return err
		}
		d, err := model.ParseDayType(predictDayType)
		if err != nil {
			return err
		}
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer closeService(svc)
		if _, err := svc.Train(cmd.Context(), predictPasses); err != nil {
			return err
		}
		res, err := svc.Agent.Predict(args[0], w, d)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictWeather, "weather", "Sunny", "Sunny, Rainy, Cloudy or Stormy")
	predictCmd.Flags().StringVar(&predictDayType, "day-type", "Weekday", "Weekday or Weekend")
	predictCmd.Flags().IntVarP(&predictPasses, "passes", "n", 1, "number of training passes")
	rootCmd.AddCommand(predictCmd)
}
