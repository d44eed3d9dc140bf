package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the preference model from the feedback history",
	Long:  "Scans the full feedback log, rebuilds the per-term training set (latest rating wins), and fits a fresh classifier. Fails without touching the existing model when either class has too few examples.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Extractor.Train(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Trained on %d terms (%d approved, %d rejected) at %s\n",
			result.Samples, result.Positive, result.Negative,
			result.TrainedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
