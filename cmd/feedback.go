package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/vocab-cli/internal/feedback"
	"github.com/sells-group/vocab-cli/internal/model"
)

var feedbackContextID string

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect term ratings",
}

var feedbackRateCmd = &cobra.Command{
	Use:   "rate <term> <approve|reject|clear>",
	Short: "Rate a term; ratings train the preference model over time",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := args[0]
		var label model.FeedbackLabel
		switch args[1] {
		case "approve", "+1":
			label = model.LabelApproved
		case "reject", "-1":
			label = model.LabelRejected
		case "clear", "0":
			label = model.LabelCleared
		default:
			return eris.Errorf("unknown rating %q: want approve, reject, or clear", args[1])
		}

		store, err := feedback.Open(cfg.Feedback.LogPath)
		if err != nil {
			return err
		}
		if err := store.Record(model.FeedbackRecord{
			Timestamp: time.Now().UTC(),
			ContextID: feedbackContextID,
			Term:      term,
			Label:     label,
		}); err != nil {
			return err
		}
		fmt.Printf("Recorded %s for %q (%d terms currently rated)\n", args[1], term, store.RatedCount())
		return nil
	},
}

var feedbackStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show rating counts and retrain readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := feedback.Open(cfg.Feedback.LogPath)
		if err != nil {
			return err
		}
		fmt.Printf("Feedback log: %s\n", cfg.Feedback.LogPath)
		fmt.Printf("Records:      %d\n", store.TotalRecords())
		fmt.Printf("Rated terms:  %d (training floor: %d)\n",
			store.RatedCount(), cfg.Learner.MinTotalRatings)
		return nil
	},
}

func init() {
	feedbackRateCmd.Flags().StringVar(&feedbackContextID, "context", "", "document context id from the extraction run")
	feedbackCmd.AddCommand(feedbackRateCmd)
	feedbackCmd.AddCommand(feedbackStatusCmd)
	rootCmd.AddCommand(feedbackCmd)
}
