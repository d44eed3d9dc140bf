package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/vocab-cli/internal/extractor"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude <term>",
	Short: "Permanently suppress a term from future extractions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exclusions, err := extractor.OpenExclusions(cfg.Extractor.ExclusionsPath)
		if err != nil {
			return err
		}
		if err := exclusions.Add(args[0]); err != nil {
			return err
		}
		fmt.Printf("Excluded %q (%d terms on the list)\n", args[0], exclusions.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(excludeCmd)
}
