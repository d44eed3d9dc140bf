package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vocab-cli",
	Short: "Case vocabulary extraction and personalization engine",
	Long:  "Extracts unusual, case-specific terms from document text via multiple ranked algorithms (entity recognition, phrase co-occurrence, corpus-relative BM25 rarity) and personalizes the ranking from user feedback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
