package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/vocab-cli/internal/extractor"
)

var (
	extractFile     string
	extractJSON     bool
	extractByRarity bool
	extractDocHint  int
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract case-specific vocabulary from document text",
	Long:  "Runs every enabled extraction algorithm over the given text (argument, --file, or stdin), merges and scores the candidates, and prints the ranked vocabulary report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		env, err := initEngine()
		if err != nil {
			return err
		}
		defer env.Close()

		contextID := uuid.New().String()
		entries, err := env.Extractor.Extract(cmd.Context(), text, extractor.Options{
			ContextID:         contextID,
			DocumentCountHint: extractDocHint,
			SortByRarity:      extractByRarity,
		})
		if err != nil {
			return err
		}

		if extractJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		fmt.Printf("Context: %s\n", contextID)
		fmt.Printf("%-30s %-14s %7s %5s %6s  %s\n", "TERM", "CATEGORY", "QUALITY", "FREQ", "CORPUS", "ALGORITHMS")
		for _, e := range entries {
			corpus := fmt.Sprintf("%d", e.CorpusRank)
			if e.CorpusRank == 0 {
				corpus = "-"
			}
			fmt.Printf("%-30s %-14s %7.1f %5d %6s  %v\n",
				e.Term, e.Category, e.QualityScore, e.Frequency, corpus, e.Algorithms)
		}
		return nil
	},
}

// readInput resolves the document text from the argument, --file, or stdin.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if extractFile != "" {
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return "", eris.Wrapf(err, "read input %s", extractFile)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", eris.Wrap(err, "read stdin")
	}
	if len(data) == 0 {
		return "", eris.New("no input text: pass an argument, --file, or pipe to stdin")
	}
	return string(data), nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "read document text from file")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "emit JSON instead of a table")
	extractCmd.Flags().BoolVar(&extractByRarity, "by-rarity", false, "sort by corpus rarity instead of quality score")
	extractCmd.Flags().IntVar(&extractDocHint, "doc-count", 0, "hint: number of documents concatenated in the input")
	rootCmd.AddCommand(extractCmd)
}
