package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/vocab-cli/internal/rarity"
	"github.com/sells-group/vocab-cli/internal/textextract"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus index",
}

var corpusRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the corpus IDF index if the corpus changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		extract, err := textextract.NewExtractor(cfg.TextExtract)
		if err != nil {
			return err
		}
		indexer := rarity.NewIndexer(cfg.Corpus, cfg.Rarity.MinTokenLen, extract)
		idx, err := indexer.Ensure(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Corpus index: %d documents, %d terms, built %s\n",
			idx.DocCount, idx.VocabSize, idx.BuiltAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var corpusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus directory and index status",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := textextract.ScanCorpusDir(cfg.Corpus.Dir, cfg.Corpus.Extensions)
		if err != nil {
			return err
		}
		fmt.Printf("Corpus directory: %s\n", cfg.Corpus.Dir)
		fmt.Printf("Documents:        %d (minimum for rarity scoring: %d)\n",
			len(files), cfg.Rarity.MinCorpusDocs)

		extract, err := textextract.NewExtractor(cfg.TextExtract)
		if err != nil {
			return err
		}
		indexer := rarity.NewIndexer(cfg.Corpus, cfg.Rarity.MinTokenLen, extract)
		if idx := indexer.Cached(); idx != nil {
			fmt.Printf("Index:            %d documents, %d terms, built %s\n",
				idx.DocCount, idx.VocabSize, idx.BuiltAt.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Index:            not built (run 'vocab-cli corpus rebuild')")
		}
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusRebuildCmd)
	corpusCmd.AddCommand(corpusStatusCmd)
	rootCmd.AddCommand(corpusCmd)
}
