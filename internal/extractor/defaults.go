package extractor

import (
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/rarity"
	"github.com/sells-group/vocab-cli/internal/textextract"
)

// DefaultRegistry assembles the standard strategy set: entity recognition,
// phrase co-occurrence, and, when enabled and the reference corpus is large
// enough, the BM25 rarity engine.
func DefaultRegistry(cfg *config.Config, extract textextract.Extractor) (*algorithm.Registry, *rarity.Indexer, error) {
	reg := algorithm.NewRegistry()

	weight := func(name string) float64 {
		if w, ok := cfg.Merger.Weights[name]; ok && w > 0 {
			return w
		}
		return 1.0
	}

	if err := reg.Register(algorithm.EntityName, func() (algorithm.Extractor, error) {
		return algorithm.NewEntityExtractor(weight(algorithm.EntityName)), nil
	}); err != nil {
		return nil, nil, err
	}
	if err := reg.Register(algorithm.PhraseName, func() (algorithm.Extractor, error) {
		return algorithm.NewPhraseExtractor(weight(algorithm.PhraseName), 2), nil
	}); err != nil {
		return nil, nil, err
	}

	if !cfg.Rarity.Enabled {
		return reg, nil, nil
	}

	files, err := textextract.ScanCorpusDir(cfg.Corpus.Dir, cfg.Corpus.Extensions)
	if err != nil {
		return nil, nil, err
	}
	if len(files) < cfg.Rarity.MinCorpusDocs {
		// The engine would only ever report "skipped"; leave it out and log
		// once instead of on every call.
		zap.L().Info("extractor: rarity engine disabled, corpus too small",
			zap.Int("documents", len(files)),
			zap.Int("required", cfg.Rarity.MinCorpusDocs),
		)
		return reg, nil, nil
	}

	indexer := rarity.NewIndexer(cfg.Corpus, cfg.Rarity.MinTokenLen, extract)
	if err := reg.Register(algorithm.RarityName, func() (algorithm.Extractor, error) {
		return rarity.NewEngine(indexer, cfg.Rarity, weight(algorithm.RarityName)), nil
	}); err != nil {
		return nil, nil, err
	}
	return reg, indexer, nil
}
