package main

import (
	"net/http"
	"time"

	"github.com/sells-group/vocab-cli/internal/definitions"
	"github.com/sells-group/vocab-cli/internal/extractor"
	"github.com/sells-group/vocab-cli/internal/feedback"
	"github.com/sells-group/vocab-cli/internal/learner"
	"github.com/sells-group/vocab-cli/internal/merger"
	"github.com/sells-group/vocab-cli/internal/rarity"
	"github.com/sells-group/vocab-cli/internal/resilience"
	"github.com/sells-group/vocab-cli/internal/textextract"
	"github.com/sells-group/vocab-cli/pkg/dictionary"
)

// engineEnv holds the constructed services backing the extract, feedback,
// train, and serve commands.
type engineEnv struct {
	Extractor *extractor.Extractor
	Feedback  *feedback.Store
	Learner   *learner.MetaLearner
	Indexer   *rarity.Indexer
	Glossary  *definitions.Glossary
}

// Close releases resources held by the engine environment.
func (env *engineEnv) Close() {
	if env.Glossary != nil {
		_ = env.Glossary.Close()
	}
}

// initEngine wires the full engine from config. Callers should defer
// env.Close().
func initEngine() (*engineEnv, error) {
	extract, err := textextract.NewExtractor(cfg.TextExtract)
	if err != nil {
		return nil, err
	}

	reg, indexer, err := extractor.DefaultRegistry(cfg, extract)
	if err != nil {
		return nil, err
	}
	algorithms, err := reg.NewAll()
	if err != nil {
		return nil, err
	}

	fb, err := feedback.Open(cfg.Feedback.LogPath)
	if err != nil {
		return nil, err
	}

	exclusions, err := extractor.OpenExclusions(cfg.Extractor.ExclusionsPath)
	if err != nil {
		return nil, err
	}

	rules, err := extractor.LoadRules(cfg.Extractor.RulesPath)
	if err != nil {
		return nil, err
	}

	glossary, err := definitions.OpenGlossary(cfg.Definitions.DatabasePath)
	if err != nil {
		return nil, err
	}

	defProviders := []definitions.Provider{glossary}
	if cfg.Dictionary.Enabled {
		defProviders = append(defProviders, dictionary.NewClient(
			dictionary.WithBaseURL(cfg.Dictionary.BaseURL),
			dictionary.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Dictionary.TimeoutSecs) * time.Second,
			}),
			dictionary.WithRateLimit(cfg.Dictionary.RatePerSec, cfg.Dictionary.Burst),
			dictionary.WithRetry(resilience.RetryConfig{
				MaxAttempts:    cfg.Dictionary.Retries + 1,
				InitialBackoff: 500 * time.Millisecond,
			}),
		))
	}

	ml := learner.New(cfg.Learner)

	ext := extractor.New(cfg.Extractor, extractor.Deps{
		Algorithms:  algorithms,
		Merger:      merger.New(cfg.Merger.Weights),
		Learner:     ml,
		Feedback:    fb,
		Definitions: definitions.NewChain(defProviders...),
		Exclusions:  exclusions,
		Rules:       rules,
		Indexer:     indexer,
	})

	return &engineEnv{
		Extractor: ext,
		Feedback:  fb,
		Learner:   ml,
		Indexer:   indexer,
		Glossary:  glossary,
	}, nil
}
