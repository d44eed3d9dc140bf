package rarity

import (
	"context"
	"sort"
	"time"

	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/model"
)

// SkipInsufficientCorpus is the metadata value recorded when the readiness
// gate refuses to score against a too-small corpus.
const SkipInsufficientCorpus = "insufficient corpus"

// Engine scores document terms against the corpus index with BM25. It
// implements the algorithm contract so it merges like any other strategy.
type Engine struct {
	indexer *Indexer
	cfg     config.RarityConfig
	weight  float64
}

// NewEngine creates a BM25 rarity Engine over the given Indexer.
func NewEngine(indexer *Indexer, cfg config.RarityConfig, weight float64) *Engine {
	if weight <= 0 {
		weight = 1.0
	}
	return &Engine{indexer: indexer, cfg: cfg, weight: weight}
}

func (e *Engine) Name() string    { return algorithm.RarityName }
func (e *Engine) Weight() float64 { return e.weight }

// Indexer exposes the underlying index for corpus-rank lookups downstream.
func (e *Engine) Indexer() *Indexer {
	return e.indexer
}

// Extract scores the document's unique terms with BM25 against the corpus
// index. Below the minimum corpus size it returns zero candidates and flags
// the skip instead of producing statistically meaningless scores.
func (e *Engine) Extract(ctx context.Context, text string, opts algorithm.Options) (*model.AlgorithmResult, error) {
	start := time.Now()

	idx, err := e.indexer.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.AlgorithmResult{Algorithm: algorithm.RarityName}

	if idx.DocCount < e.cfg.MinCorpusDocs {
		result.Metadata = map[string]any{
			"skipped":     SkipInsufficientCorpus,
			"corpus_docs": idx.DocCount,
			"required":    e.cfg.MinCorpusDocs,
		}
		result.ProcessingTime = time.Since(start)
		return result, nil
	}

	tokens := e.indexer.tokenizer.Tokenize(text)
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	docLen := float64(len(tokens))
	avgLen := idx.AvgDocLen
	if avgLen == 0 {
		avgLen = docLen
	}

	k1, b := e.cfg.K1, e.cfg.B
	type scored struct {
		term  string
		score float64
		freq  int
	}
	var kept []scored
	for term, freq := range tf {
		idf := idx.TermIDF(term)
		f := float64(freq)
		score := idf * (f * (k1 + 1)) / (f + k1*(1-b+b*docLen/avgLen))
		if score < e.cfg.MinScore {
			continue
		}
		kept = append(kept, scored{term, score, freq})
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].term < kept[j].term
	})

	max := e.cfg.MaxCandidates
	if opts.MaxCandidates > 0 && (max == 0 || opts.MaxCandidates < max) {
		max = opts.MaxCandidates
	}
	if max > 0 && len(kept) > max {
		kept = kept[:max]
	}

	for _, s := range kept {
		confidence := s.score / e.cfg.ConfidenceDivisor
		if confidence > 1 {
			confidence = 1
		}
		c := model.NewCandidateTerm(s.term, algorithm.RarityName, confidence)
		c.Frequency = s.freq
		c.Metadata = map[string]any{
			"bm25_score":      s.score,
			"idf":             idx.TermIDF(s.term),
			"corpus_doc_freq": idx.TermDocFreq(s.term),
		}
		result.Candidates = append(result.Candidates, c)
	}

	result.ProcessingTime = time.Since(start)
	return result, nil
}
