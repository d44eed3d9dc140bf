// Package extractor orchestrates the extraction pipeline: run algorithms,
// merge candidates, validate categories, score quality, apply the learned
// preference boost, and emit the final vocabulary report.
package extractor

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/definitions"
	"github.com/sells-group/vocab-cli/internal/feedback"
	"github.com/sells-group/vocab-cli/internal/learner"
	"github.com/sells-group/vocab-cli/internal/merger"
	"github.com/sells-group/vocab-cli/internal/model"
	"github.com/sells-group/vocab-cli/internal/rarity"
)

// Boost caps for the composite base quality score. Each component is capped
// independently; the sum is clamped to [0, 100].
const (
	maxOccurrenceBoost = 25.0
	maxRarityBoost     = 30.0
	maxCategoryBoost   = 15.0
	maxAgreementBoost  = 20.0
)

// categoryReliability expresses how trustworthy each category's heuristics
// are, as the full boost granted at confidence 1.0.
var categoryReliability = map[model.Category]float64{
	model.CategoryPerson:       15,
	model.CategoryMedical:      15,
	model.CategoryPlace:        10,
	model.CategoryOrganization: 10,
	model.CategoryTechnical:    10,
	model.CategoryUnknown:      0,
}

// Options tunes one extraction call.
type Options struct {
	// ContextID identifies the document for feedback records. Empty means
	// ratings from this call carry no document context.
	ContextID string
	// DocumentCountHint relaxes the document-frequency ceiling when the
	// input text concatenates several documents.
	DocumentCountHint int
	// SortByRarity orders output by corpus rarity (absent-from-corpus
	// first, then ascending corpus frequency) instead of quality score.
	SortByRarity bool
}

// Deps are the explicitly constructed services the orchestrator consumes.
// Lifetime is owned by the hosting application.
type Deps struct {
	Algorithms  []algorithm.Extractor
	Merger      *merger.Merger
	Learner     *learner.MetaLearner
	Feedback    *feedback.Store
	Definitions *definitions.Chain
	Exclusions  *ExclusionList
	Rules       *CategoryRules
	// Indexer provides corpus-frequency ranks; nil when the rarity engine
	// is disabled.
	Indexer *rarity.Indexer
}

// Extractor is the orchestrating extraction service.
type Extractor struct {
	cfg  config.ExtractorConfig
	deps Deps
}

// New creates an Extractor.
func New(cfg config.ExtractorConfig, deps Deps) *Extractor {
	return &Extractor{cfg: cfg, deps: deps}
}

// Extract runs the full pipeline over the document text and returns the
// ranked vocabulary report. Individual algorithm failures degrade to a
// smaller candidate pool rather than failing the call.
func (e *Extractor) Extract(ctx context.Context, text string, opts Options) ([]model.VocabularyEntry, error) {
	text = truncate(text, e.cfg.MaxTextLen)

	results := e.runAlgorithms(ctx, text)
	merged := e.deps.Merger.Merge(results)

	idx := e.currentIndex()
	lowerText := strings.ToLower(text)
	sentences := countSentences(text)

	seen := make(map[string]bool, len(merged))
	var entries []model.VocabularyEntry
	for _, mt := range merged {
		key := model.NormalizeTerm(mt.Term)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if e.deps.Exclusions != nil && e.deps.Exclusions.Contains(key) {
			continue
		}

		category := mt.FinalType
		if e.deps.Rules != nil {
			category = e.deps.Rules.Refine(mt.Term, mt.FinalType)
		}

		occurrences := countOccurrences(lowerText, key)
		if occurrences == 0 {
			occurrences = mt.Frequency
		}

		// Frequency filters; person names are exempt since repeated party
		// mentions are expected.
		if category != model.CategoryPerson {
			if occurrences < e.cfg.MinOccurrences {
				continue
			}
			if e.overFrequencyCeiling(occurrences, sentences, opts.DocumentCountHint) {
				continue
			}
		}

		corpusRank := 0
		if idx != nil {
			corpusRank = idx.TermDocFreq(key)
		}

		base := e.baseScore(mt, category, occurrences, corpusRank, idx)
		score := base
		if e.deps.Learner != nil {
			probability := e.deps.Learner.PredictPreference(learner.TermFeatures{
				QualityScore: base,
				Frequency:    occurrences,
				CorpusRank:   normalizeRank(corpusRank, idx),
				Algorithms:   mt.Sources,
				Category:     category,
			})
			score = e.deps.Learner.Boost(base, probability)
		}

		entry := model.VocabularyEntry{
			Term:         mt.Term,
			Category:     category,
			Relevance:    relevanceText(mt, category, corpusRank),
			QualityScore: score,
			Frequency:    occurrences,
			CorpusRank:   corpusRank,
			Algorithms:   mt.Sources,
		}
		if !category.IsProperNoun() && e.deps.Definitions != nil {
			entry.Definition = truncate(e.deps.Definitions.Lookup(ctx, key), e.cfg.MaxDefinitionLen)
		}
		entries = append(entries, entry)
	}

	e.sortEntries(entries, opts.SortByRarity)

	if e.cfg.MaxTerms > 0 && len(entries) > e.cfg.MaxTerms {
		entries = entries[:e.cfg.MaxTerms]
	}

	zap.L().Info("extractor: extraction complete",
		zap.Int("algorithms", len(results)),
		zap.Int("merged_terms", len(merged)),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// runAlgorithms executes every enabled strategy, in parallel when
// configured. A failing or skipping strategy is logged and dropped.
func (e *Extractor) runAlgorithms(ctx context.Context, text string) []*model.AlgorithmResult {
	opts := algorithm.Options{}
	results := make([]*model.AlgorithmResult, len(e.deps.Algorithms))

	if e.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, alg := range e.deps.Algorithms {
			g.Go(func() error {
				res, err := alg.Extract(gctx, text, opts)
				if err != nil {
					zap.L().Warn("extractor: algorithm failed",
						zap.String("algorithm", alg.Name()),
						zap.Error(err),
					)
					return nil
				}
				results[i] = res
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, alg := range e.deps.Algorithms {
			res, err := alg.Extract(ctx, text, opts)
			if err != nil {
				zap.L().Warn("extractor: algorithm failed",
					zap.String("algorithm", alg.Name()),
					zap.Error(err),
				)
				continue
			}
			results[i] = res
		}
	}

	var out []*model.AlgorithmResult
	for _, res := range results {
		if res == nil {
			continue
		}
		if reason, skipped := res.Skipped(); skipped {
			zap.L().Info("extractor: algorithm skipped",
				zap.String("algorithm", res.Algorithm),
				zap.String("reason", reason),
			)
		}
		out = append(out, res)
	}
	return out
}

// baseScore is the clamped sum of independently capped boosts.
func (e *Extractor) baseScore(mt model.MergedTerm, category model.Category, occurrences, corpusRank int, idx *rarity.Index) float64 {
	occurrence := float64(occurrences) * 5
	if occurrence > maxOccurrenceBoost {
		occurrence = maxOccurrenceBoost
	}

	rarityBoost := 0.0
	if idx != nil && idx.DocCount > 0 {
		if corpusRank == 0 {
			rarityBoost = maxRarityBoost
		} else {
			rarityBoost = maxRarityBoost * idx.TermIDF(model.NormalizeTerm(mt.Term)) / idx.CeilingIDF()
		}
	} else {
		// No corpus baseline: fall back on fused algorithm confidence.
		rarityBoost = maxRarityBoost * mt.CombinedConfidence * 0.5
	}
	if rarityBoost > maxRarityBoost {
		rarityBoost = maxRarityBoost
	}

	categoryBoost := categoryReliability[category] * mt.CombinedConfidence
	if categoryBoost > maxCategoryBoost {
		categoryBoost = maxCategoryBoost
	}

	agreement := float64(len(mt.Sources)-1) * 10
	if agreement < 0 {
		agreement = 0
	}
	if agreement > maxAgreementBoost {
		agreement = maxAgreementBoost
	}

	score := occurrence + rarityBoost + categoryBoost + agreement
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (e *Extractor) overFrequencyCeiling(occurrences, sentences, docHint int) bool {
	if sentences == 0 || e.cfg.DocFreqCeiling <= 0 {
		return false
	}
	ceiling := e.cfg.DocFreqCeiling * float64(sentences)
	if docHint > 1 {
		ceiling *= float64(docHint)
	}
	return float64(occurrences) > ceiling
}

func (e *Extractor) sortEntries(entries []model.VocabularyEntry, byRarity bool) {
	if byRarity {
		// Absent-from-corpus first, then ascending corpus frequency.
		sort.SliceStable(entries, func(i, j int) bool {
			ri, rj := entries[i].CorpusRank, entries[j].CorpusRank
			if (ri == 0) != (rj == 0) {
				return ri == 0
			}
			if ri != rj {
				return ri < rj
			}
			return entries[i].QualityScore > entries[j].QualityScore
		})
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].QualityScore > entries[j].QualityScore
	})
}

func (e *Extractor) currentIndex() *rarity.Index {
	if e.deps.Indexer == nil {
		return nil
	}
	return e.deps.Indexer.Current()
}

func normalizeRank(corpusRank int, idx *rarity.Index) float64 {
	if idx == nil || idx.DocCount == 0 {
		return 0
	}
	return float64(corpusRank) / float64(idx.DocCount)
}

func relevanceText(mt model.MergedTerm, category model.Category, corpusRank int) string {
	var parts []string
	switch category {
	case model.CategoryPerson:
		parts = append(parts, "likely party or participant")
	case model.CategoryPlace:
		parts = append(parts, "location reference")
	case model.CategoryOrganization:
		parts = append(parts, "organization reference")
	case model.CategoryMedical:
		parts = append(parts, "medical vocabulary")
	case model.CategoryTechnical:
		parts = append(parts, "technical vocabulary")
	}
	if corpusRank == 0 {
		parts = append(parts, "not seen in reference corpus")
	}
	if len(mt.Sources) > 1 {
		parts = append(parts, "flagged by multiple algorithms")
	}
	return strings.Join(parts, "; ")
}

// countOccurrences counts whole-word matches of the lowercased term so short
// terms are not inflated by larger words that embed them ("art" in "party").
func countOccurrences(lowerText, term string) int {
	if term == "" {
		return 0
	}
	n := 0
	for i := 0; ; {
		j := strings.Index(lowerText[i:], term)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(term)
		if wordBoundary(lowerText, start, end) {
			n++
		}
		i = end
	}
	return n
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func countSentences(text string) int {
	n := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			n++
		}
	}
	if n == 0 && len(strings.TrimSpace(text)) > 0 {
		n = 1
	}
	return n
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Cut on a rune boundary.
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
