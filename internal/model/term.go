// Package model defines the data types flowing through the vocabulary
// extraction pipeline: per-algorithm candidates, merged terms, feedback
// records, and the final vocabulary entries.
package model

import (
	"strings"
	"time"
)

// CandidateTerm is a single term proposal from one extraction algorithm,
// prior to cross-algorithm fusion.
type CandidateTerm struct {
	Term            string         `json:"term"`
	SourceAlgorithm string         `json:"source_algorithm"`
	Confidence      float64        `json:"confidence"`
	SuggestedType   Category       `json:"suggested_type,omitempty"`
	Frequency       int            `json:"frequency"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// NewCandidateTerm builds a CandidateTerm with confidence clamped to [0, 1].
func NewCandidateTerm(term, source string, confidence float64) CandidateTerm {
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return CandidateTerm{
		Term:            term,
		SourceAlgorithm: source,
		Confidence:      confidence,
		SuggestedType:   CategoryUnknown,
		Frequency:       1,
	}
}

// AlgorithmResult is the output of one algorithm invocation.
type AlgorithmResult struct {
	Algorithm      string          `json:"algorithm"`
	Candidates     []CandidateTerm `json:"candidates"`
	ProcessingTime time.Duration   `json:"processing_time"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}

// Skipped reports whether the algorithm declined to run (e.g. the rarity
// engine's corpus readiness gate) and why.
func (r *AlgorithmResult) Skipped() (string, bool) {
	if r == nil || r.Metadata == nil {
		return "", false
	}
	reason, ok := r.Metadata["skipped"].(string)
	return reason, ok
}

// MergedTerm is the fused, deduplicated representation of a term after
// combining all algorithms' candidates.
type MergedTerm struct {
	// Term is the canonical surface form (first-seen original casing).
	Term               string   `json:"term"`
	Sources            []string `json:"sources"`
	CombinedConfidence float64  `json:"combined_confidence"`
	FinalType          Category `json:"final_type"`
	// Frequency is summed across contributors. Double counting across
	// algorithms is intentional: agreement is a quality signal downstream.
	Frequency int `json:"frequency"`
	// Metadata retains each contributing candidate's raw detail keyed by
	// source algorithm, consumed as ML features.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasSource reports whether the named algorithm contributed to this term.
func (m *MergedTerm) HasSource(name string) bool {
	for _, s := range m.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// VocabularyEntry is one row of the final extraction report.
type VocabularyEntry struct {
	Term     string   `json:"term"`
	Category Category `json:"category"`
	// Relevance is a short role/relevance description for display.
	Relevance    string   `json:"relevance,omitempty"`
	QualityScore float64  `json:"quality_score"`
	Frequency    int      `json:"frequency"`
	// CorpusRank is the term's frequency rank in the reference corpus;
	// 0 means absent from the corpus (maximally rare).
	CorpusRank int      `json:"corpus_rank"`
	Definition string   `json:"definition,omitempty"`
	Algorithms []string `json:"algorithms"`
}

// NormalizeTerm is the canonical grouping key used across the merger, the
// feedback store, and the exclusion list: lowercased and trimmed.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
