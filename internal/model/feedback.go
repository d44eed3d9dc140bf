package model

import "time"

// FeedbackLabel is an explicit user judgment on a term.
type FeedbackLabel int

const (
	// LabelApproved marks a term the user wants to keep seeing.
	LabelApproved FeedbackLabel = 1
	// LabelRejected marks a term the user does not want.
	LabelRejected FeedbackLabel = -1
	// LabelCleared withdraws a previous rating.
	LabelCleared FeedbackLabel = 0
)

// Valid reports whether the label is one of the three recognized values.
func (l FeedbackLabel) Valid() bool {
	return l == LabelApproved || l == LabelRejected || l == LabelCleared
}

// FeedbackRecord is one append-only log entry capturing a user rating and a
// snapshot of the term's feature inputs at rating time. Immutable once
// written; re-rating a term appends a new record.
type FeedbackRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	ContextID string        `json:"context_id"`
	Term      string        `json:"term"`
	Label     FeedbackLabel `json:"label"`

	// Feature snapshot at rating time.
	Category     Category `json:"category"`
	Algorithms   []string `json:"algorithms"`
	QualityScore float64  `json:"quality_score"`
	Frequency    int      `json:"frequency"`
	CorpusRank   int      `json:"corpus_rank"`
}
