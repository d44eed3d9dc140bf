// Package learner trains a logistic classifier on accumulated user feedback
// and predicts per-term approval probability used to boost quality scores.
package learner

import (
	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/model"
)

// knownAlgorithms fixes the one-hot layout for algorithm flags. Order is
// part of the persisted feature schema; changing it invalidates saved models
// (detected via the feature-name list on load).
var knownAlgorithms = []string{
	algorithm.EntityName,
	algorithm.PhraseName,
	algorithm.RarityName,
}

// FeatureNames returns the canonical feature ordering. A persisted model
// whose feature names differ from this list is schema-drifted and treated
// as untrained.
func FeatureNames() []string {
	names := []string{
		"quality_score",
		"frequency",
		"corpus_rank",
		"algorithm_count",
	}
	for _, a := range knownAlgorithms {
		names = append(names, "alg_"+a)
	}
	for _, c := range model.KnownCategories() {
		names = append(names, "cat_"+string(c))
	}
	return names
}

// TermFeatures is the raw feature input for one term. Fields left at their
// zero value degrade to neutral features rather than failing.
type TermFeatures struct {
	QualityScore float64
	Frequency    int
	// CorpusRank is normalized to [0,1] before use; values outside the
	// range are clamped.
	CorpusRank float64
	Algorithms []string
	Category   model.Category
}

// Vector lays out the features in canonical order.
func (tf TermFeatures) Vector() []float64 {
	rank := tf.CorpusRank
	if rank < 0 {
		rank = 0
	} else if rank > 1 {
		rank = 1
	}

	v := []float64{
		tf.QualityScore,
		float64(tf.Frequency),
		rank,
		float64(len(tf.Algorithms)),
	}
	for _, a := range knownAlgorithms {
		v = append(v, oneHot(containsString(tf.Algorithms, a)))
	}
	category := tf.Category
	if category == "" {
		category = model.CategoryUnknown
	}
	for _, c := range model.KnownCategories() {
		v = append(v, oneHot(category == c))
	}
	return v
}

// FeaturesFromRecord rebuilds a training feature vector from the snapshot
// stored in a feedback record. CorpusRank in the log is the number of
// corpus documents containing the term; it is normalized against the
// corpus document count.
func FeaturesFromRecord(rec model.FeedbackRecord, corpusDocs int) TermFeatures {
	rank := 0.0
	if corpusDocs > 0 {
		rank = float64(rec.CorpusRank) / float64(corpusDocs)
	}
	return TermFeatures{
		QualityScore: rec.QualityScore,
		Frequency:    rec.Frequency,
		CorpusRank:   rank,
		Algorithms:   rec.Algorithms,
		Category:     rec.Category,
	}
}

func oneHot(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
