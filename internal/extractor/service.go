package extractor

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/learner"
	"github.com/sells-group/vocab-cli/internal/model"
)

// Rate records a user rating for an emitted entry and, when the retrain
// gate opens, kicks off training in the background so the interactive path
// never blocks on a batch scan.
func (e *Extractor) Rate(ctx context.Context, contextID string, entry model.VocabularyEntry, label model.FeedbackLabel) error {
	if e.deps.Feedback == nil {
		return eris.New("extractor: feedback store not configured")
	}

	rec := model.FeedbackRecord{
		Timestamp:    time.Now().UTC(),
		ContextID:    contextID,
		Term:         entry.Term,
		Label:        label,
		Category:     entry.Category,
		Algorithms:   entry.Algorithms,
		QualityScore: entry.QualityScore,
		Frequency:    entry.Frequency,
		CorpusRank:   entry.CorpusRank,
	}
	if err := e.deps.Feedback.Record(rec); err != nil {
		return err
	}

	if e.deps.Learner != nil &&
		e.deps.Learner.ShouldRetrain(e.deps.Feedback.RatedCount(), e.deps.Feedback.TotalRecords()) {
		go func() {
			if _, err := e.Train(context.WithoutCancel(ctx)); err != nil {
				zap.L().Warn("extractor: background retrain failed", zap.Error(err))
			}
		}()
	}
	return nil
}

// Train retrains the preference model from the full feedback history. An
// insufficient or class-imbalanced history returns an error and leaves any
// existing model untouched.
func (e *Extractor) Train(ctx context.Context) (*learner.TrainResult, error) {
	if e.deps.Learner == nil || e.deps.Feedback == nil {
		return nil, eris.New("extractor: learner not configured")
	}
	records, err := e.deps.Feedback.History()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	corpusDocs := 0
	if idx := e.currentIndex(); idx != nil {
		corpusDocs = idx.DocCount
	}
	return e.deps.Learner.Train(records, corpusDocs)
}

// Exclude appends a term to the persisted exclusion list; subsequent
// extractions in this session suppress it immediately.
func (e *Extractor) Exclude(term string) error {
	if e.deps.Exclusions == nil {
		return eris.New("extractor: exclusion list not configured")
	}
	if err := e.deps.Exclusions.Add(term); err != nil {
		return err
	}
	zap.L().Info("extractor: term excluded", zap.String("term", model.NormalizeTerm(term)))
	return nil
}
