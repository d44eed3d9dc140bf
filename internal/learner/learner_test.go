package learner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/model"
)

func learnerConfig(t *testing.T) config.LearnerConfig {
	t.Helper()
	return config.LearnerConfig{
		ModelPath:        filepath.Join(t.TempDir(), "model.json"),
		MinTotalRatings:  20,
		RetrainEvery:     10,
		MinClassExamples: 3,
		BoostSwing:       30,
		LearningRate:     0.1,
		Epochs:           200,
	}
}

// trainingHistory builds a cleanly separable feedback history: high-quality
// rare medical terms approved, low-quality common unknowns rejected.
func trainingHistory(approved, rejected int) []model.FeedbackRecord {
	var records []model.FeedbackRecord
	for i := 0; i < approved; i++ {
		records = append(records, model.FeedbackRecord{
			Term:         "approved-" + string(rune('a'+i)),
			Label:        model.LabelApproved,
			Category:     model.CategoryMedical,
			Algorithms:   []string{"entity", "bm25_rarity"},
			QualityScore: 80 + float64(i),
			Frequency:    4,
			CorpusRank:   0,
		})
	}
	for i := 0; i < rejected; i++ {
		records = append(records, model.FeedbackRecord{
			Term:         "rejected-" + string(rune('a'+i)),
			Label:        model.LabelRejected,
			Category:     model.CategoryUnknown,
			Algorithms:   []string{"phrase"},
			QualityScore: 20 + float64(i),
			Frequency:    1,
			CorpusRank:   9,
		})
	}
	return records
}

func approvedFeatures() TermFeatures {
	return TermFeatures{
		QualityScore: 85,
		Frequency:    4,
		CorpusRank:   0,
		Algorithms:   []string{"entity", "bm25_rarity"},
		Category:     model.CategoryMedical,
	}
}

func rejectedFeatures() TermFeatures {
	return TermFeatures{
		QualityScore: 22,
		Frequency:    1,
		CorpusRank:   0.9,
		Algorithms:   []string{"phrase"},
		Category:     model.CategoryUnknown,
	}
}

func TestMetaLearner_UntrainedPredictsExactlyHalf(t *testing.T) {
	ml := New(learnerConfig(t))
	assert.False(t, ml.Trained())
	assert.Equal(t, 0.5, ml.PredictPreference(approvedFeatures()))
	assert.Equal(t, 0.5, ml.PredictPreference(rejectedFeatures()))
}

func TestMetaLearner_UntrainedBoostIsIdentity(t *testing.T) {
	ml := New(learnerConfig(t))
	p := ml.PredictPreference(approvedFeatures())
	assert.Equal(t, 64.0, ml.Boost(64, p))
}

func TestMetaLearner_BoostSwingAndClamp(t *testing.T) {
	ml := New(learnerConfig(t))
	assert.InDelta(t, 65, ml.Boost(50, 1.0), 1e-9)
	assert.InDelta(t, 35, ml.Boost(50, 0.0), 1e-9)
	assert.Equal(t, 100.0, ml.Boost(95, 1.0))
	assert.Equal(t, 0.0, ml.Boost(5, 0.0))
}

func TestMetaLearner_TrainSeparatesClasses(t *testing.T) {
	ml := New(learnerConfig(t))
	result, err := ml.Train(trainingHistory(6, 6), 10)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Samples)
	assert.Equal(t, 6, result.Positive)
	assert.Equal(t, 6, result.Negative)
	require.True(t, ml.Trained())

	pApproved := ml.PredictPreference(approvedFeatures())
	pRejected := ml.PredictPreference(rejectedFeatures())
	assert.Greater(t, pApproved, 0.5)
	assert.Less(t, pRejected, 0.5)

	// Boost direction follows the prediction.
	assert.Greater(t, ml.Boost(50, pApproved), 50.0)
	assert.Less(t, ml.Boost(50, pRejected), 50.0)
}

func TestMetaLearner_TrainRequiresBothClasses(t *testing.T) {
	ml := New(learnerConfig(t))
	_, err := ml.Train(trainingHistory(6, 2), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient class examples")
	assert.False(t, ml.Trained())
}

func TestMetaLearner_FailedTrainLeavesModelUntouched(t *testing.T) {
	ml := New(learnerConfig(t))
	_, err := ml.Train(trainingHistory(6, 6), 10)
	require.NoError(t, err)
	before := ml.PredictPreference(approvedFeatures())

	_, err = ml.Train(trainingHistory(6, 0), 10)
	require.Error(t, err)
	assert.True(t, ml.Trained())
	assert.Equal(t, before, ml.PredictPreference(approvedFeatures()))
}

func TestMetaLearner_LatestLabelPerTermWins(t *testing.T) {
	records := trainingHistory(6, 6)
	// Re-rate one approved term as rejected, then clear another entirely.
	records = append(records,
		model.FeedbackRecord{Term: "approved-a", Label: model.LabelRejected, Category: model.CategoryUnknown, QualityScore: 20, Frequency: 1},
		model.FeedbackRecord{Term: "approved-b", Label: model.LabelCleared},
	)
	ml := New(learnerConfig(t))
	result, err := ml.Train(records, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Positive)
	assert.Equal(t, 7, result.Negative)
	assert.Equal(t, 11, result.Samples)
}

func TestMetaLearner_PersistAndReload(t *testing.T) {
	cfg := learnerConfig(t)
	ml := New(cfg)
	_, err := ml.Train(trainingHistory(6, 6), 10)
	require.NoError(t, err)
	want := ml.PredictPreference(approvedFeatures())

	reloaded := New(cfg)
	require.True(t, reloaded.Trained())
	assert.Equal(t, want, reloaded.PredictPreference(approvedFeatures()))
}

func TestMetaLearner_SchemaDriftLoadsUntrained(t *testing.T) {
	cfg := learnerConfig(t)
	ml := New(cfg)
	_, err := ml.Train(trainingHistory(6, 6), 10)
	require.NoError(t, err)

	// Rewrite the artifact with a mangled feature-name list.
	data, err := os.ReadFile(cfg.ModelPath)
	require.NoError(t, err)
	var a map[string]any
	require.NoError(t, json.Unmarshal(data, &a))
	a["feature_names"] = []string{"quality_score", "something_else"}
	mangled, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.ModelPath, mangled, 0o644))

	assert.False(t, New(cfg).Trained())
}

func TestMetaLearner_CorruptArtifactLoadsUntrained(t *testing.T) {
	cfg := learnerConfig(t)
	require.NoError(t, os.WriteFile(cfg.ModelPath, []byte("{broken"), 0o644))
	assert.False(t, New(cfg).Trained())
}

func TestMetaLearner_ShouldRetrainGate(t *testing.T) {
	ml := New(learnerConfig(t))

	// Below the overall minimum: never retrain.
	assert.False(t, ml.ShouldRetrain(19, 100))
	// At the minimum with enough new records.
	assert.True(t, ml.ShouldRetrain(20, 10))

	_, err := ml.Train(trainingHistory(6, 6), 10)
	require.NoError(t, err)
	// 12 records trained on; fewer than 10 new ones since.
	assert.False(t, ml.ShouldRetrain(25, 20))
	assert.True(t, ml.ShouldRetrain(25, 22))
}
