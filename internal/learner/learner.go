package learner

import (
	"encoding/json"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/model"
)

// artifactVersion is bumped on artifact layout changes; a mismatch loads as
// untrained rather than erroring.
const artifactVersion = 1

// artifact is the single persisted bundle: classifier, scaler, and the
// canonical feature-name ordering. The pair is loaded together or not at
// all — a classifier without its scaler is untrained.
type artifact struct {
	Version          int             `json:"version"`
	FeatureNames     []string        `json:"feature_names"`
	Scaler           *StandardScaler `json:"scaler"`
	Model            *LogisticModel  `json:"model"`
	TrainedAt        time.Time       `json:"trained_at"`
	TrainedOnRecords int             `json:"trained_on_records"`
}

// TrainResult summarizes a successful training pass.
type TrainResult struct {
	Samples   int       `json:"samples"`
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
	TrainedAt time.Time `json:"trained_at"`
}

// MetaLearner owns the trained preference model: load, train, predict, and
// score boosting. All operations are safe for concurrent use; prediction is
// cheap enough to call inline per term while training runs off the
// interactive path.
type MetaLearner struct {
	cfg config.LearnerConfig

	mu               sync.RWMutex
	scaler           *StandardScaler
	model            *LogisticModel
	trainedAt        time.Time
	trainedOnRecords int
}

// New creates a MetaLearner and loads any persisted model. A missing or
// structurally invalid artifact is "not trained", never an error.
func New(cfg config.LearnerConfig) *MetaLearner {
	ml := &MetaLearner{cfg: cfg}
	ml.load()
	return ml
}

func (ml *MetaLearner) load() {
	data, err := os.ReadFile(ml.cfg.ModelPath)
	if err != nil {
		return
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		zap.L().Warn("learner: model artifact unreadable, starting untrained", zap.Error(err))
		return
	}
	if a.Version != artifactVersion || a.Scaler == nil || a.Model == nil {
		zap.L().Warn("learner: model artifact incomplete or outdated, starting untrained",
			zap.Int("version", a.Version),
		)
		return
	}
	if !reflect.DeepEqual(a.FeatureNames, FeatureNames()) {
		zap.L().Warn("learner: feature schema drift, starting untrained")
		return
	}
	ml.mu.Lock()
	ml.scaler = a.Scaler
	ml.model = a.Model
	ml.trainedAt = a.TrainedAt
	ml.trainedOnRecords = a.TrainedOnRecords
	ml.mu.Unlock()
}

// Trained reports whether a usable model is loaded.
func (ml *MetaLearner) Trained() bool {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	return ml.model != nil && ml.scaler != nil
}

// ShouldRetrain applies the two-threshold gate: enough rated terms overall,
// and enough new records since the last training run.
func (ml *MetaLearner) ShouldRetrain(ratedTerms, totalRecords int) bool {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	if ratedTerms < ml.cfg.MinTotalRatings {
		return false
	}
	return totalRecords-ml.trainedOnRecords >= ml.cfg.RetrainEvery
}

// PredictPreference returns the predicted approval probability for the
// term's features. An untrained model returns exactly 0.5: identical scoring
// to having no learning component.
func (ml *MetaLearner) PredictPreference(tf TermFeatures) float64 {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	if ml.model == nil || ml.scaler == nil {
		return 0.5
	}
	return ml.model.Predict(ml.scaler.Transform(tf.Vector()))
}

// Boost adjusts a base quality score by the predicted approval probability:
// a symmetric swing centered at the neutral 0.5, clamped to [0, 100].
func (ml *MetaLearner) Boost(baseScore, probability float64) float64 {
	boosted := baseScore + (probability-0.5)*ml.cfg.BoostSwing
	if boosted < 0 {
		return 0
	}
	if boosted > 100 {
		return 100
	}
	return boosted
}

// Train fits a fresh classifier from the feedback history and persists it.
// The most recent label per term wins; cleared ratings drop the term. If
// either class has fewer than the minimum example count the attempt fails
// and any existing model is left untouched.
func (ml *MetaLearner) Train(records []model.FeedbackRecord, corpusDocs int) (*TrainResult, error) {
	// Replay the append-only history: latest record per normalized term.
	latest := make(map[string]model.FeedbackRecord)
	for _, rec := range records {
		latest[model.NormalizeTerm(rec.Term)] = rec
	}

	var samples [][]float64
	var labels []int
	var pos, neg int
	for _, rec := range latest {
		switch rec.Label {
		case model.LabelApproved:
			labels = append(labels, 1)
			pos++
		case model.LabelRejected:
			labels = append(labels, 0)
			neg++
		default:
			continue
		}
		samples = append(samples, FeaturesFromRecord(rec, corpusDocs).Vector())
	}

	if pos < ml.cfg.MinClassExamples || neg < ml.cfg.MinClassExamples {
		return nil, eris.Errorf(
			"learner: insufficient class examples (approved=%d rejected=%d, need %d each)",
			pos, neg, ml.cfg.MinClassExamples,
		)
	}

	scaler, err := FitScaler(samples)
	if err != nil {
		return nil, err
	}
	scaled := make([][]float64, len(samples))
	for i, s := range samples {
		scaled[i] = scaler.Transform(s)
	}

	lm, err := TrainLogistic(scaled, labels, ml.cfg.LearningRate, ml.cfg.Epochs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ml.mu.Lock()
	ml.scaler = scaler
	ml.model = lm
	ml.trainedAt = now
	ml.trainedOnRecords = len(records)
	ml.mu.Unlock()

	if err := ml.save(); err != nil {
		zap.L().Warn("learner: failed to persist model artifact", zap.Error(err))
	}

	zap.L().Info("learner: trained preference model",
		zap.Int("samples", len(samples)),
		zap.Int("approved", pos),
		zap.Int("rejected", neg),
	)
	return &TrainResult{Samples: len(samples), Positive: pos, Negative: neg, TrainedAt: now}, nil
}

func (ml *MetaLearner) save() error {
	ml.mu.RLock()
	a := artifact{
		Version:          artifactVersion,
		FeatureNames:     FeatureNames(),
		Scaler:           ml.scaler,
		Model:            ml.model,
		TrainedAt:        ml.trainedAt,
		TrainedOnRecords: ml.trainedOnRecords,
	}
	ml.mu.RUnlock()

	data, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "learner: marshal artifact")
	}
	tmp := ml.cfg.ModelPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "learner: write artifact")
	}
	if err := os.Rename(tmp, ml.cfg.ModelPath); err != nil {
		return eris.Wrap(err, "learner: replace artifact")
	}
	return nil
}
