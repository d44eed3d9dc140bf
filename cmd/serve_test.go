package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/extractor"
	"github.com/sells-group/vocab-cli/internal/feedback"
	"github.com/sells-group/vocab-cli/internal/merger"
	"github.com/sells-group/vocab-cli/internal/model"
)

// fixedAlgorithm serves a canned candidate list for handler tests.
type fixedAlgorithm struct {
	candidates []model.CandidateTerm
}

func (f *fixedAlgorithm) Name() string    { return algorithm.EntityName }
func (f *fixedAlgorithm) Weight() float64 { return 1 }
func (f *fixedAlgorithm) Extract(ctx context.Context, text string, opts algorithm.Options) (*model.AlgorithmResult, error) {
	return &model.AlgorithmResult{Algorithm: algorithm.EntityName, Candidates: f.candidates}, nil
}

func newTestEnv(t *testing.T) *engineEnv {
	t.Helper()

	c := model.NewCandidateTerm("Jane Smith", algorithm.EntityName, 0.9)
	c.SuggestedType = model.CategoryPerson

	fb, err := feedback.Open(filepath.Join(t.TempDir(), "feedback.csv"))
	require.NoError(t, err)
	rules, err := extractor.LoadRules("")
	require.NoError(t, err)

	ext := extractor.New(config.ExtractorConfig{
		MaxTextLen:     500000,
		MinOccurrences: 1,
		MaxTerms:       100,
	}, extractor.Deps{
		Algorithms: []algorithm.Extractor{&fixedAlgorithm{candidates: []model.CandidateTerm{c}}},
		Merger:     merger.New(nil),
		Feedback:   fb,
		Rules:      rules,
	})
	return &engineEnv{Extractor: ext, Feedback: fb}
}

func TestRouter_Health(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Extract(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	payload, _ := json.Marshal(map[string]string{"text": "Met with Jane Smith today."})
	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ContextID string                  `json:"context_id"`
		Entries   []model.VocabularyEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ContextID)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "Jane Smith", resp.Entries[0].Term)
}

func TestRouter_Extract_MissingText(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "text is required")
}

func TestRouter_Feedback(t *testing.T) {
	env := newTestEnv(t)
	router := buildRouter(env, nil)

	payload, _ := json.Marshal(map[string]any{
		"context_id": "ctx-7",
		"entry": model.VocabularyEntry{
			Term:       "Jane Smith",
			Category:   model.CategoryPerson,
			Algorithms: []string{algorithm.EntityName},
		},
		"label": 1,
	})
	req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	label, ok := env.Feedback.Rating("jane smith")
	require.True(t, ok)
	assert.Equal(t, model.LabelApproved, label)
}

func TestRouter_Feedback_InvalidLabel(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	payload, _ := json.Marshal(map[string]any{
		"entry": model.VocabularyEntry{Term: "Jane Smith"},
		"label": 7,
	})
	req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_CorpusStatus_NoIndexer(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/corpus/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["indexed"])
}

func TestRouter_Train_Accepted(t *testing.T) {
	router := buildRouter(newTestEnv(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/train", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
}
