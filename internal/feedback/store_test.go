package feedback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vocab-cli/internal/model"
)

func tempLog(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "feedback.csv")
}

func record(term string, label model.FeedbackLabel) model.FeedbackRecord {
	return model.FeedbackRecord{
		ContextID:    "ctx-1",
		Term:         term,
		Label:        label,
		Category:     model.CategoryMedical,
		Algorithms:   []string{"entity", "bm25_rarity"},
		QualityScore: 72.5,
		Frequency:    3,
		CorpusRank:   0,
	}
}

func TestStore_RecordAndReload(t *testing.T) {
	path := tempLog(t)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Record(record("adenocarcinoma", model.LabelApproved)))
	require.NoError(t, s.Record(record("whereas", model.LabelRejected)))

	label, ok := s.Rating("Adenocarcinoma")
	require.True(t, ok)
	assert.Equal(t, model.LabelApproved, label)
	assert.Equal(t, 2, s.RatedCount())
	assert.Equal(t, 2, s.TotalRecords())

	// Reopening rebuilds the cache from disk.
	reloaded, err := Open(path)
	require.NoError(t, err)
	label, ok = reloaded.Rating("whereas")
	require.True(t, ok)
	assert.Equal(t, model.LabelRejected, label)
	assert.Equal(t, 2, reloaded.TotalRecords())
}

func TestStore_HistoryPreservesFeatureSnapshot(t *testing.T) {
	s, err := Open(tempLog(t))
	require.NoError(t, err)
	require.NoError(t, s.Record(record("adenocarcinoma", model.LabelApproved)))

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	got := history[0]
	assert.Equal(t, "adenocarcinoma", got.Term)
	assert.Equal(t, model.CategoryMedical, got.Category)
	assert.Equal(t, []string{"entity", "bm25_rarity"}, got.Algorithms)
	assert.Equal(t, 72.5, got.QualityScore)
	assert.Equal(t, 3, got.Frequency)
	assert.Equal(t, 0, got.CorpusRank)
	assert.False(t, got.Timestamp.IsZero())
}

func TestStore_ClearRemovesRatingButKeepsHistory(t *testing.T) {
	path := tempLog(t)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Record(record("stethoscope", model.LabelApproved)))
	require.NoError(t, s.Record(record("stethoscope", model.LabelCleared)))

	_, ok := s.Rating("stethoscope")
	assert.False(t, ok)
	assert.Equal(t, 0, s.RatedCount())
	assert.Equal(t, 2, s.TotalRecords())

	history, err := s.History()
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// The clear survives a reload too.
	reloaded, err := Open(path)
	require.NoError(t, err)
	_, ok = reloaded.Rating("stethoscope")
	assert.False(t, ok)
}

func TestStore_ReRatingLatestWins(t *testing.T) {
	s, err := Open(tempLog(t))
	require.NoError(t, err)

	require.NoError(t, s.Record(record("remand", model.LabelApproved)))
	require.NoError(t, s.Record(record("remand", model.LabelRejected)))

	label, ok := s.Rating("remand")
	require.True(t, ok)
	assert.Equal(t, model.LabelRejected, label)
	assert.Equal(t, 1, s.RatedCount())
	assert.Equal(t, 2, s.TotalRecords())
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	s, err := Open(tempLog(t))
	require.NoError(t, err)
	assert.Error(t, s.Record(record("term", model.FeedbackLabel(2))))
	assert.Error(t, s.Record(record("   ", model.LabelApproved)))
}

func TestStore_SkipsMalformedRows(t *testing.T) {
	path := tempLog(t)
	good := record("adenocarcinoma", model.LabelApproved)
	good.Timestamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := strings.Join([]string{
		strings.Join(logHeader, ","),
		"not-a-timestamp,ctx,term,1,medical,entity,50.00,1,0",
		"2026-03-01T12:00:00Z,ctx,short-row,1",
		strings.Join(formatRow(good), ","),
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalRecords())
	_, ok := s.Rating("adenocarcinoma")
	assert.True(t, ok)

	history, err := s.History()
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStore_WritesHeaderOnce(t *testing.T) {
	path := tempLog(t)
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(record("alpha", model.LabelApproved)))
	require.NoError(t, s.Record(record("beta", model.LabelApproved)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,context_id"))
}
