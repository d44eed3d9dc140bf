// Package feedback persists user approve/reject ratings as an append-only
// CSV log with an in-memory current-rating cache.
package feedback

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/model"
)

var logHeader = []string{
	"timestamp", "context_id", "term", "label", "category",
	"algorithms", "quality_score", "frequency", "corpus_rank",
}

// Store is the append-only feedback log. History is immutable: re-rating a
// term appends a new record, and the cache keeps the most recent label.
type Store struct {
	path string

	mu      sync.Mutex
	ratings map[string]model.FeedbackLabel
	total   int
}

// Open loads the log at path, rebuilding the current-rating cache. A missing
// file is an empty history. Malformed rows are logged and skipped.
func Open(path string) (*Store, error) {
	s := &Store{path: path, ratings: make(map[string]model.FeedbackLabel)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, eris.Wrapf(err, "feedback: open log %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("feedback: skipping malformed log row", zap.Error(err))
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == logHeader[0] {
				continue
			}
		}
		rec, err := parseRow(row)
		if err != nil {
			zap.L().Warn("feedback: skipping malformed log row", zap.Error(err))
			continue
		}
		s.apply(rec)
	}
	return s, nil
}

// apply updates the cache with a record; callers hold the mutex or own the
// store exclusively (during Open).
func (s *Store) apply(rec model.FeedbackRecord) {
	key := model.NormalizeTerm(rec.Term)
	s.total++
	if rec.Label == model.LabelCleared {
		delete(s.ratings, key)
		return
	}
	s.ratings[key] = rec.Label
}

// Record appends a rating to the log and updates the cache atomically with
// respect to concurrent raters.
func (s *Store) Record(rec model.FeedbackRecord) error {
	if !rec.Label.Valid() {
		return eris.Errorf("feedback: invalid label %d", rec.Label)
	}
	if strings.TrimSpace(rec.Term) == "" {
		return eris.New("feedback: empty term")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "feedback: open log %s for append", s.path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return eris.Wrap(err, "feedback: stat log")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(logHeader); err != nil {
			return eris.Wrap(err, "feedback: write header")
		}
	}
	if err := w.Write(formatRow(rec)); err != nil {
		return eris.Wrap(err, "feedback: write record")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "feedback: flush record")
	}

	s.apply(rec)
	return nil
}

// Rating returns the current label for a term, if any. Label 0 (cleared)
// never appears here: clearing removes the cached rating.
func (s *Store) Rating(term string) (model.FeedbackLabel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	label, ok := s.ratings[model.NormalizeTerm(term)]
	return label, ok
}

// RatedCount returns how many distinct terms currently carry a rating.
func (s *Store) RatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ratings)
}

// TotalRecords returns how many records the log holds, including
// re-ratings and clears.
func (s *Store) TotalRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// History replays the full log in order. Used by the meta-learner's batch
// training scan; per-term deduplication (most recent label wins) happens
// there, against the immutable history.
func (s *Store) History() ([]model.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "feedback: open log %s", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var records []model.FeedbackRecord
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("feedback: skipping malformed log row", zap.Error(err))
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == logHeader[0] {
				continue
			}
		}
		rec, err := parseRow(row)
		if err != nil {
			zap.L().Warn("feedback: skipping malformed log row", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func formatRow(rec model.FeedbackRecord) []string {
	return []string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.ContextID,
		rec.Term,
		strconv.Itoa(int(rec.Label)),
		string(rec.Category),
		strings.Join(rec.Algorithms, ";"),
		strconv.FormatFloat(rec.QualityScore, 'f', 2, 64),
		strconv.Itoa(rec.Frequency),
		strconv.Itoa(rec.CorpusRank),
	}
}

func parseRow(row []string) (model.FeedbackRecord, error) {
	if len(row) < len(logHeader) {
		return model.FeedbackRecord{}, eris.Errorf("feedback: row has %d fields, want %d", len(row), len(logHeader))
	}
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return model.FeedbackRecord{}, eris.Wrap(err, "feedback: parse timestamp")
	}
	label, err := strconv.Atoi(row[3])
	if err != nil {
		return model.FeedbackRecord{}, eris.Wrap(err, "feedback: parse label")
	}
	l := model.FeedbackLabel(label)
	if !l.Valid() {
		return model.FeedbackRecord{}, eris.Errorf("feedback: invalid label %d", label)
	}

	rec := model.FeedbackRecord{
		Timestamp: ts,
		ContextID: row[1],
		Term:      row[2],
		Label:     l,
		Category:  model.ParseCategory(row[4]),
	}
	if row[5] != "" {
		rec.Algorithms = strings.Split(row[5], ";")
	}
	if rec.QualityScore, err = strconv.ParseFloat(row[6], 64); err != nil {
		return model.FeedbackRecord{}, eris.Wrap(err, "feedback: parse quality score")
	}
	if rec.Frequency, err = strconv.Atoi(row[7]); err != nil {
		return model.FeedbackRecord{}, eris.Wrap(err, "feedback: parse frequency")
	}
	if rec.CorpusRank, err = strconv.Atoi(row[8]); err != nil {
		return model.FeedbackRecord{}, eris.Wrap(err, "feedback: parse corpus rank")
	}
	return rec, nil
}
