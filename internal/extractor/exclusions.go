package extractor

import (
	"bufio"
	"os"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vocab-cli/internal/model"
)

// ExclusionList is the user's persisted suppression list: a flat
// newline-delimited file of terms never to propose again. Appends reload
// the in-memory set without restarting the session.
type ExclusionList struct {
	path string

	mu    sync.RWMutex
	terms map[string]bool
}

// OpenExclusions loads the list at path. A missing file is an empty list.
func OpenExclusions(path string) (*ExclusionList, error) {
	e := &ExclusionList{path: path, terms: make(map[string]bool)}
	if err := e.reload(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ExclusionList) reload() error {
	f, err := os.Open(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "extractor: open exclusions %s", e.path)
	}
	defer f.Close()

	terms := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		term := model.NormalizeTerm(scanner.Text())
		if term != "" {
			terms[term] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "extractor: read exclusions")
	}

	e.mu.Lock()
	e.terms = terms
	e.mu.Unlock()
	return nil
}

// Contains reports whether the term is suppressed.
func (e *ExclusionList) Contains(term string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.terms[model.NormalizeTerm(term)]
}

// Add appends a term to the file and the in-memory set.
func (e *ExclusionList) Add(term string) error {
	normalized := model.NormalizeTerm(term)
	if normalized == "" {
		return eris.New("extractor: exclude empty term")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.terms[normalized] {
		return nil
	}

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "extractor: open exclusions %s for append", e.path)
	}
	defer f.Close()

	if _, err := f.WriteString(normalized + "\n"); err != nil {
		return eris.Wrap(err, "extractor: append exclusion")
	}
	e.terms[normalized] = true
	return nil
}

// Len returns the number of suppressed terms.
func (e *ExclusionList) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.terms)
}
