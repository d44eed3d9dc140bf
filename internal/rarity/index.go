package rarity

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/vocab-cli/internal/config"
	"github.com/sells-group/vocab-cli/internal/textextract"
)

// indexVersion is bumped whenever the artifact layout or the tokenization
// rules change; a version mismatch on load is a cache miss.
const indexVersion = 1

// Index is the corpus-relative IDF table. Trusted only while its fingerprint
// matches the corpus directory.
type Index struct {
	Version     int                `json:"version"`
	Fingerprint string             `json:"fingerprint"`
	DocCount    int                `json:"doc_count"`
	VocabSize   int                `json:"vocab_size"`
	AvgDocLen   float64            `json:"avg_doc_len"`
	BuiltAt     time.Time          `json:"built_at"`
	IDF         map[string]float64 `json:"idf"`
	DocFreq     map[string]int     `json:"doc_freq"`
}

// CeilingIDF is the rarity assigned to terms absent from the corpus: the IDF
// of a hypothetical term appearing in zero documents.
func (idx *Index) CeilingIDF() float64 {
	n := float64(idx.DocCount)
	return math.Log((n+0.5)/0.5 + 1)
}

// TermIDF returns the term's IDF, or the ceiling for out-of-corpus terms.
func (idx *Index) TermIDF(term string) float64 {
	if v, ok := idx.IDF[term]; ok {
		return v
	}
	return idx.CeilingIDF()
}

// TermDocFreq returns how many corpus documents contain the term; 0 means
// absent from the reference corpus.
func (idx *Index) TermDocFreq(term string) int {
	return idx.DocFreq[term]
}

// Indexer builds, caches, and invalidates the corpus Index.
type Indexer struct {
	corpusDir  string
	extensions []string
	cachePath  string
	extract    textextract.Extractor
	tokenizer  *Tokenizer

	mu      sync.Mutex
	current *Index
	group   singleflight.Group
}

// NewIndexer creates an Indexer over the configured corpus directory.
func NewIndexer(cfg config.CorpusConfig, minTokenLen int, extract textextract.Extractor) *Indexer {
	return &Indexer{
		corpusDir:  cfg.Dir,
		extensions: cfg.Extensions,
		cachePath:  cfg.CachePath,
		extract:    extract,
		tokenizer:  NewTokenizer(minTokenLen),
	}
}

// Ensure returns an Index whose fingerprint matches the corpus directory,
// rebuilding only when necessary. Concurrent callers coalesce onto a single
// rebuild; an in-memory index with a stale fingerprint is replaced, never
// returned.
func (ix *Indexer) Ensure(ctx context.Context) (*Index, error) {
	fingerprint, err := ix.fingerprint()
	if err != nil {
		return nil, err
	}

	ix.mu.Lock()
	if ix.current != nil && ix.current.Fingerprint == fingerprint {
		idx := ix.current
		ix.mu.Unlock()
		return idx, nil
	}
	ix.mu.Unlock()

	// Disk cache may satisfy the fingerprint without re-reading the corpus.
	if idx := ix.loadCache(fingerprint); idx != nil {
		ix.mu.Lock()
		ix.current = idx
		ix.mu.Unlock()
		return idx, nil
	}

	v, err, _ := ix.group.Do(fingerprint, func() (any, error) {
		return ix.rebuild(ctx, fingerprint)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Current returns the last known-good index without triggering a rebuild.
func (ix *Indexer) Current() *Index {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.current
}

// Cached loads whatever index artifact is on disk, regardless of whether it
// still matches the corpus. Status reporting only; scoring goes through
// Ensure.
func (ix *Indexer) Cached() *Index {
	data, err := os.ReadFile(ix.cachePath)
	if err != nil {
		return nil
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Version != indexVersion {
		return nil
	}
	return &idx
}

// fingerprint hashes the sorted (filename, mtime) pairs of the corpus
// directory. Any added, removed, or touched document changes the hash.
func (ix *Indexer) fingerprint() (string, error) {
	files, err := textextract.ScanCorpusDir(ix.corpusDir, ix.extensions)
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s|%d\n", f, info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// rebuild tokenizes every corpus document and recomputes the IDF table.
// Unreadable documents are logged and skipped; if nothing is readable the
// previous index is kept rather than replaced with an empty one.
func (ix *Indexer) rebuild(ctx context.Context, fingerprint string) (*Index, error) {
	files, err := textextract.ScanCorpusDir(ix.corpusDir, ix.extensions)
	if err != nil {
		return nil, err
	}

	docFreq := make(map[string]int)
	processed := 0
	totalLen := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := ix.extract.ExtractText(ctx, path)
		if err != nil {
			zap.L().Warn("rarity: skipping unreadable corpus document",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		tokens := ix.tokenizer.Tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		processed++
		totalLen += len(tokens)
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	if processed == 0 && len(files) > 0 {
		// Total rebuild failure: keep the previous index. In a fresh process
		// the previous index lives only in the disk artifact; its stale
		// fingerprint is irrelevant here, it is still the best table we have.
		ix.mu.Lock()
		prev := ix.current
		ix.mu.Unlock()
		if prev == nil {
			prev = ix.Cached()
		}
		if prev != nil {
			zap.L().Warn("rarity: rebuild yielded no usable documents, keeping previous index",
				zap.Int("attempted", len(files)),
			)
			ix.mu.Lock()
			ix.current = prev
			ix.mu.Unlock()
			return prev, nil
		}
	}

	n := float64(processed)
	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		idf[term] = math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}

	idx := &Index{
		Version:     indexVersion,
		Fingerprint: fingerprint,
		DocCount:    processed,
		VocabSize:   len(idf),
		BuiltAt:     time.Now().UTC(),
		IDF:         idf,
		DocFreq:     docFreq,
	}
	if processed > 0 {
		idx.AvgDocLen = float64(totalLen) / n
	}

	ix.mu.Lock()
	ix.current = idx
	ix.mu.Unlock()

	if processed > 0 {
		if err := ix.saveCache(idx); err != nil {
			zap.L().Warn("rarity: failed to persist index cache", zap.Error(err))
		}
	}

	zap.L().Info("rarity: rebuilt corpus index",
		zap.Int("documents", processed),
		zap.Int("vocabulary", len(idf)),
	)
	return idx, nil
}

// loadCache reads the persisted index if it matches the current fingerprint.
// Corruption, version drift, or fingerprint mismatch are cache misses.
func (ix *Indexer) loadCache(fingerprint string) *Index {
	data, err := os.ReadFile(ix.cachePath)
	if err != nil {
		return nil
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		zap.L().Warn("rarity: index cache unreadable, will rebuild", zap.Error(err))
		return nil
	}
	if idx.Version != indexVersion || idx.Fingerprint != fingerprint {
		return nil
	}
	if idx.IDF == nil {
		idx.IDF = map[string]float64{}
	}
	if idx.DocFreq == nil {
		idx.DocFreq = map[string]int{}
	}
	return &idx
}

func (ix *Indexer) saveCache(idx *Index) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return eris.Wrap(err, "rarity: marshal index")
	}
	tmp := ix.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "rarity: write index cache")
	}
	if err := os.Rename(tmp, ix.cachePath); err != nil {
		return eris.Wrap(err, "rarity: replace index cache")
	}
	return nil
}
