// Package textextract obtains plain text from reference documents. The
// linguistic pipeline treats it as an external collaborator: only the
// Extractor contract matters, not how a given format is read.
package textextract

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vocab-cli/internal/config"
)

// Extractor extracts plain text from a document file.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.TextExtractConfig) (Extractor, error) {
	switch cfg.Provider {
	case "plain", "":
		return NewPlainText(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("textextract: unknown provider %q", cfg.Provider)
	}
}

// ScanCorpusDir lists corpus documents: regular files whose extension is in
// the allow list, sorted by name. A missing directory is a normal empty
// corpus, not an error.
func ScanCorpusDir(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "textextract: read corpus dir %s", dir)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
