package textextract

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
)

// PlainText reads text files (.txt, .md) directly.
type PlainText struct{}

// NewPlainText creates a PlainText extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// ExtractText returns the file contents as-is.
func (p *PlainText) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "textextract: read %s", path)
	}
	return string(data), nil
}
