package textextract

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text using the pdftotext CLI tool for PDFs and falls
// back to a direct read for plain-text formats.
type PdfToText struct {
	binPath string
	plain   *PlainText
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, plain: NewPlainText()}
}

// ExtractText runs pdftotext -layout on PDF files and returns stdout.
// Non-PDF files are read directly.
func (p *PdfToText) ExtractText(ctx context.Context, path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return p.plain.ExtractText(ctx, path)
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "textextract: pdftotext failed for %s: %s", path, stderr.String())
	}

	return stdout.String(), nil
}
