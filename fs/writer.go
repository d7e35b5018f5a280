// Package fs provides file-based storage for rendered documents.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/postpdf"
)

// Ensure Writer implements postpdf.OutputWriter at compile time.
var _ postpdf.OutputWriter = (*Writer)(nil)

// Writer writes rendered documents to a directory under their filenames.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteOutput writes out to disk and returns the path written.
func (w *Writer) WriteOutput(ctx context.Context, out *postpdf.Output) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(out.Filename)
	if out.Filename == "" || name != out.Filename || strings.HasPrefix(name, ".") {
		return "", postpdf.Errorf(postpdf.EINVALID, "invalid output filename %q", out.Filename)
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, name)
	if err := os.WriteFile(fullPath, out.Data, 0644); err != nil {
		return "", err
	}
	return fullPath, nil
}
