package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/google/uuid"
)

// Ensure Spool implements postpdf.Spool at compile time.
var _ postpdf.Spool = (*Spool)(nil)

// Spool stores rendered documents in uniquely named files inside a single
// directory until they have been sent.
type Spool struct {
	dir string
}

// NewSpool creates a Spool in dir. The directory is created on first write.
func NewSpool(dir string) *Spool {
	return &Spool{dir: dir}
}

// Dir returns the spool directory.
func (s *Spool) Dir() string {
	return s.dir
}

// Write stores data in a new file with extension ext and returns its path.
func (s *Spool) Write(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	name := uuid.NewString()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes a file written by this spool. Paths outside the spool
// directory are rejected. Removing a missing file is not an error.
func (s *Spool) Remove(path string) error {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return postpdf.Errorf(postpdf.EINVALID, "path %q is not in spool directory", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Sweep removes spool files last modified before now minus maxAge and
// returns how many were removed. It cleans up after interrupted requests.
func (s *Spool) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
