// Package store implements the knowledge store convention: a data directory
// with one subdirectory per category, a needs-review holding area, and an
// append-only markdown audit log at the root. Documents themselves are plain
// files written and read through the document codec.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/document"
)

// NeedsReviewDirName is the holding area for low-confidence captures.
const NeedsReviewDirName = "_needs_review"

// Store roots all knowledge-store paths at a data directory.
type Store struct {
	root   string
	logger *zap.Logger
}

// New creates a Store rooted at dataDir. Directories are created lazily on
// first write; a missing root reads as an empty store.
func New(dataDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: dataDir, logger: logger}
}

// Root returns the data directory.
func (s *Store) Root() string {
	return s.root
}

// CategoryDir returns the absolute path of a category's subdirectory.
func (s *Store) CategoryDir(c document.Category) string {
	return filepath.Join(s.root, c.Dir())
}

// NeedsReviewDir returns the absolute path of the holding area.
func (s *Store) NeedsReviewDir() string {
	return filepath.Join(s.root, NeedsReviewDirName)
}

// ScanDirs returns every directory a full scan visits, in scan order: the
// four categories, then the needs-review holding area.
func (s *Store) ScanDirs() []string {
	dirs := make([]string, 0, len(document.Categories)+1)
	for _, c := range document.Categories {
		dirs = append(dirs, s.CategoryDir(c))
	}
	return append(dirs, s.NeedsReviewDir())
}

// WriteDocument writes encoded content under dir, creating the directory if
// absent. Existing files are overwritten silently; filename uniqueness is
// the caller's concern.
func (s *Store) WriteDocument(dir, filename, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// FindDocument locates filename by searching every category directory and
// then the needs-review area. Returns the full path and whether the hit was
// in the holding area.
func (s *Store) FindDocument(filename string) (path string, needsReview bool, ok bool) {
	for _, c := range document.Categories {
		candidate := filepath.Join(s.CategoryDir(c), filename)
		if fileExists(candidate) {
			return candidate, false, true
		}
	}
	candidate := filepath.Join(s.NeedsReviewDir(), filename)
	if fileExists(candidate) {
		return candidate, true, true
	}
	return "", false, false
}

// Remove deletes a document file.
func (s *Store) Remove(path string) error {
	return os.Remove(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ListDocuments returns the document filenames in dir. A missing directory
// reads as empty, not as an error.
func (s *Store) ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), document.Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
