package store

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
)

// CommitCapture stages path and the audit log and commits them, for stores
// that keep their history in git. Callers treat any error as advisory: a
// commit failure must never fail the capture that triggered it.
func (s *Store) CommitCapture(path string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}

	if err := s.git("add", rel, AuditLogName); err != nil {
		return err
	}
	return s.git("commit", "-m", fmt.Sprintf("capture: %s", filepath.Base(path)))
}

func (s *Store) git(args ...string) error {
	cmd := exec.Command("git", append([]string{"-C", s.root}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w (%s)", args[0], err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}
