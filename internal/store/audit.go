package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/fern/internal/document"
)

// AuditLogName is the append-only audit log at the store root.
const AuditLogName = "_inbox_log.md"

// thoughtExcerptLen caps the thought excerpt recorded per capture entry.
const thoughtExcerptLen = 200

// CaptureEntry records one capture in the audit log.
type CaptureEntry struct {
	Time       time.Time
	UserID     string
	Category   document.Category
	Confidence float64
	Filename   string
	Thought    string
}

// FixEntry records one category correction in the audit log.
type FixEntry struct {
	Time        time.Time
	UserID      string
	NewCategory document.Category
	OldCategory document.Category
	Confidence  float64
	Filename    string
}

// AuditLogPath returns the audit log location.
func (s *Store) AuditLogPath() string {
	return filepath.Join(s.root, AuditLogName)
}

// AppendCapture appends a capture entry. Entries are never edited or removed.
func (s *Store) AppendCapture(e CaptureEntry) error {
	excerpt := truncateExcerpt(e.Thought, thoughtExcerptLen)

	var b strings.Builder
	writeEntryHeader(&b, e.Time, e.UserID, e.Category, e.Confidence, e.Filename)
	fmt.Fprintf(&b, "**Thought:** %s...\n", excerpt)

	return s.appendAudit(b.String())
}

// AppendFix appends a fix entry recording an old→new category change.
func (s *Store) AppendFix(e FixEntry) error {
	var b strings.Builder
	writeEntryHeader(&b, e.Time, e.UserID, e.NewCategory, e.Confidence, e.Filename)
	b.WriteString("**Action:** Fix\n")
	fmt.Fprintf(&b, "**Change:** %s → %s\n", e.OldCategory, e.NewCategory)

	return s.appendAudit(b.String())
}

// truncateExcerpt caps s at max bytes without splitting a multi-byte rune,
// backing up to the nearest rune start so the log stays valid UTF-8.
func truncateExcerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func writeEntryHeader(b *strings.Builder, ts time.Time, userID string, category document.Category, confidence float64, filename string) {
	if userID == "" {
		userID = "unknown"
	}
	b.WriteString("---\n\n")
	fmt.Fprintf(b, "**Timestamp:** %s\n", ts.Format(time.RFC3339))
	fmt.Fprintf(b, "**User:** %s\n", userID)
	fmt.Fprintf(b, "**Category:** %s (confidence: %.2f)\n", category, confidence)
	fmt.Fprintf(b, "**File:** `%s`\n", filename)
}

func (s *Store) appendAudit(block string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.AuditLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(block + "\n")
	return err
}

// LastCaptureByUser scans the audit log in file order and returns the
// filename from the last entry attributed to userID. This is the only
// mechanism for resolving "the most recent capture by a given user".
func (s *Store) LastCaptureByUser(userID string) (string, bool) {
	data, err := os.ReadFile(s.AuditLogPath())
	if err != nil {
		return "", false
	}

	var (
		currentUser string
		lastMatch   string
	)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "**User:**"):
			currentUser = strings.TrimSpace(strings.TrimPrefix(line, "**User:**"))
		case strings.HasPrefix(line, "**File:**"):
			file := strings.TrimSpace(strings.TrimPrefix(line, "**File:**"))
			file = strings.Trim(file, "`")
			if currentUser == userID && file != "" {
				lastMatch = file
			}
		}
	}

	if lastMatch == "" {
		return "", false
	}
	return lastMatch, true
}
