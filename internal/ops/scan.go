package ops

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/document"
)

// urgencyKeywords mark an admin item actionable when any appears in its body
// (case-insensitive).
var urgencyKeywords = []string{"urgent", "asap", "deadline", "overdue"}

// ScanAll walks the four category directories plus the needs-review holding
// area and decodes every stored document. A missing root or directory reads
// as empty; a file that fails to read or decode is logged and skipped.
func ScanAll(d *Deps) []document.Document {
	var docs []document.Document
	for _, c := range document.Categories {
		docs = append(docs, scanDir(d, d.Store.CategoryDir(c), c, false)...)
	}
	docs = append(docs, scanDir(d, d.Store.NeedsReviewDir(), document.CategoryAdmin, true)...)
	return docs
}

// ScanCategory scans a single category directory.
func ScanCategory(d *Deps, c document.Category) []document.Document {
	return scanDir(d, d.Store.CategoryDir(c), c, false)
}

// NeedsReview scans the holding area.
func NeedsReview(d *Deps) []document.Document {
	return scanDir(d, d.Store.NeedsReviewDir(), document.CategoryAdmin, true)
}

// scanDir decodes every document in dir. fallback is the category assumed
// when a document's metadata carries none.
func scanDir(d *Deps, dir string, fallback document.Category, needsReview bool) []document.Document {
	names, err := d.Store.ListDocuments(dir)
	if err != nil {
		d.logger().Warn("scan failed to list directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	var docs []document.Document
	for _, name := range names {
		doc, err := readDocument(filepath.Join(dir, name), fallback)
		if err != nil {
			d.logger().Warn("skipping unreadable document",
				zap.String("file", name), zap.Error(err))
			continue
		}
		doc.NeedsReview = needsReview
		docs = append(docs, doc)
	}
	return docs
}

// readDocument loads one file and maps its metadata to a Document,
// substituting the filesystem modification time when no creation timestamp is
// present, and the filename when no name is.
func readDocument(path string, fallback document.Category) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return document.Document{}, err
	}

	meta, body := document.Decode(string(data))
	filename := filepath.Base(path)

	doc := document.Document{
		Filename: filename,
		Path:     path,
		Body:     body,
		Meta:     meta,
		ModTime:  info.ModTime(),
	}

	doc.Category = fallback
	if c, ok := document.ParseCategory(metaString(meta, "category")); ok {
		doc.Category = c
	}

	doc.Title = metaString(meta, "name")
	if doc.Title == "" {
		doc.Title = document.TitleFromFilename(filename)
	}

	doc.Created = info.ModTime()
	if created, err := time.Parse(time.RFC3339, metaString(meta, "created")); err == nil {
		doc.Created = created
	}

	if conf, ok := meta["confidence"].(float64); ok {
		doc.Confidence = conf
	}

	return doc, nil
}

func metaString(meta document.Metadata, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// FilterByDate returns documents created within the trailing days*24h window.
func FilterByDate(docs []document.Document, days int) []document.Document {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	var out []document.Document
	for _, doc := range docs {
		if doc.Created.After(cutoff) {
			out = append(out, doc)
		}
	}
	return out
}

// ActionableItems filters the full scan down to documents requiring
// follow-up: projects with an active or todo status, people with a non-empty
// follow-up, admin items with a due date or an urgency keyword in the body.
// Ideas are never actionable.
func ActionableItems(d *Deps) []document.Document {
	var out []document.Document
	for _, doc := range ScanAll(d) {
		if isActionable(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func isActionable(doc document.Document) bool {
	switch doc.Category {
	case document.CategoryProjects:
		status := doc.MetaString("status")
		return status == document.StatusActive || status == document.StatusTodo
	case document.CategoryPeople:
		return doc.HasMeta("follow_up")
	case document.CategoryAdmin:
		if doc.HasMeta("due") {
			return true
		}
		body := strings.ToLower(doc.Body)
		for _, kw := range urgencyKeywords {
			if strings.Contains(body, kw) {
				return true
			}
		}
	}
	return false
}
