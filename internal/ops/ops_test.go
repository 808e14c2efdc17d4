package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/fern/internal/config"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/store"
)

// stubClassifier returns a fixed classification.
type stubClassifier struct {
	result document.Classification
}

func (s stubClassifier) Classify(_ context.Context, _ string) document.Classification {
	return s.result
}

// newTestDeps creates a Deps bundle over a temp-dir store.
func newTestDeps(t *testing.T, result document.Classification) *Deps {
	t.Helper()
	return NewDeps(
		store.New(t.TempDir(), nil),
		config.DefaultConfig(),
		stubClassifier{result: result},
		nil,
	)
}

// writeDoc drops a fixture document directly into the store.
func writeDoc(t *testing.T, d *Deps, dir, filename string, meta document.Metadata, body string) {
	t.Helper()
	if _, err := d.Store.WriteDocument(dir, filename, document.Encode(meta, body)); err != nil {
		t.Fatalf("write fixture %s: %v", filename, err)
	}
}

// stamp formats a created timestamp for fixture metadata.
func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func peopleClassification(confidence float64) document.Classification {
	return document.Classification{
		Category:   document.CategoryPeople,
		Confidence: confidence,
		Reasoning:  "mentions a call with a person",
		People: &document.PeopleFields{
			Name:     "Sarah",
			Context:  "Marketing strategy discussion",
			FollowUp: "Send proposal by Friday",
		},
	}
}
