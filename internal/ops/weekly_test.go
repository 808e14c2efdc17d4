package ops

import (
	"testing"
	"time"

	"github.com/hpungsan/fern/internal/document"
)

func TestWeekly_EmptyStore(t *testing.T) {
	d := newTestDeps(t, document.Classification{})

	got := Weekly(d)
	if got.TotalCaptures != 0 || got.MeanConfidence != 0 || got.NeedsReview != 0 {
		t.Errorf("empty store weekly = %+v, want zeros", got)
	}
	if got.ActiveProjects == nil || got.PeopleFollowups == nil {
		t.Error("slices should be empty, not nil, for clean JSON output")
	}
}

func TestWeekly_Aggregates(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	now := time.Now()

	writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), "launch.capture.md",
		document.Metadata{"category": "projects", "name": "Launch", "status": "active", "created": stamp(now.Add(-24 * time.Hour)), "confidence": 0.9}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), "shipped.capture.md",
		document.Metadata{"category": "projects", "name": "Shipped", "status": "done", "created": stamp(now.Add(-24 * time.Hour)), "confidence": 0.8}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryPeople), "sam.capture.md",
		document.Metadata{"category": "people", "name": "Sam", "follow_up": "reply to email", "created": stamp(now), "confidence": 0.7}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryIdeas), "spark.capture.md",
		document.Metadata{"category": "ideas", "name": "Spark", "created": stamp(now), "confidence": 0.6}, "")

	got := Weekly(d)

	if got.TotalCaptures != 4 {
		t.Errorf("total = %d, want 4", got.TotalCaptures)
	}
	if got.ByCategory["projects"] != 2 || got.ByCategory["people"] != 1 || got.ByCategory["ideas"] != 1 {
		t.Errorf("by_category = %v", got.ByCategory)
	}

	wantMean := (0.9 + 0.8 + 0.7 + 0.6) / 4
	if diff := got.MeanConfidence - wantMean; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("mean confidence = %v, want %v", got.MeanConfidence, wantMean)
	}

	if len(got.ActiveProjects) != 1 || got.ActiveProjects[0].Title != "Launch" {
		t.Errorf("active projects = %+v, want only Launch", got.ActiveProjects)
	}
	if len(got.PeopleFollowups) != 1 || got.PeopleFollowups[0].FollowUp != "reply to email" {
		t.Errorf("followups = %+v, want only Sam's", got.PeopleFollowups)
	}
}

func TestWeekly_ExcludesOldCaptures(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	now := time.Now()

	writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), "ancient.capture.md",
		document.Metadata{"category": "projects", "name": "Ancient", "status": "active", "created": stamp(now.Add(-30 * 24 * time.Hour)), "confidence": 0.9}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), "fresh.capture.md",
		document.Metadata{"category": "projects", "name": "Fresh", "status": "active", "created": stamp(now), "confidence": 0.9}, "")

	got := Weekly(d)
	if got.TotalCaptures != 1 {
		t.Errorf("total = %d, want 1 (old capture outside the window)", got.TotalCaptures)
	}
	if len(got.ActiveProjects) != 1 || got.ActiveProjects[0].Title != "Fresh" {
		t.Errorf("active projects = %+v, want only Fresh", got.ActiveProjects)
	}
}

func TestWeekly_NeedsReviewIgnoresWindow(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	old := time.Now().Add(-30 * 24 * time.Hour)

	writeDoc(t, d, d.Store.NeedsReviewDir(), "stale.capture.md",
		document.Metadata{"category": "admin", "name": "Stale", "created": stamp(old), "confidence": 0.1}, "")

	got := Weekly(d)
	if got.NeedsReview != 1 {
		t.Errorf("needs review = %d, want 1 regardless of capture date", got.NeedsReview)
	}
	if got.TotalCaptures != 0 {
		t.Errorf("total = %d, want 0 (the stale doc is outside the window)", got.TotalCaptures)
	}
}
