package ops

import (
	"testing"
	"time"

	"github.com/hpungsan/fern/internal/document"
)

func TestPrioritizeActions_DueDateWins(t *testing.T) {
	twoDaysAgo := time.Now().Add(-2 * 24 * time.Hour)
	items := []document.Document{
		{Path: "no-due", Created: twoDaysAgo, Meta: document.Metadata{}},
		{Path: "due", Created: twoDaysAgo, Meta: document.Metadata{"due": "2026-09-01"}},
	}

	ranked := PrioritizeActions(items)
	if ranked[0].Path != "due" {
		t.Errorf("ranked[0] = %s, want the due-date item first", ranked[0].Path)
	}
}

func TestPrioritizeActions_RecencyWins(t *testing.T) {
	items := []document.Document{
		{Path: "stale", Created: time.Now().Add(-2 * 24 * time.Hour), Meta: document.Metadata{}},
		{Path: "fresh", Created: time.Now(), Meta: document.Metadata{}},
	}

	ranked := PrioritizeActions(items)
	if ranked[0].Path != "fresh" {
		t.Errorf("ranked[0] = %s, want the more recent item first", ranked[0].Path)
	}
}

func TestPrioritizeActions_ScoreComponents(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		doc  document.Document
		want int
	}{
		{
			name: "due date",
			doc:  document.Document{Created: now.Add(-5 * 24 * time.Hour), Meta: document.Metadata{"due": "x"}},
			want: 100,
		},
		{
			name: "created today",
			doc:  document.Document{Created: now, Meta: document.Metadata{}},
			want: 50,
		},
		{
			name: "created yesterday",
			doc:  document.Document{Created: now.AddDate(0, 0, -1), Meta: document.Metadata{}},
			want: 30,
		},
		{
			name: "active status",
			doc:  document.Document{Created: now.Add(-5 * 24 * time.Hour), Meta: document.Metadata{"status": "active"}},
			want: 20,
		},
		{
			name: "urgent body",
			doc:  document.Document{Created: now.Add(-5 * 24 * time.Hour), Meta: document.Metadata{}, Body: "this is OVERDUE"},
			want: 40,
		},
		{
			name: "everything stacks",
			doc: document.Document{
				Created: now,
				Meta:    document.Metadata{"due": "x", "status": "active"},
				Body:    "urgent",
			},
			want: 210,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreItem(tt.doc, now); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrioritizeActions_StableTies(t *testing.T) {
	created := time.Now().Add(-5 * 24 * time.Hour)
	items := []document.Document{
		{Path: "first", Created: created, Meta: document.Metadata{}},
		{Path: "second", Created: created, Meta: document.Metadata{}},
		{Path: "third", Created: created, Meta: document.Metadata{}},
	}

	ranked := PrioritizeActions(items)
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].Path != want {
			t.Errorf("ranked[%d] = %s, want %s (ties keep encounter order)", i, ranked[i].Path, want)
		}
	}
}

func TestDailyActions_Scenario(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	now := time.Now()

	// Overdue admin item, active project from today, follow-up from yesterday.
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryAdmin), "taxes.capture.md",
		document.Metadata{"category": "admin", "name": "Taxes", "due": stamp(now.Add(-2 * 24 * time.Hour)), "created": stamp(now.Add(-2 * 24 * time.Hour))}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), "launch.capture.md",
		document.Metadata{"category": "projects", "name": "Launch", "status": "active", "created": stamp(now)}, "")
	writeDoc(t, d, d.Store.CategoryDir(document.CategoryPeople), "sam.capture.md",
		document.Metadata{"category": "people", "name": "Sam", "follow_up": "reply", "created": stamp(now.AddDate(0, 0, -1))}, "")

	got := DailyActions(d, 2)
	if len(got) != 2 {
		t.Fatalf("actions = %d, want exactly 2", len(got))
	}
	if got[0].Filename != "taxes.capture.md" {
		t.Errorf("top action = %s, want the due-date item", got[0].Filename)
	}
}

func TestDailyActions_EmptyStore(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	if got := DailyActions(d, 0); len(got) != 0 {
		t.Errorf("actions = %v, want none", got)
	}
}

func TestDailyActions_DefaultLimit(t *testing.T) {
	d := newTestDeps(t, document.Classification{})
	now := time.Now()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeDoc(t, d, d.Store.CategoryDir(document.CategoryProjects), name+".capture.md",
			document.Metadata{"category": "projects", "name": name, "status": "active", "created": stamp(now)}, "")
	}

	if got := DailyActions(d, 0); len(got) != 3 {
		t.Errorf("actions = %d, want default limit 3", len(got))
	}
}
