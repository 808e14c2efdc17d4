package digest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hpungsan/fern/internal/brain"
	"github.com/hpungsan/fern/internal/config"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/ops"
	"github.com/hpungsan/fern/internal/store"
)

// stubNarrator records the last prompt and returns a canned response.
type stubNarrator struct {
	response string
	prompt   string
	calls    int
}

func (s *stubNarrator) Narrate(_ context.Context, promptText string) string {
	s.prompt = promptText
	s.calls++
	return s.response
}

func newTestGenerator(t *testing.T, response string) (*Generator, *stubNarrator, *ops.Deps) {
	t.Helper()
	deps := ops.NewDeps(store.New(t.TempDir(), nil), config.DefaultConfig(), nil, nil)
	narrator := &stubNarrator{response: response}
	return NewGenerator(deps, narrator, nil), narrator, deps
}

func writeDoc(t *testing.T, deps *ops.Deps, dir, filename string, meta document.Metadata) {
	t.Helper()
	if _, err := deps.Store.WriteDocument(dir, filename, document.Encode(meta, "")); err != nil {
		t.Fatalf("write fixture %s: %v", filename, err)
	}
}

func TestDaily_AllCaughtUp(t *testing.T) {
	g, narrator, _ := newTestGenerator(t, "should not be called")

	got := g.Daily(context.Background())
	if got != AllCaughtUpMessage {
		t.Errorf("digest = %q, want the caught-up message", got)
	}
	if narrator.calls != 0 {
		t.Error("empty action list must not reach the reasoning service")
	}
}

func TestDaily_NarratesActions(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "Good morning! Ship the launch today.")

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "launch.capture.md",
		document.Metadata{
			"category":    "projects",
			"name":        "Launch",
			"status":      "active",
			"next_action": "ship it",
			"created":     time.Now().Format(time.RFC3339),
		})

	got := g.Daily(context.Background())
	if got != "Good morning! Ship the launch today." {
		t.Errorf("digest = %q, want the narrated text", got)
	}

	for _, want := range []string{"Launch", "projects", "status: active", "next action: ship it"} {
		if !strings.Contains(narrator.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, narrator.prompt)
		}
	}
}

func TestDaily_NarrationFailure(t *testing.T) {
	g, _, deps := newTestGenerator(t, brain.NarrationErrorPrefix+" service timed out")

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	got := g.Daily(context.Background())
	if got != FailureMessage {
		t.Errorf("digest = %q, want the fixed failure message, never the raw error", got)
	}
}

func TestWeekly_NoCaptures(t *testing.T) {
	g, narrator, _ := newTestGenerator(t, "should not be called")

	got := g.Weekly(context.Background())
	if got != NoCapturesMessage {
		t.Errorf("review = %q, want the no-captures message", got)
	}
	if narrator.calls != 0 {
		t.Error("empty window must not reach the reasoning service")
	}
}

func TestWeekly_NarratesSummary(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "A productive week.")
	now := time.Now().Format(time.RFC3339)

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "launch.capture.md",
		document.Metadata{"category": "projects", "name": "Launch", "status": "active", "created": now, "confidence": 0.9})
	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryPeople), "sam.capture.md",
		document.Metadata{"category": "people", "name": "Sam", "follow_up": "reply", "created": now, "confidence": 0.8})

	got := g.Weekly(context.Background())
	if got != "A productive week." {
		t.Errorf("review = %q, want the narrated text", got)
	}

	for _, want := range []string{"Captures this week: 2", "Launch (active)", "Sam: reply"} {
		if !strings.Contains(narrator.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, narrator.prompt)
		}
	}
}

func TestTemplateResolution(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "ok")

	// A template under <root>/templates wins over the built-in.
	dir := filepath.Join(deps.Store.Root(), "templates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "CUSTOM {{date}} {{limit}}\n{{actions}}"
	if err := os.WriteFile(filepath.Join(dir, "daily_digest.txt"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	g.Daily(context.Background())
	if !strings.HasPrefix(narrator.prompt, "CUSTOM ") {
		t.Errorf("prompt should use the store template:\n%s", narrator.prompt)
	}
	if strings.Contains(narrator.prompt, "{{") {
		t.Errorf("placeholders left unsubstituted:\n%s", narrator.prompt)
	}
}

func TestTemplateResolution_ConfiguredDirWins(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "ok")

	configured := t.TempDir()
	deps.Config.TemplateDir = configured
	if err := os.WriteFile(filepath.Join(configured, "daily_digest.txt"),
		[]byte("CONFIGURED\n{{actions}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	storeDir := filepath.Join(deps.Store.Root(), "templates")
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(storeDir, "daily_digest.txt"),
		[]byte("STORE\n{{actions}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	g.Daily(context.Background())
	if !strings.HasPrefix(narrator.prompt, "CONFIGURED") {
		t.Errorf("configured template dir should win:\n%s", narrator.prompt)
	}
}

// lockedNarrator is a stub safe for use from multiple goroutines.
type lockedNarrator struct {
	mu       sync.Mutex
	response string
	calls    int
}

func (l *lockedNarrator) Narrate(_ context.Context, _ string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.response
}

func TestDaily_ConcurrentCalls(t *testing.T) {
	deps := ops.NewDeps(store.New(t.TempDir(), nil), config.DefaultConfig(), nil, nil)
	narrator := &lockedNarrator{response: "morning text"}
	g := NewGenerator(deps, narrator, nil)

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	// Overlapping scheduler fire + on-demand surfaces: the template cache
	// must be populated exactly once with no torn reads.
	const callers = 8
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Daily(context.Background())
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != "morning text" {
			t.Errorf("call %d = %q, want the narrated text", i, got)
		}
	}
	if narrator.calls != callers {
		t.Errorf("narrator calls = %d, want %d", narrator.calls, callers)
	}
}

func TestDaily_LimitPlaceholderUsesConfiguredLimit(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "ok")

	configured := t.TempDir()
	deps.Config.TemplateDir = configured
	if err := os.WriteFile(filepath.Join(configured, "daily_digest.txt"),
		[]byte("LIMIT={{limit}}\n{{actions}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// One action, configured limit 3: the placeholder carries the limit,
	// not the rendered count.
	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	g.Daily(context.Background())
	if !strings.HasPrefix(narrator.prompt, "LIMIT=3") {
		t.Errorf("prompt = %q, want the configured limit of 3", narrator.prompt)
	}
}

func TestTemplateCaching(t *testing.T) {
	g, narrator, deps := newTestGenerator(t, "ok")

	writeDoc(t, deps, deps.Store.CategoryDir(document.CategoryProjects), "p.capture.md",
		document.Metadata{"category": "projects", "name": "P", "status": "active",
			"created": time.Now().Format(time.RFC3339)})

	g.Daily(context.Background())
	first := narrator.prompt

	// Writing a template after first use must not change subsequent digests.
	dir := filepath.Join(deps.Store.Root(), "templates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "daily_digest.txt"),
		[]byte("LATE\n{{actions}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	g.Daily(context.Background())
	if strings.HasPrefix(narrator.prompt, "LATE") {
		t.Error("template should be cached after first load")
	}
	if !strings.Contains(narrator.prompt, "Actions:") || !strings.Contains(first, "Actions:") {
		t.Errorf("built-in template expected on both calls:\n%s", narrator.prompt)
	}
}
