// Package digest turns synthesized inbox state into narrative text: a daily
// top-actions digest and a broader weekly review, both rendered through the
// reasoning service.
package digest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/brain"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/ops"
)

// Fixed responses that bypass or replace narration.
const (
	AllCaughtUpMessage = "All caught up — nothing needs your attention today."
	NoCapturesMessage  = "No captures this week. Nothing to review."
	FailureMessage     = "Sorry, the digest could not be generated right now. Your inbox is unaffected."
)

// Narrator produces free text from a prompt. A failure is signaled in-band
// with the narration error marker. Satisfied by *brain.Gateway.
type Narrator interface {
	Narrate(ctx context.Context, promptText string) string
}

// Generator renders daily digests and weekly reviews. Templates are resolved
// once on first use and cached for the process lifetime. Safe for concurrent
// use: the scheduler, MCP, and web surfaces may all call in at once.
type Generator struct {
	deps     *ops.Deps
	narrator Narrator
	logger   *zap.Logger

	dailyOnce  sync.Once
	weeklyOnce sync.Once
	daily      string
	weekly     string
}

// NewGenerator creates a Generator over the shared operation deps.
func NewGenerator(deps *ops.Deps, narrator Narrator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{deps: deps, narrator: narrator, logger: logger}
}

// Daily generates the daily digest. With no actionable items it returns the
// caught-up message without calling the reasoning service.
func (g *Generator) Daily(ctx context.Context) string {
	limit := g.deps.Config.DigestActionLimit
	if limit <= 0 {
		limit = 3
	}
	actions := ops.DailyActions(g.deps, limit)
	if len(actions) == 0 {
		return AllCaughtUpMessage
	}

	prompt := g.render(g.dailyTemplate(), map[string]string{
		"date":    time.Now().Format("Monday, January 2"),
		"limit":   fmt.Sprintf("%d", limit),
		"actions": renderActions(actions),
	})
	return g.narrate(ctx, prompt)
}

// Weekly generates the weekly review. An empty 7-day window returns the
// no-captures message without calling the reasoning service.
func (g *Generator) Weekly(ctx context.Context) string {
	summary := ops.Weekly(g.deps)
	if summary.TotalCaptures == 0 {
		return NoCapturesMessage
	}

	prompt := g.render(g.weeklyTemplate(), map[string]string{
		"date":    time.Now().Format("Monday, January 2"),
		"summary": renderSummary(summary),
	})
	return g.narrate(ctx, prompt)
}

func (g *Generator) narrate(ctx context.Context, prompt string) string {
	text := g.narrator.Narrate(ctx, prompt)
	if brain.IsNarrationError(text) {
		g.logger.Warn("narration failed", zap.String("detail", text))
		return FailureMessage
	}
	return text
}

func (g *Generator) render(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func (g *Generator) dailyTemplate() string {
	g.dailyOnce.Do(func() {
		g.daily = g.loadTemplate(dailyTemplateFile, builtinDailyTemplate)
	})
	return g.daily
}

func (g *Generator) weeklyTemplate() string {
	g.weeklyOnce.Do(func() {
		g.weekly = g.loadTemplate(weeklyTemplateFile, builtinWeeklyTemplate)
	})
	return g.weekly
}

// loadTemplate resolves a template: configured directory, then
// <DataDir>/templates, then the built-in default. Never fails.
func (g *Generator) loadTemplate(filename, builtin string) string {
	var dirs []string
	if g.deps.Config.TemplateDir != "" {
		dirs = append(dirs, g.deps.Config.TemplateDir)
	}
	dirs = append(dirs, filepath.Join(g.deps.Store.Root(), "templates"))

	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil && strings.TrimSpace(string(data)) != "" {
			g.logger.Debug("loaded digest template",
				zap.String("file", filepath.Join(dir, filename)))
			return string(data)
		}
	}
	return builtin
}

// renderActions lays out each action as a list line with whichever detail
// fields are present.
func renderActions(actions []document.Document) string {
	var b strings.Builder
	for i, doc := range actions {
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, doc.Title, doc.Category)
		for _, key := range []string{"status", "next_action", "follow_up", "due"} {
			if v := doc.MetaString(key); v != "" {
				fmt.Fprintf(&b, " — %s: %s", strings.ReplaceAll(key, "_", " "), v)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSummary lays out the weekly summary counts and lists.
func renderSummary(s *ops.WeeklySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Captures this week: %d\n", s.TotalCaptures)
	for category, count := range s.ByCategory {
		fmt.Fprintf(&b, "  %s: %d\n", category, count)
	}
	fmt.Fprintf(&b, "Mean confidence: %.2f\n", s.MeanConfidence)
	fmt.Fprintf(&b, "Awaiting review: %d\n", s.NeedsReview)

	if len(s.ActiveProjects) > 0 {
		b.WriteString("Active projects:\n")
		for _, p := range s.ActiveProjects {
			fmt.Fprintf(&b, "  - %s (%s)\n", p.Title, p.Status)
		}
	}
	if len(s.PeopleFollowups) > 0 {
		b.WriteString("Outstanding follow-ups:\n")
		for _, f := range s.PeopleFollowups {
			fmt.Fprintf(&b, "  - %s: %s\n", f.Title, f.FollowUp)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
