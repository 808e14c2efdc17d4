package ops

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/errors"
	"github.com/hpungsan/fern/internal/store"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Thought string // required
	UserID  string // optional, recorded in the audit log
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID          string  `json:"id"`
	Path        string  `json:"path"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	Filename    string  `json:"filename"`
}

// Capture classifies a thought and persists it as a tagged document. A
// classification failure degrades to a reviewable low-confidence capture; the
// only errors returned are storage failures.
func Capture(ctx context.Context, d *Deps, input CaptureInput) (*CaptureOutput, error) {
	if strings.TrimSpace(input.Thought) == "" {
		return nil, errors.NewInvalidRequest("thought is required")
	}

	c := d.Classifier.Classify(ctx, input.Thought)
	needsReview := c.Confidence < d.Config.ConfidenceThreshold

	targetDir := d.Store.CategoryDir(c.Category)
	if needsReview {
		targetDir = d.Store.NeedsReviewDir()
	}

	now := time.Now()
	meta := buildMetadata(c, now)
	body := buildBody(c, input.Thought)
	filename := document.FileName(c.Name(), now)

	path, err := d.Store.WriteDocument(targetDir, filename, document.Encode(meta, body))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := d.Store.AppendCapture(store.CaptureEntry{
		Time:       now,
		UserID:     input.UserID,
		Category:   c.Category,
		Confidence: c.Confidence,
		Filename:   filename,
		Thought:    input.Thought,
	}); err != nil {
		return nil, errors.NewInternal(err)
	}

	if d.Config.GitTracking {
		if err := d.Store.CommitCapture(path); err != nil {
			d.logger().Warn("git tracking failed", zap.String("file", filename), zap.Error(err))
		}
	}

	d.logger().Info("captured thought",
		zap.String("file", filename),
		zap.String("category", string(c.Category)),
		zap.Float64("confidence", c.Confidence),
		zap.Bool("needs_review", needsReview))

	return &CaptureOutput{
		ID:          ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Path:        path,
		Category:    string(c.Category),
		Confidence:  c.Confidence,
		NeedsReview: needsReview,
		Filename:    filename,
	}, nil
}

// buildMetadata assembles the document frontmatter: category, confidence,
// creation timestamp, and every extracted field that is present.
func buildMetadata(c document.Classification, now time.Time) document.Metadata {
	meta := document.Metadata{
		"category":   string(c.Category),
		"confidence": c.Confidence,
		"created":    now.Format(time.RFC3339),
	}

	put := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			meta[key] = value
		}
	}

	switch {
	case c.People != nil:
		put("name", c.People.Name)
		put("context", c.People.Context)
		put("follow_up", c.People.FollowUp)
	case c.Project != nil:
		put("name", c.Project.Name)
		put("status", c.Project.Status)
		put("next_action", c.Project.NextAction)
	case c.Idea != nil:
		put("name", c.Idea.Name)
		put("summary", c.Idea.Summary)
	case c.Admin != nil:
		put("name", c.Admin.Name)
		put("due", c.Admin.Due)
	}

	return meta
}

// buildBody renders the document body: the present optional sections in
// fixed order, then the verbatim thought and the classifier's reasoning.
func buildBody(c document.Classification, thought string) string {
	type section struct {
		title string
		text  string
	}

	var sections []section
	add := func(title, text string) {
		if strings.TrimSpace(text) != "" {
			sections = append(sections, section{title, text})
		}
	}

	if c.People != nil {
		add("Context", c.People.Context)
		add("Follow Up", c.People.FollowUp)
	}
	if c.Project != nil {
		add("Next Action", c.Project.NextAction)
	}
	if c.Idea != nil {
		add("Summary", c.Idea.Summary)
	}
	if c.Admin != nil {
		add("Notes", c.Admin.Notes)
	}
	sections = append(sections,
		section{"Original Thought", thought},
		section{"Classification Reasoning", c.Reasoning},
	)

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.title + "\n\n" + strings.TrimSpace(s.text) + "\n")
	}
	return b.String()
}
