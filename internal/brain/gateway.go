package brain

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/document"
)

// NarrationErrorPrefix marks an in-band narration failure. Callers check for
// it with strings.HasPrefix rather than error handling.
const NarrationErrorPrefix = "[narration-error]"

// classifyPrompt is the fixed instruction template for classification. The
// raw thought is substituted for %s.
const classifyPrompt = `You are a classifier for a personal thought inbox. Classify the thought below into exactly one category: people, projects, ideas, or admin.

Respond with a single JSON object and nothing else:
{
  "category": "<people|projects|ideas|admin>",
  "confidence": <0.0-1.0>,
  "reasoning": "<one sentence>",
  "extracted_data": {
    // people:   "name", "context", "follow_ups"
    // projects: "name", "status" (active|todo|waiting|done), "next_action"
    // ideas:    "name", "summary"
    // admin:    "name", "due_date" (optional), "notes"
  }
}

Thought:
%s`

// Gateway exposes classification and narration over a reasoning Client.
type Gateway struct {
	client Client
	logger *zap.Logger
}

// NewGateway creates a Gateway. A nil logger is replaced with a no-op logger.
func NewGateway(client Client, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{client: client, logger: logger}
}

// classifyResponse mirrors the expected classification JSON.
type classifyResponse struct {
	Category      string          `json:"category"`
	Confidence    *float64        `json:"confidence"`
	Reasoning     string          `json:"reasoning"`
	ExtractedData json.RawMessage `json:"extracted_data"`
}

// Classify sends the thought through the classification template and parses
// the structured response. It never returns an error: any service failure,
// parse failure, or schema violation yields the deterministic fallback
// classification, which routes the capture to needs-review.
func (g *Gateway) Classify(ctx context.Context, thought string) document.Classification {
	raw, err := g.client.Complete(ctx, strings.Replace(classifyPrompt, "%s", thought, 1))
	if err != nil {
		g.logger.Warn("classification call failed, using fallback", zap.Error(err))
		return Fallback(thought)
	}

	var resp classifyResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		g.logger.Warn("classification response unparseable, using fallback",
			zap.String("raw", truncate(raw, 200)), zap.Error(err))
		return Fallback(thought)
	}

	category, ok := document.ParseCategory(resp.Category)
	if !ok || resp.Confidence == nil || *resp.Confidence < 0 || *resp.Confidence > 1 {
		g.logger.Warn("classification response failed validation, using fallback",
			zap.String("category", resp.Category))
		return Fallback(thought)
	}

	c := document.Classification{
		Category:   category,
		Confidence: *resp.Confidence,
		Reasoning:  resp.Reasoning,
	}
	if !decodeExtracted(&c, resp.ExtractedData) {
		g.logger.Warn("classification extracted_data invalid, using fallback",
			zap.String("category", string(category)))
		return Fallback(thought)
	}
	return c
}

// decodeExtracted fills the category variant from extracted_data. The name
// field is required for every category.
func decodeExtracted(c *document.Classification, data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}

	switch c.Category {
	case document.CategoryPeople:
		var f document.PeopleFields
		if json.Unmarshal(data, &f) != nil || strings.TrimSpace(f.Name) == "" {
			return false
		}
		c.People = &f
	case document.CategoryProjects:
		var f document.ProjectFields
		if json.Unmarshal(data, &f) != nil || strings.TrimSpace(f.Name) == "" {
			return false
		}
		f.Status = strings.ToLower(strings.TrimSpace(f.Status))
		c.Project = &f
	case document.CategoryIdeas:
		var f document.IdeaFields
		if json.Unmarshal(data, &f) != nil || strings.TrimSpace(f.Name) == "" {
			return false
		}
		c.Idea = &f
	case document.CategoryAdmin:
		var f document.AdminFields
		if json.Unmarshal(data, &f) != nil || strings.TrimSpace(f.Name) == "" {
			return false
		}
		c.Admin = &f
	}
	return true
}

// Fallback is the deterministic classification used whenever the reasoning
// service is unavailable or its output cannot be used: admin, zero
// confidence, with the original thought preserved as a note.
func Fallback(thought string) document.Classification {
	return document.Classification{
		Category:   document.CategoryAdmin,
		Confidence: 0.0,
		Reasoning:  "parse error",
		Admin: &document.AdminFields{
			Name:  "unknown",
			Notes: thought,
		},
	}
}

// Narrate sends promptText to the reasoning service as-is and returns its
// text. A failure comes back as text starting with NarrationErrorPrefix.
func (g *Gateway) Narrate(ctx context.Context, promptText string) string {
	text, err := g.client.Complete(ctx, promptText)
	if err != nil {
		g.logger.Warn("narration call failed", zap.Error(err))
		return NarrationErrorPrefix + " " + err.Error()
	}
	return text
}

// IsNarrationError reports whether narration output is the in-band failure
// signal.
func IsNarrationError(text string) bool {
	return strings.HasPrefix(text, NarrationErrorPrefix)
}
