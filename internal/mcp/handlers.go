package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/fern/internal/digest"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/errors"
	"github.com/hpungsan/fern/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
	gen  *digest.Generator
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps, gen *digest.Generator) *Handlers {
	return &Handlers{deps: deps, gen: gen}
}

// decode maps the loosely-typed MCP argument bag onto a request struct by
// round-tripping it through JSON, so missing and mistyped fields surface as
// one decode error instead of scattered type assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("marshal arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode arguments: %w", err)
	}
	return out, nil
}

// Request types for each tool

// CaptureRequest represents the arguments for thought_capture.
type CaptureRequest struct {
	Thought string `json:"thought"`
	UserID  string `json:"user_id,omitempty"`
}

// ActionsRequest represents the arguments for inbox_actions.
type ActionsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// FixRequest represents the arguments for thought_fix.
type FixRequest struct {
	Category string `json:"category"`
	Filename string `json:"filename,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// documentSummary is the wire shape for a stored document.
type documentSummary struct {
	Filename    string  `json:"filename"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Confidence  float64 `json:"confidence"`
	Created     string  `json:"created"`
	NeedsReview bool    `json:"needs_review"`
}

func summarize(docs []document.Document) []documentSummary {
	out := make([]documentSummary, len(docs))
	for i, doc := range docs {
		out[i] = documentSummary{
			Filename:    doc.Filename,
			Category:    string(doc.Category),
			Title:       doc.Title,
			Confidence:  doc.Confidence,
			Created:     doc.Created.Format(time.RFC3339),
			NeedsReview: doc.NeedsReview,
		}
	}
	return out
}

// Handler implementations

// HandleCapture handles the thought_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Capture(ctx, h.deps, ops.CaptureInput{
		Thought: input.Thought,
		UserID:  input.UserID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the inbox_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Stats(h.deps))
}

// HandleReview handles the inbox_review tool call.
func (h *Handlers) HandleReview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{
		"items": summarize(ops.NeedsReview(h.deps)),
	})
}

// HandleActions handles the inbox_actions tool call.
func (h *Handlers) HandleActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ActionsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return successResult(map[string]any{
		"actions": summarize(ops.DailyActions(h.deps, input.Limit)),
	})
}

// HandleDailyDigest handles the digest_daily tool call.
func (h *Handlers) HandleDailyDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{
		"digest": h.gen.Daily(ctx),
	})
}

// HandleWeeklyDigest handles the digest_weekly tool call.
func (h *Handlers) HandleWeeklyDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{
		"review": h.gen.Weekly(ctx),
	})
}

// HandleFix handles the thought_fix tool call.
func (h *Handlers) HandleFix(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FixRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fix(h.deps, ops.FixInput{
		NewCategory: input.Category,
		Filename:    input.Filename,
		UserID:      input.UserID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if fernErr, ok := err.(*errors.FernError); ok {
		errorObj := map[string]any{
			"code":    fernErr.Code,
			"message": fernErr.Message,
			"status":  fernErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths
		if fernErr.Code != errors.ErrInternal && fernErr.Details != nil {
			errorObj["details"] = fernErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
