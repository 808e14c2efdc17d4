// Package mcp exposes the inbox operations as MCP tools over stdio, for use
// by the chat-layer collaborator that turns user messages into captures.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/fern/internal/digest"
	"github.com/hpungsan/fern/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"thought_capture": {
		def:     captureToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCapture },
	},
	"inbox_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"inbox_review": {
		def:     reviewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReview },
	},
	"inbox_actions": {
		def:     actionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActions },
	},
	"digest_daily": {
		def:     dailyDigestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDailyDigest },
	},
	"digest_weekly": {
		def:     weeklyDigestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWeeklyDigest },
	},
	"thought_fix": {
		def:     fixToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFix },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the Fern tools registered. Tools
// listed in the config's DisabledTools are excluded from registration.
func NewServer(deps *ops.Deps, gen *digest.Generator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"fern",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps, gen)

	disabled := make(map[string]bool)
	for _, name := range deps.Config.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps *ops.Deps, gen *digest.Generator, version string) error {
	return server.ServeStdio(NewServer(deps, gen, version))
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
