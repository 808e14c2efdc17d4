package mcp

import "github.com/mark3labs/mcp-go/mcp"

var captureToolDef = mcp.NewTool("thought_capture",
	mcp.WithDescription("Capture a free-text thought: classify it, store it in the inbox, and report where it landed."),
	mcp.WithString("thought",
		mcp.Required(),
		mcp.Description("The raw thought text to capture."),
	),
	mcp.WithString("user_id",
		mcp.Description("Identifier of the capturing user, recorded in the audit log."),
	),
)

var statsToolDef = mcp.NewTool("inbox_stats",
	mcp.WithDescription("Compute inbox statistics: totals, per-category counts, mean confidence, review and actionable counts."),
)

var reviewToolDef = mcp.NewTool("inbox_review",
	mcp.WithDescription("List captures waiting in the needs-review holding area."),
)

var actionsToolDef = mcp.NewTool("inbox_actions",
	mcp.WithDescription("Return the top prioritized actionable items."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of actions to return; defaults to the configured digest limit."),
	),
)

var dailyDigestToolDef = mcp.NewTool("digest_daily",
	mcp.WithDescription("Generate the daily digest narrative on demand."),
)

var weeklyDigestToolDef = mcp.NewTool("digest_weekly",
	mcp.WithDescription("Generate the weekly review narrative on demand."),
)

var fixToolDef = mcp.NewTool("thought_fix",
	mcp.WithDescription("Move a stored capture to a different category. Without a filename, fixes the user's most recent capture."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Target category: people, projects, ideas, or admin."),
	),
	mcp.WithString("filename",
		mcp.Description("Document filename to fix; resolved from the audit log when omitted."),
	),
	mcp.WithString("user_id",
		mcp.Description("Identifier used to resolve the most recent capture."),
	),
)
