package digest

// Template filenames looked up in the template directory. When neither the
// configured directory nor <DataDir>/templates has the file, the built-in
// string below is used.
const (
	dailyTemplateFile  = "daily_digest.txt"
	weeklyTemplateFile = "weekly_review.txt"
)

// Placeholders substituted into the templates: {{date}}, {{limit}},
// {{actions}}, {{summary}}.
const builtinDailyTemplate = `Write a short, friendly morning digest for {{date}}. Highlight the top {{limit}} actions below, in order. Keep it under 120 words and do not invent items.

Actions:
{{actions}}`

const builtinWeeklyTemplate = `Write a concise weekly review for the week ending {{date}}. Summarize the capture activity below, call out active projects and outstanding follow-ups, and close with one encouraging line. Keep it under 200 words and do not invent items.

{{summary}}`
