package brain

import (
	"regexp"
	"strings"
)

// fencedJSONPattern matches a fenced code block, optionally tagged json,
// capturing its contents.
var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

// extractJSON pulls a JSON object out of a model response that may wrap it in
// a fenced code block or interleave it with prose. Resolution order: first
// fenced block, then first balanced {...} span, then the whole response.
func extractJSON(response string) string {
	if m := fencedJSONPattern.FindStringSubmatch(response); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" {
			return candidate
		}
	}

	if span := balancedObject(response); span != "" {
		return span
	}

	return strings.TrimSpace(response)
}

// balancedObject returns the first balanced top-level {...} span in text,
// tracking string literals so braces inside them don't count.
func balancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
