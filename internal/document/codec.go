package document

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Metadata is the flat key/value block prepended to a document body.
// Values are strings, bools, float64 numbers, or ordered string lists.
type Metadata map[string]any

const delimiter = "---"

// numberPattern matches strict integers and decimals. Anything looser
// (leading +, exponents, bare ".5") stays a literal string.
var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// listItemPattern matches one indented dash-prefixed list item line.
var listItemPattern = regexp.MustCompile(`^\s+-\s*(.*)$`)

// Decode splits text into a metadata block and a body.
//
// Input that does not open with a delimiter line returns empty metadata and
// the text unchanged. Otherwise the block between the first and second
// delimiter lines is parsed line-wise: `key: value` scalars (first colon is
// the separator, so colon-bearing values survive intact), with a blank-valued
// key followed by indented `- item` lines parsed as a string list. The body
// is the remaining text, trimmed of surrounding whitespace.
func Decode(text string) (Metadata, string) {
	if !strings.HasPrefix(text, delimiter+"\n") && text != delimiter {
		return Metadata{}, text
	}

	lines := strings.Split(text, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return Metadata{}, text
	}

	meta := Metadata{}
	block := lines[1:end]
	for i := 0; i < len(block); i++ {
		line := block[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}

		if value == "" {
			// A blank value followed by indented dash lines is a list.
			var items []string
			j := i + 1
			for j < len(block) {
				m := listItemPattern.FindStringSubmatch(block[j])
				if m == nil {
					break
				}
				items = append(items, strings.TrimSpace(m[1]))
				j++
			}
			if len(items) > 0 {
				meta[key] = items
				i = j - 1
				continue
			}
		}

		meta[key] = coerceScalar(value)
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")
	return meta, strings.TrimSpace(body)
}

// Encode is the inverse of Decode for scalar and string-list metadata.
// Unknown or nil values encode as empty strings. Empty metadata still
// produces a well-formed two-delimiter block.
func Encode(meta Metadata, body string) string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")

	for _, key := range orderedKeys(meta) {
		switch v := meta[key].(type) {
		case []string:
			b.WriteString(key + ":\n")
			for _, item := range v {
				b.WriteString("  - " + item + "\n")
			}
		default:
			b.WriteString(key + ": " + encodeScalar(v) + "\n")
		}
	}

	b.WriteString(delimiter + "\n")

	body = strings.TrimSpace(body)
	if body != "" {
		b.WriteString("\n" + body + "\n")
	}
	return b.String()
}

// coerceScalar maps a raw value string onto its typed form: empty string,
// boolean, number, or literal string.
func coerceScalar(value string) any {
	switch value {
	case "":
		return ""
	case "true":
		return true
	case "false":
		return false
	}
	if numberPattern.MatchString(value) {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}

// encodeScalar renders a typed value back to its frontmatter form.
func encodeScalar(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// keyOrder pins the document-format keys to their conventional positions:
// category opens the block, confidence and created close it. Everything else
// sorts alphabetically in between so Encode stays deterministic.
var keyOrder = map[string]int{
	"category":   -1,
	"confidence": 1,
	"created":    2,
}

func orderedKeys(meta Metadata) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := keyOrder[keys[i]], keyOrder[keys[j]]
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
