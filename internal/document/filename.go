package document

import (
	"regexp"
	"strings"
	"time"
)

// Extension is the file extension for stored captures.
const Extension = ".capture.md"

// fallbackSlug is used when a classification carries no extracted name.
const fallbackSlug = "thought"

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLen bounds the sanitized name portion of a filename.
const maxSlugLen = 40

// Slug lowercases name, collapses every run of non-alphanumeric characters
// into a single hyphen, strips edge hyphens, and truncates to 40 characters.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallbackSlug
	}
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

// FileName derives the stored filename for a capture: slug, date stamp, time
// stamp, extension. Two captures with the same slug in the same second
// collide; the store performs no uniqueness check.
func FileName(name string, created time.Time) string {
	return Slug(name) + "-" + created.Format("20060102") + "-" + created.Format("150405") + Extension
}

// TitleFromFilename recovers a display title from a filename when the
// document metadata carries no name: extension stripped, nothing else.
func TitleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, Extension)
}
