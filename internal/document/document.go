// Package document defines the stored-document model for the Fern knowledge
// store: the category taxonomy, the classification produced by the reasoning
// service, and the frontmatter codec used to persist documents as markdown.
package document

import (
	"strings"
	"time"
)

// Category is one of the four fixed classification buckets.
type Category string

const (
	CategoryPeople   Category = "people"
	CategoryProjects Category = "projects"
	CategoryIdeas    Category = "ideas"
	CategoryAdmin    Category = "admin"
)

// Categories lists all valid categories in storage order.
var Categories = []Category{CategoryPeople, CategoryProjects, CategoryIdeas, CategoryAdmin}

// ParseCategory normalizes and validates a category string.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Categories {
		if c == valid {
			return c, true
		}
	}
	return "", false
}

// Dir returns the storage subdirectory for the category.
func (c Category) Dir() string {
	switch c {
	case CategoryPeople:
		return "People"
	case CategoryProjects:
		return "Projects"
	case CategoryIdeas:
		return "Ideas"
	case CategoryAdmin:
		return "Admin"
	}
	return ""
}

// CategoryNames returns the valid category values as strings, for error
// messages listing the closed set.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// Project statuses form a fixed set; "active" and "todo" mark a project
// actionable.
const (
	StatusActive  = "active"
	StatusTodo    = "todo"
	StatusWaiting = "waiting"
	StatusDone    = "done"
)

// PeopleFields holds the fields extracted for a people classification.
type PeopleFields struct {
	Name     string `json:"name"`
	Context  string `json:"context,omitempty"`
	FollowUp string `json:"follow_ups,omitempty"`
}

// ProjectFields holds the fields extracted for a projects classification.
type ProjectFields struct {
	Name       string `json:"name"`
	Status     string `json:"status,omitempty"`
	NextAction string `json:"next_action,omitempty"`
}

// IdeaFields holds the fields extracted for an ideas classification.
type IdeaFields struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
}

// AdminFields holds the fields extracted for an admin classification.
type AdminFields struct {
	Name  string `json:"name"`
	Due   string `json:"due_date,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Classification is the outcome of classifying one thought. Exactly one of
// the category-specific field structs is populated, matching Category.
type Classification struct {
	Category   Category
	Confidence float64
	Reasoning  string

	People  *PeopleFields
	Project *ProjectFields
	Idea    *IdeaFields
	Admin   *AdminFields
}

// Name returns the extracted name for whichever variant is populated,
// or empty when none is.
func (c Classification) Name() string {
	switch {
	case c.People != nil:
		return c.People.Name
	case c.Project != nil:
		return c.Project.Name
	case c.Idea != nil:
		return c.Idea.Name
	case c.Admin != nil:
		return c.Admin.Name
	}
	return ""
}

// Document is a stored capture read back from the knowledge store.
type Document struct {
	Filename    string
	Path        string
	Category    Category
	Title       string
	Body        string
	Meta        Metadata
	Created     time.Time
	Confidence  float64
	NeedsReview bool
	ModTime     time.Time
}

// MetaString returns the named metadata value as a string, or empty when the
// key is absent or not a string.
func (d *Document) MetaString(key string) string {
	if d.Meta == nil {
		return ""
	}
	if s, ok := d.Meta[key].(string); ok {
		return s
	}
	return ""
}

// HasMeta reports whether the named metadata key is present with a non-empty
// string value.
func (d *Document) HasMeta(key string) bool {
	return strings.TrimSpace(d.MetaString(key)) != ""
}
