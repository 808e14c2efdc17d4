package ops

import (
	"regexp"
	"sort"
	"time"

	"github.com/hpungsan/fern/internal/document"
)

// Priority weights. Due dates dominate, recency beats status, urgency
// wording adds on top.
const (
	scoreDueDate   = 100
	scoreToday     = 50
	scoreYesterday = 30
	scoreActive    = 20
	scoreUrgency   = 40
)

// urgencyPattern is the scoring-time urgency match, a superset of the
// scanner's actionability keyword set.
var urgencyPattern = regexp.MustCompile(`(?i)urgent|asap|deadline|overdue|immediately|time.sensitive`)

// PrioritizeActions sorts items by descending priority score. The sort is
// stable: ties keep encounter order, so the first-scanned item wins.
func PrioritizeActions(items []document.Document) []document.Document {
	if len(items) == 0 {
		return items
	}

	now := time.Now()
	scored := make([]document.Document, len(items))
	copy(scored, items)

	scores := make(map[string]int, len(scored))
	for _, doc := range scored {
		scores[doc.Path] = scoreItem(doc, now)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scores[scored[i].Path] > scores[scored[j].Path]
	})
	return scored
}

func scoreItem(doc document.Document, now time.Time) int {
	score := 0

	if doc.HasMeta("due") {
		score += scoreDueDate
	}

	switch {
	case sameDay(doc.Created, now):
		score += scoreToday
	case sameDay(doc.Created, now.AddDate(0, 0, -1)):
		score += scoreYesterday
	}

	if doc.MetaString("status") == document.StatusActive {
		score += scoreActive
	}

	if urgencyPattern.MatchString(doc.Body) {
		score += scoreUrgency
	}

	return score
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DailyActions returns the top actionable items, prioritized and truncated
// to limit (default 3). An empty actionable set short-circuits without
// invoking prioritization.
func DailyActions(d *Deps, limit int) []document.Document {
	if limit <= 0 {
		limit = d.Config.DigestActionLimit
	}
	if limit <= 0 {
		limit = 3
	}

	items := ActionableItems(d)
	if len(items) == 0 {
		return nil
	}

	ranked := PrioritizeActions(items)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
