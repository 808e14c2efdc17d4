package ops

import "github.com/hpungsan/fern/internal/document"

// ProjectRef points at an active project in the weekly window.
type ProjectRef struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

// FollowupRef points at a person with an outstanding follow-up.
type FollowupRef struct {
	Title    string `json:"title"`
	FollowUp string `json:"follow_up"`
	Filename string `json:"filename"`
}

// WeeklySummary aggregates the trailing seven days of captures. NeedsReview
// counts the full holding area regardless of the date window.
type WeeklySummary struct {
	TotalCaptures   int            `json:"total_captures"`
	ByCategory      map[string]int `json:"by_category"`
	MeanConfidence  float64        `json:"mean_confidence"`
	ActiveProjects  []ProjectRef   `json:"active_projects"`
	PeopleFollowups []FollowupRef  `json:"people_followups"`
	NeedsReview     int            `json:"needs_review"`
}

// Weekly computes the weekly summary over the trailing 7-day window.
func Weekly(d *Deps) *WeeklySummary {
	out := &WeeklySummary{
		ByCategory:      map[string]int{},
		ActiveProjects:  []ProjectRef{},
		PeopleFollowups: []FollowupRef{},
	}

	var confidenceSum float64
	for _, doc := range FilterByDate(ScanAll(d), 7) {
		out.TotalCaptures++
		out.ByCategory[string(doc.Category)]++
		confidenceSum += doc.Confidence

		switch doc.Category {
		case document.CategoryProjects:
			if doc.MetaString("status") == document.StatusActive {
				out.ActiveProjects = append(out.ActiveProjects, ProjectRef{
					Title:    doc.Title,
					Status:   doc.MetaString("status"),
					Filename: doc.Filename,
				})
			}
		case document.CategoryPeople:
			if doc.HasMeta("follow_up") {
				out.PeopleFollowups = append(out.PeopleFollowups, FollowupRef{
					Title:    doc.Title,
					FollowUp: doc.MetaString("follow_up"),
					Filename: doc.Filename,
				})
			}
		}
	}

	if out.TotalCaptures > 0 {
		out.MeanConfidence = confidenceSum / float64(out.TotalCaptures)
	}

	out.NeedsReview = len(NeedsReview(d))

	return out
}
