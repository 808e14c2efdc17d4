package ops

import "time"

// StatsOutput contains derived capture statistics. Nothing here is cached;
// every call recomputes from the knowledge store.
type StatsOutput struct {
	Total          int            `json:"total"`
	Last7Days      int            `json:"last_7_days"`
	Today          int            `json:"today"`
	ByCategory     map[string]int `json:"by_category"`
	MeanConfidence float64        `json:"mean_confidence"`
	NeedsReview    int            `json:"needs_review"`
	Actionable     int            `json:"actionable"`
}

// Stats computes aggregate statistics in a single pass over the full scan.
// The needs-review count comes from its own scan of the holding area, not
// from the category counts.
func Stats(d *Deps) *StatsOutput {
	out := &StatsOutput{ByCategory: map[string]int{}}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)

	var confidenceSum float64
	for _, doc := range ScanAll(d) {
		out.Total++
		out.ByCategory[string(doc.Category)]++
		confidenceSum += doc.Confidence

		if !doc.Created.Before(dayStart) {
			out.Today++
		}
		if doc.Created.After(weekStart) {
			out.Last7Days++
		}
	}

	if out.Total > 0 {
		out.MeanConfidence = confidenceSum / float64(out.Total)
	}

	out.NeedsReview = len(NeedsReview(d))
	out.Actionable = len(ActionableItems(d))

	return out
}
