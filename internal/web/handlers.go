package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/fern/internal/digest"
	"github.com/hpungsan/fern/internal/errors"
	"github.com/hpungsan/fern/internal/ops"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	deps     *ops.Deps
	gen      *digest.Generator
	renderer *Renderer
}

// HandleDashboard handles GET /dashboard — inbox stats and top actions.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats := ops.Stats(h.deps)
	actions := ops.DailyActions(h.deps, parseIntParam(r, "limit", 5))

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"stats":   stats,
			"actions": len(actions),
		})
		return
	}

	h.renderer.renderPage(w, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Inbox",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Stats:   stats,
		Actions: actions,
	})
}

// HandleReview handles GET /review — the needs-review queue.
func (h *Handlers) HandleReview(w http.ResponseWriter, r *http.Request) {
	items := ops.NeedsReview(h.deps)

	h.renderer.renderPage(w, "review", ReviewPageData{
		PageData: PageData{
			Title:   "Needs Review",
			Version: h.renderer.version,
			Nav:     "review",
		},
		Items: items,
	})
}

// HandleDigest handles GET /digest/{kind} — an on-demand daily or weekly
// digest rendered from markdown.
func (h *Handlers) HandleDigest(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	var text string
	switch kind {
	case "daily":
		text = h.gen.Daily(r.Context())
	case "weekly":
		text = h.gen.Weekly(r.Context())
	default:
		h.renderer.renderError(w, r, errors.NewInvalidRequest("digest kind must be daily or weekly"))
		return
	}

	h.renderer.renderPage(w, "digest", DigestPageData{
		PageData: PageData{
			Title:   titleCase(kind) + " Digest",
			Version: h.renderer.version,
			Nav:     "digest",
		},
		Kind:         kind,
		RenderedHTML: renderMarkdown(text),
	})
}

// HandleDocument handles GET /documents/{filename} — a single stored capture
// with its body rendered from markdown.
func (h *Handlers) HandleDocument(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("document filename is required"))
		return
	}

	for _, doc := range ops.ScanAll(h.deps) {
		if doc.Filename == filename {
			h.renderer.renderPage(w, "document", DocumentPageData{
				PageData: PageData{
					Title:   doc.Title,
					Version: h.renderer.version,
					Nav:     "dashboard",
				},
				Doc:          doc,
				RenderedHTML: renderMarkdown(doc.Body),
			})
			return
		}
	}

	h.renderer.renderError(w, r, errors.NewNotFound(filename))
}

// HandleStatsJSON handles GET /api/stats — machine-readable statistics.
func (h *Handlers) HandleStatsJSON(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Stats(h.deps))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
