package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"lifequest/internal/config"
	"lifequest/internal/errors"
	"lifequest/internal/llm"
	"lifequest/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	client   llm.Client // nil when no API key is configured
	renderer *Renderer
}

// HandleDashboard handles GET /dashboard — the character sheet.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Profile(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Dashboard",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Profile: result,
	})
}

// HandleReflect handles POST /reflect — submit a journal entry.
func (h *Handlers) HandleReflect(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		h.renderer.renderError(w, r, errors.NewNotConfigured())
		return
	}

	result, err := ops.Reflect(r.Context(), h.db, h.cfg, h.client, ops.ReflectInput{
		Text: r.FormValue("text"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "result", ResultPageData{
		PageData: PageData{
			Title:   "Reflection",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Result:       result,
		AnalysisHTML: renderMarkdown(result.Analysis),
	})
}

// HandleAnalyze handles POST /analyze — run a character analysis.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		h.renderer.renderError(w, r, errors.NewNotConfigured())
		return
	}

	result, err := ops.Analyze(r.Context(), h.db, h.cfg, h.client)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "analysis", AnalysisPageData{
		PageData: PageData{
			Title:   "Character Analysis",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Analysis: result.Analysis,
		Tokens:   result.Tokens,
	})
}

// HandleHistory handles GET /history — paginated record list.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	typeFilter := r.URL.Query().Get("type")

	result, err := ops.List(h.db, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
		Type:   typeFilter,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData: PageData{
			Title:   "History",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Records:    result.Records,
		Pagination: result.Pagination,
		Type:       typeFilter,
	})
}

// HandleDetail handles GET /history/{id} — one record with full analysis.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	record, err := ops.Show(h.db, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   "Record",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Record:       record,
		AnalysisHTML: renderMarkdown(record.Analysis),
	})
}

// HandleSetName handles POST /name — rename the character.
func (h *Handlers) HandleSetName(w http.ResponseWriter, r *http.Request) {
	_, err := ops.SetName(h.db, ops.SetNameInput{Name: r.FormValue("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleReset handles POST /reset — wipe profile and history.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm must be true to reset"))
		return
	}

	if _, err := ops.Reset(h.db); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default.
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
