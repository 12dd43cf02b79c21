package web

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lifequest/internal/config"
	"lifequest/internal/db"
	"lifequest/internal/llm"
	"lifequest/internal/ops"
)

// cannedClient returns a fixed completion.
type cannedClient struct {
	response string
}

func (c *cannedClient) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return c.response, nil
}

func setupTest(t *testing.T, client llm.Client) *Handlers {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}

	return &Handlers{
		db:       database,
		cfg:      config.DefaultConfig(),
		client:   client,
		renderer: NewRenderer(templateSub, "test"),
	}
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHandleDashboard(t *testing.T) {
	h := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	html := body(t, rec)
	if !strings.Contains(html, "Vitality") {
		t.Error("dashboard missing attribute names")
	}
	if !strings.Contains(html, "30") {
		t.Error("dashboard missing token balance")
	}
}

func TestHandleReflectThenDetail(t *testing.T) {
	client := &cannedClient{response: `{"analysis": "**strong** start", "attributeChanges": [{"attribute": "vitality", "change": 2, "reason": "exercise"}]}`}
	h := setupTest(t, client)

	form := url.Values{"text": {"ran at dawn"}}
	req := httptest.NewRequest(http.MethodPost, "/reflect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleReflect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, body(t, rec))
	}
	html := body(t, rec)
	// Markdown rendered, not escaped.
	if !strings.Contains(html, "<strong>strong</strong>") {
		t.Error("analysis markdown not rendered")
	}
	if !strings.Contains(html, "+2") {
		t.Error("attribute change missing from result page")
	}

	// The record is visible in history.
	listOut, err := ops.List(h.db, ops.ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listOut.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(listOut.Records))
	}

	req = httptest.NewRequest(http.MethodGet, "/history/"+listOut.Records[0].ID, nil)
	req.SetPathValue("id", listOut.Records[0].ID)
	rec = httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d, want 200", rec.Code)
	}
	if !strings.Contains(body(t, rec), "ran at dawn") {
		t.Error("detail page missing prompt")
	}
}

func TestHandleReflectNotConfigured(t *testing.T) {
	h := setupTest(t, nil)

	form := url.Values{"text": {"anything"}}
	req := httptest.NewRequest(http.MethodPost, "/reflect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleReflect(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(body(t, rec), "OPENAI_API_KEY") {
		t.Error("error page missing configuration hint")
	}
}

func TestHandleReflectErrorAsJSON(t *testing.T) {
	h := setupTest(t, nil)

	form := url.Values{"text": {"anything"}}
	req := httptest.NewRequest(http.MethodPost, "/reflect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleReflect(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(body(t, rec), "NOT_CONFIGURED") {
		t.Error("JSON error missing code")
	}
}

func TestHandleHistoryEmpty(t *testing.T) {
	h := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(body(t, rec), "No records yet") {
		t.Error("empty state missing")
	}
}

func TestHandleHistoryInvalidType(t *testing.T) {
	h := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/history?type=dreams", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDetailNotFound(t *testing.T) {
	h := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/history/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSetNameRedirects(t *testing.T) {
	h := setupTest(t, nil)

	form := url.Values{"name": {"Wren"}}
	req := httptest.NewRequest(http.MethodPost, "/name", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSetName(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}
}

func TestHandleResetRequiresConfirm(t *testing.T) {
	h := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader("confirm=false"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleReset(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	securityHeaders(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy missing")
	}
}
