package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/r3d91ll/scriptpdf/pkg/backend"
	"github.com/r3d91ll/scriptpdf/pkg/config"
	"github.com/r3d91ll/scriptpdf/pkg/export"
	"github.com/r3d91ll/scriptpdf/pkg/storage"
)

const sampleLesson = `{
	"project": {"id": "p1", "title": "Waves", "speakers": {"A": {"name": "Alice"}}},
	"slides": [
		{"speaker": "A", "title": "Intro", "content": "Hello", "visualDuration": 6},
		{"speaker": "A", "title": "Body", "narration": "More", "visual": {"type": "plot", "params": [1]}}
	]
}`

type eventLog struct {
	mu     sync.Mutex
	events []export.Event
}

func (l *eventLog) add(ev export.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) last() export.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return export.Event{}
	}
	return l.events[len(l.events)-1]
}

type testEnv struct {
	router  *Router
	events  *eventLog
	outDir  string
	lessons string
}

func newTestEnv(t *testing.T, maxBody int64) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Export.Backend = "text"

	env := &testEnv{
		router:  NewRouter(),
		events:  &eventLog{},
		outDir:  t.TempDir(),
		lessons: t.TempDir(),
	}
	exporter := export.New(cfg, nil,
		export.WithSource(storage.NewFileSource(env.lessons)),
		export.WithSink(storage.NewLocalSink(env.outDir)),
		export.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
		export.WithObserver(env.events.add),
	)
	NewReportHandler(exporter, maxBody, "test").RegisterRoutes(env.router)
	return env
}

func (env *testEnv) do(method, path, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %+v", resp.Error)
	}
	if err := json.Unmarshal(resp.Data, target); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Success || resp.Error == nil {
		t.Fatalf("Expected error response, got %s", rec.Body.String())
	}
	return resp.Error
}

func TestReportHandler_Health(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var health HealthResponse
	decodeData(t, rec, &health)
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("Unexpected health %+v", health)
	}
	if strings.Join(health.Backends, ",") != "pdf,text" {
		t.Errorf("Expected pdf,text backends, got %v", health.Backends)
	}
}

func TestReportHandler_ListBackends(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(http.MethodGet, "/api/backends", "", "")

	var list BackendListResponse
	decodeData(t, rec, &list)
	if list.Default != "text" {
		t.Errorf("Expected default text, got %q", list.Default)
	}
	if len(list.Backends) != 2 || list.Backends[0].ContentType != backend.PDFInfo.ContentType {
		t.Errorf("Unexpected backends %+v", list.Backends)
	}
}

func TestReportHandler_Stats(t *testing.T) {
	env := newTestEnv(t, 0)

	t.Run("computes aggregate", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/stats", sampleLesson, "application/json")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var agg struct {
			SlideCount    int     `json:"slideCount"`
			TotalDuration float64 `json:"totalDuration"`
		}
		decodeData(t, rec, &agg)
		if agg.SlideCount != 2 || agg.TotalDuration != 10 {
			t.Errorf("Unexpected aggregate %+v", agg)
		}
	})

	t.Run("accepts yaml", func(t *testing.T) {
		body := "project: {id: y}\nslides:\n  - title: One\n"
		rec := env.do(http.MethodPost, "/api/stats", body, "application/yaml")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/stats", "{nope", "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
		if code := decodeError(t, rec).Code; code != "LESSON_PARSE_FAILED" {
			t.Errorf("Expected LESSON_PARSE_FAILED, got %s", code)
		}
	})
}

func TestReportHandler_ExportJSON(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(http.MethodPost, "/api/export", sampleLesson, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ExportResponse
	decodeData(t, rec, &resp)
	if resp.Pages != 4 || resp.Backend != "text" || resp.Filename != "p1.txt" {
		t.Errorf("Unexpected response %+v", resp)
	}
	if !bytes.Contains(resp.Content, []byte("Slide 2")) {
		t.Error("Expected decoded content to contain the second slide")
	}
	if resp.Location != "" {
		t.Error("Expected in-memory export to have no location")
	}
	if ev := env.events.last(); ev.Type != export.EventCompleted || ev.Pages != 4 {
		t.Errorf("Expected completed event, got %+v", ev)
	}
}

func TestReportHandler_ExportWithoutProjectID(t *testing.T) {
	env := newTestEnv(t, 0)
	body := `{"project": {"title": "Sound"}, "slides": [{"title": "Pitch"}]}`

	var first []byte
	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/export", body, "application/json")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp ExportResponse
		decodeData(t, rec, &resp)
		if resp.Filename != "report.txt" || resp.ProjectID != "" {
			t.Errorf("Unexpected response %+v", resp)
		}
		if !bytes.Contains(resp.Content, []byte("Project ID: N/A")) {
			t.Error("Expected N/A project ID placeholder")
		}
		if i == 0 {
			first = resp.Content
		} else if !bytes.Equal(first, resp.Content) {
			t.Error("Expected identical reports for identical requests")
		}
	}
}

func TestReportHandler_ExportDownload(t *testing.T) {
	env := newTestEnv(t, 0)
	rec := env.do(http.MethodPost, "/api/export?backend=pdf&download=1", sampleLesson, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=p1.pdf" {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	if rec.Header().Get("X-Page-Count") != "4" {
		t.Errorf("Expected 4 pages, got %s", rec.Header().Get("X-Page-Count"))
	}
	if n, err := backend.VerifyPDF(rec.Body.Bytes(), 4); err != nil || n != 4 {
		t.Errorf("Expected a valid 4 page PDF, got %d %v", n, err)
	}
}

func TestReportHandler_ExportErrors(t *testing.T) {
	env := newTestEnv(t, 64)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown backend", "/api/export?backend=docx", `{"slides":[]}`, http.StatusBadRequest, "BACKEND_NOT_FOUND"},
		{"empty body", "/api/export", "", http.StatusBadRequest, "LESSON_PARSE_FAILED"},
		{"too large", "/api/export", `{"project":{"title":"` + strings.Repeat("x", 200) + `"}}`, http.StatusRequestEntityTooLarge, "request_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, tt.path, tt.body, "application/json")
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if code := decodeError(t, rec).Code; code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, code)
			}
		})
	}
}

func TestReportHandler_ExportProject(t *testing.T) {
	env := newTestEnv(t, 0)
	if err := os.WriteFile(filepath.Join(env.lessons, "p1.json"), []byte(sampleLesson), 0644); err != nil {
		t.Fatal(err)
	}

	rec := env.do(http.MethodPost, "/api/projects/p1/export", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ExportResponse
	decodeData(t, rec, &resp)
	if resp.Location != filepath.Join(env.outDir, "p1.txt") || resp.Content != nil {
		t.Errorf("Unexpected response %+v", resp)
	}
	if _, err := os.Stat(resp.Location); err != nil {
		t.Errorf("Expected report on disk: %v", err)
	}

	rec = env.do(http.MethodPost, "/api/projects/missing/export", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if ev := env.events.last(); ev.Type != export.EventFailed || ev.ProjectID != "missing" {
		t.Errorf("Expected failed event, got %+v", ev)
	}

	rec = env.do(http.MethodGet, "/api/projects", "", "")
	var list ProjectListResponse
	decodeData(t, rec, &list)
	if strings.Join(list.Projects, ",") != "p1" {
		t.Errorf("Expected [p1], got %v", list.Projects)
	}
}
