package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/r3d91ll/scriptpdf/pkg/backend"
	"github.com/r3d91ll/scriptpdf/pkg/export"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
)

// ReportHandler serves health, statistics and export requests.
type ReportHandler struct {
	exporter *export.Exporter
	maxBody  int64
	version  string
	started  time.Time
}

// NewReportHandler creates a handler around an exporter. maxBody bounds
// uploaded lessons; zero or less means 8 MiB.
func NewReportHandler(exporter *export.Exporter, maxBody int64, version string) *ReportHandler {
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	return &ReportHandler{
		exporter: exporter,
		maxBody:  maxBody,
		version:  version,
		started:  time.Now(),
	}
}

// RegisterRoutes registers the report API routes on the router.
func (h *ReportHandler) RegisterRoutes(router *Router) {
	router.GET("/api/health", h.Health)
	router.GET("/api/backends", h.ListBackends)
	router.GET("/api/projects", h.ListProjects)
	router.POST("/api/stats", h.Stats)
	router.POST("/api/export", h.Export)
	router.POST("/api/projects/:id/export", h.ExportProject)
}

// -----------------------------------------------------------------------------
// API Response Types
// -----------------------------------------------------------------------------

// HealthResponse is the JSON response for GET /api/health.
type HealthResponse struct {
	Status   string   `json:"status"`
	Version  string   `json:"version"`
	Uptime   string   `json:"uptime"`
	Backends []string `json:"backends"`
}

// BackendListResponse is the JSON response for GET /api/backends.
type BackendListResponse struct {
	Backends []backend.Info `json:"backends"`
	Default  string         `json:"default"`
}

// ProjectListResponse is the JSON response for GET /api/projects.
type ProjectListResponse struct {
	Projects []string `json:"projects"`
}

// ExportResponse is the JSON response for export endpoints. Content is
// base64-encoded and omitted when the report was saved to the sink.
type ExportResponse struct {
	ProjectID   string          `json:"projectId"`
	Title       string          `json:"title"`
	Backend     string          `json:"backend"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"contentType"`
	Pages       int             `json:"pages"`
	Stats       stats.Aggregate `json:"stats"`
	Location    string          `json:"location,omitempty"`
	Content     []byte          `json:"content,omitempty"`
}

func newExportResponse(res *export.Result, withContent bool) *ExportResponse {
	resp := &ExportResponse{
		ProjectID:   res.ProjectID,
		Title:       res.Title,
		Backend:     res.Backend,
		Filename:    res.Name,
		ContentType: res.ContentType,
		Pages:       res.Pages,
		Stats:       res.Stats,
		Location:    res.Location,
	}
	if withContent {
		resp.Content = res.Data
	}
	return resp
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// Health handles GET /api/health.
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, &HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Backends: h.exporter.Registry().List(),
	})
}

// ListBackends handles GET /api/backends.
func (h *ReportHandler) ListBackends(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, &BackendListResponse{
		Backends: h.exporter.Registry().Infos(),
		Default:  h.exporter.DefaultBackend(),
	})
}

// ListProjects handles GET /api/projects.
func (h *ReportHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ids, err := h.exporter.ListProjects(r.Context())
	if err != nil {
		WriteReportError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, &ProjectListResponse{Projects: ids})
}

// Stats handles POST /api/stats: a lesson in, its aggregate statistics out.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	l, ok := h.readLesson(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, stats.Compute(&l.Project, l.Slides))
}

// Export handles POST /api/export. The report is rendered in memory and
// returned either as a JSON envelope or, with ?download=1, as the raw file.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	l, ok := h.readLesson(w, r)
	if !ok {
		return
	}

	res, err := h.exporter.Render(r.Context(), l, r.URL.Query().Get("backend"))
	if err != nil {
		WriteReportError(w, err)
		return
	}
	h.exporter.Completed(res)

	if isTrue(r.URL.Query().Get("download")) {
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Name}))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.Header().Set("X-Page-Count", strconv.Itoa(res.Pages))
		w.WriteHeader(http.StatusOK)
		w.Write(res.Data)
		return
	}
	WriteJSON(w, http.StatusOK, newExportResponse(res, true))
}

// ExportProject handles POST /api/projects/:id/export. The lesson comes from
// the configured source and the report goes to the configured sink.
func (h *ReportHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	res, err := h.exporter.ExportProject(r.Context(), id, r.URL.Query().Get("backend"))
	if err != nil {
		WriteReportError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, newExportResponse(res, false))
}

// readLesson decodes the request body as a lesson. JSON is the default;
// application/yaml and application/x-yaml bodies are decoded as YAML.
func (h *ReportHandler) readLesson(w http.ResponseWriter, r *http.Request) (*lesson.Lesson, bool) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	format := lesson.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && strings.HasSuffix(mt, "yaml") {
		format = lesson.FormatYAML
	}

	l, err := lesson.Decode(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request_too_large",
				"Lesson exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return nil, false
		}
		WriteReportError(w, err)
		return nil, false
	}
	return l, true
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
