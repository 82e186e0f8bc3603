// Package export runs the report pipeline: load a lesson, lay it out, render
// it through a backend, verify the output and hand it to a sink.
package export

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/r3d91ll/scriptpdf/pkg/backend"
	"github.com/r3d91ll/scriptpdf/pkg/config"
	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/report"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
	"github.com/r3d91ll/scriptpdf/pkg/storage"
)

// Event types emitted while exporting.
const (
	EventStarted   = "export_started"
	EventCompleted = "export_completed"
	EventFailed    = "export_failed"
)

// Event describes a pipeline state change.
type Event struct {
	Type      string    `json:"type"`
	ProjectID string    `json:"projectId"`
	Backend   string    `json:"backend"`
	Pages     int       `json:"pages,omitempty"`
	Location  string    `json:"location,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is one rendered report.
type Result struct {
	ProjectID   string          `json:"projectId"`
	Title       string          `json:"title"`
	Backend     string          `json:"backend"`
	Name        string          `json:"name"`
	ContentType string          `json:"contentType"`
	Pages       int             `json:"pages"`
	Stats       stats.Aggregate `json:"stats"`
	Location    string          `json:"location,omitempty"`
	Elapsed     time.Duration   `json:"elapsed"`
	Data        []byte          `json:"-"`
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSource sets the lesson source used by ExportProject.
func WithSource(s storage.Source) Option {
	return func(e *Exporter) { e.source = s }
}

// WithSink sets where reports are saved.
func WithSink(s storage.Sink) Option {
	return func(e *Exporter) { e.sink = s }
}

// WithClock sets the time source for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithObserver registers a callback for pipeline events.
func WithObserver(fn func(Event)) Option {
	return func(e *Exporter) { e.observers = append(e.observers, fn) }
}

// Exporter renders lessons according to the layout and export configuration.
// It is safe for concurrent use.
type Exporter struct {
	layout    config.LayoutConfig
	export    config.ExportConfig
	registry  *backend.Registry
	source    storage.Source
	sink      storage.Sink
	now       func() time.Time
	observers []func(Event)
	log       *logrus.Entry
}

// New creates an Exporter. A nil registry uses the default pdf and text
// backends configured from cfg.
func New(cfg *config.Config, registry *backend.Registry, opts ...Option) *Exporter {
	if registry == nil {
		registry = backend.Default(PDFOptions(cfg.Export))
	}
	e := &Exporter{
		layout:   cfg.Layout,
		export:   cfg.Export,
		registry: registry,
		now:      time.Now,
		log:      logrus.WithField("component", "export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PDFOptions maps export settings onto the PDF backend.
func PDFOptions(cfg config.ExportConfig) backend.PDFOptions {
	return backend.PDFOptions{
		FontFamily: cfg.FontFamily,
		Author:     cfg.Author,
		Creator:    cfg.ToolName,
		Compress:   cfg.Compress,
	}
}

// Registry returns the backend registry.
func (e *Exporter) Registry() *backend.Registry { return e.registry }

// DefaultBackend is the backend used when a request names none.
func (e *Exporter) DefaultBackend() string { return e.export.Backend }

// Builder returns a report builder for the named backend ("" selects the
// configured default).
func (e *Exporter) Builder(backendName string) (*report.Builder, backend.Info, error) {
	if backendName == "" {
		backendName = e.export.Backend
	}
	factory, info, err := e.registry.Lookup(backendName)
	if err != nil {
		return nil, backend.Info{}, err
	}
	b, err := report.NewBuilder(
		report.WithGeometry(e.layout.Geometry()),
		report.WithBackend(factory),
		report.WithMaxSlides(e.layout.MaxSlides),
		report.WithContinuationPages(e.layout.ContinuationPages),
		report.WithToolName(e.export.ToolName),
		report.WithClock(e.now),
	)
	if err != nil {
		return nil, backend.Info{}, err
	}
	return b, info, nil
}

// Render lays out and serializes a lesson without saving it.
func (e *Exporter) Render(ctx context.Context, l *lesson.Lesson, backendName string) (*Result, error) {
	start := time.Now()
	b, info, err := e.Builder(backendName)
	if err != nil {
		return nil, err
	}
	entry := e.log.WithField("project", l.Project.ID).WithField("backend", info.Name)
	e.emit(Event{Type: EventStarted, ProjectID: l.Project.ID, Backend: info.Name})

	res, err := e.render(b, info, l)
	if err != nil {
		entry.WithError(err).Warn("export failed")
		e.emit(Event{Type: EventFailed, ProjectID: l.Project.ID, Backend: info.Name, Error: err.Error()})
		return nil, err
	}
	res.Elapsed = time.Since(start)

	entry.WithField("pages", res.Pages).WithField("bytes", len(res.Data)).Debug("report rendered")
	return res, nil
}

func (e *Exporter) render(b *report.Builder, info backend.Info, l *lesson.Lesson) (*Result, error) {
	doc, err := b.Build(&l.Project, l.Slides)
	if err != nil {
		return nil, err
	}
	data, err := b.Export(doc)
	if err != nil {
		return nil, err
	}
	if e.export.Verify && info.Name == backend.PDFInfo.Name {
		if _, err := backend.VerifyPDF(data, doc.PageCount()); err != nil {
			return nil, err
		}
	}
	return &Result{
		ProjectID:   l.Project.ID,
		Title:       doc.Title,
		Backend:     info.Name,
		Name:        ReportName(l.Project.ID, info.Extension),
		ContentType: info.ContentType,
		Pages:       doc.PageCount(),
		Stats:       stats.Compute(&l.Project, l.Slides),
		Data:        data,
	}, nil
}

// Save writes a rendered report to the sink and records its location.
func (e *Exporter) Save(ctx context.Context, res *Result) error {
	if e.sink == nil {
		return rerrors.New(rerrors.ErrSaveFailed, rerrors.CategoryIO, "no report sink configured")
	}
	loc, err := e.sink.Save(ctx, res.Name, res.Data)
	if err != nil {
		e.emit(Event{Type: EventFailed, ProjectID: res.ProjectID, Backend: res.Backend, Error: err.Error()})
		return err
	}
	res.Location = loc
	e.emit(Event{Type: EventCompleted, ProjectID: res.ProjectID, Backend: res.Backend, Pages: res.Pages, Location: loc})
	return nil
}

// Export renders a lesson and saves it.
func (e *Exporter) Export(ctx context.Context, l *lesson.Lesson, backendName string) (*Result, error) {
	res, err := e.Render(ctx, l, backendName)
	if err != nil {
		return nil, err
	}
	if err := e.Save(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ExportProject loads a lesson from the source, renders and saves it.
func (e *Exporter) ExportProject(ctx context.Context, id, backendName string) (*Result, error) {
	l, err := e.LoadProject(ctx, id)
	if err != nil {
		e.emit(Event{Type: EventFailed, ProjectID: id, Backend: backendName, Error: err.Error()})
		return nil, err
	}
	return e.Export(ctx, l, backendName)
}

// LoadProject reads a lesson from the source.
func (e *Exporter) LoadProject(ctx context.Context, id string) (*lesson.Lesson, error) {
	if e.source == nil {
		return nil, rerrors.New(rerrors.ErrSourceUnavailable, rerrors.CategoryInput, "no lesson source configured")
	}
	return e.source.Load(ctx, id)
}

// ListProjects returns the project IDs available from the source.
func (e *Exporter) ListProjects(ctx context.Context) ([]string, error) {
	if e.source == nil {
		return nil, rerrors.New(rerrors.ErrSourceUnavailable, rerrors.CategoryInput, "no lesson source configured")
	}
	return e.source.List(ctx)
}

// ExportFile loads a lesson file, renders and saves it. A lesson without a
// project ID is named after its file.
func (e *Exporter) ExportFile(ctx context.Context, path, backendName string) (*Result, error) {
	l, err := lesson.LoadFile(path)
	if err != nil {
		return nil, err
	}
	l.Project.DefaultID(lesson.FileID(path))
	return e.Export(ctx, l, backendName)
}

// Completed emits the completion event for a result that was delivered
// without a sink, e.g. streamed back to an HTTP client.
func (e *Exporter) Completed(res *Result) {
	e.emit(Event{Type: EventCompleted, ProjectID: res.ProjectID, Backend: res.Backend, Pages: res.Pages, Location: res.Location})
}

func (e *Exporter) emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.now()
	}
	for _, fn := range e.observers {
		fn(ev)
	}
}

// ReportName is the file name a project's report is saved under.
func ReportName(projectID, ext string) string {
	if projectID == "" {
		projectID = "report"
	}
	return projectID + ext
}
