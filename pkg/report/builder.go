// Package report lays out a lesson as a paginated script report: a title page,
// one page per slide and a statistics summary page.
package report

import (
	"errors"
	"time"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/layout"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

// DefaultToolName appears in the summary footer.
const DefaultToolName = "scriptpdf"

// Option configures a Builder.
type Option func(*Builder)

// WithGeometry sets the page geometry. Default: A4 with 20mm margins.
func WithGeometry(g layout.Geometry) Option {
	return func(b *Builder) { b.geo = g }
}

// WithBackend sets the factory producing a fresh backend per build.
func WithBackend(f layout.BackendFactory) Option {
	return func(b *Builder) { b.factory = f }
}

// WithMaxSlides bounds the slide count. Zero means unbounded.
func WithMaxSlides(n int) Option {
	return func(b *Builder) { b.maxSlides = n }
}

// WithClock sets the time source for generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithToolName sets the tool name printed in the summary footer.
func WithToolName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.tool = name
		}
	}
}

// WithContinuationPages lets long sections flow onto extra pages instead of
// overflowing the bottom margin.
func WithContinuationPages(enabled bool) Option {
	return func(b *Builder) { b.continuation = enabled }
}

// Builder turns a project and its slides into a laid-out Document. It holds
// no per-build state and is safe for concurrent use.
type Builder struct {
	geo          layout.Geometry
	factory      layout.BackendFactory
	maxSlides    int
	now          func() time.Time
	tool         string
	continuation bool
}

// NewBuilder creates a Builder. Geometry is validated here so every later
// build can assume a usable content area.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		geo:  layout.A4(),
		now:  time.Now,
		tool: DefaultToolName,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.geo.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Geometry returns the builder's page geometry.
func (b *Builder) Geometry() layout.Geometry { return b.geo }

// Build lays out the title page, one page per slide in input order, and the
// summary page. On failure no document is returned.
func (b *Builder) Build(project *lesson.Project, slides []lesson.Slide) (*layout.Document, error) {
	if b.factory == nil {
		return nil, rerrors.MissingBackend()
	}
	if b.maxSlides > 0 && len(slides) > b.maxSlides {
		return nil, rerrors.TooManySlides(len(slides), b.maxSlides)
	}
	if project == nil {
		project = &lesson.Project{}
	}

	backend := b.factory(b.geo)
	if backend == nil {
		return nil, rerrors.MissingBackend()
	}

	pm := layout.NewPageManager(b.geo, backend, layout.WithContinuationPages(b.continuation))
	r := &renderer{
		pm:        pm,
		project:   project,
		slides:    slides,
		generated: b.now(),
		tool:      b.tool,
	}

	pm.NewPage()
	if _, err := r.titleSection(); err != nil {
		return nil, err
	}
	for i, s := range slides {
		pm.NewPage()
		if _, err := r.slideSection(i+1, s); err != nil {
			return nil, err
		}
	}
	pm.NewPage()
	if _, err := r.summarySection(); err != nil {
		return nil, err
	}

	if err := backend.Err(); err != nil {
		return nil, rerrors.RenderFailed(backend.Name(), err)
	}

	doc := pm.Document()
	doc.Title = lesson.DocumentTitle(project, slides)
	return doc, nil
}

// Export serializes a built document through its backend. Bytes are cached
// on the document, so repeated exports return the same output.
func (b *Builder) Export(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, rerrors.SerializeFailed("", errors.New("no document"))
	}
	data, err := doc.Serialize()
	if err != nil {
		return nil, rerrors.SerializeFailed(doc.BackendName(), err)
	}
	return data, nil
}
