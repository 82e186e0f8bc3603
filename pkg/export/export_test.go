package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/r3d91ll/scriptpdf/pkg/backend"
	"github.com/r3d91ll/scriptpdf/pkg/config"
	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/storage"
)

var fixed = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return strings.Join(out, ",")
}

func sampleLesson(id string) *lesson.Lesson {
	return &lesson.Lesson{
		Project: lesson.Project{ID: id, Title: "Sample", Speakers: map[string]lesson.Speaker{"A": {Name: "Alice"}}},
		Slides: []lesson.Slide{
			{Speaker: "A", Title: "One", Content: "First", VisualDuration: lesson.Seconds(5)},
			{Speaker: "A", Title: "Two", Narration: "Second"},
		},
	}
}

func newExporter(t *testing.T, mutate func(*config.Config), opts ...Option) (*Exporter, string, *recorder) {
	t.Helper()
	cfg := config.Default()
	cfg.Export.Backend = "text"
	if mutate != nil {
		mutate(cfg)
	}
	out := t.TempDir()
	rec := &recorder{}
	opts = append([]Option{
		WithSink(storage.NewLocalSink(out)),
		WithClock(func() time.Time { return fixed }),
		WithObserver(rec.observe),
	}, opts...)
	return New(cfg, nil, opts...), out, rec
}

func TestRenderText(t *testing.T) {
	e, _, rec := newExporter(t, nil)
	res, err := e.Render(context.Background(), sampleLesson("p1"), "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Pages != 4 || res.Backend != "text" || res.Name != "p1.txt" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Stats.TotalDuration != 9 {
		t.Errorf("expected total duration 9, got %v", res.Stats.TotalDuration)
	}
	if !strings.Contains(string(res.Data), "Generated by scriptpdf on 2024-06-01 09:00:00") {
		t.Error("expected fixed clock in output")
	}
	if rec.types() != EventStarted {
		t.Errorf("expected only a started event, got %s", rec.types())
	}
}

func TestExportPDFVerifiedAndSaved(t *testing.T) {
	e, out, rec := newExporter(t, func(c *config.Config) { c.Export.Backend = "pdf" })
	res, err := e.Export(context.Background(), sampleLesson("p2"), "")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.Location != filepath.Join(out, "p2.pdf") {
		t.Errorf("unexpected location %s", res.Location)
	}
	data, err := os.ReadFile(res.Location)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := backend.VerifyPDF(data, 4); err != nil || n != 4 {
		t.Errorf("saved PDF should have 4 pages, got %d %v", n, err)
	}
	if rec.types() != EventStarted+","+EventCompleted {
		t.Errorf("unexpected events %s", rec.types())
	}
}

func TestExportProjectFromSource(t *testing.T) {
	dir := t.TempDir()
	src := `{"project":{"id":"chem"},"slides":[{"title":"Atoms"}]}`
	if err := os.WriteFile(filepath.Join(dir, "chem.json"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	e, out, _ := newExporter(t, nil, WithSource(storage.NewFileSource(dir)))
	res, err := e.ExportProject(context.Background(), "chem", "text")
	if err != nil {
		t.Fatalf("ExportProject failed: %v", err)
	}
	if res.Pages != 3 || res.Location != filepath.Join(out, "chem.txt") {
		t.Errorf("unexpected result %+v", res)
	}

	_, err = e.ExportProject(context.Background(), "missing", "text")
	if !rerrors.IsCode(err, rerrors.ErrLessonNotFound) {
		t.Errorf("expected LESSON_NOT_FOUND, got %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	e, _, rec := newExporter(t, func(c *config.Config) { c.Layout.MaxSlides = 1 })

	_, err := e.Render(context.Background(), sampleLesson("p3"), "svg")
	if !rerrors.IsCode(err, rerrors.ErrBackendNotFound) {
		t.Errorf("expected BACKEND_NOT_FOUND, got %v", err)
	}

	_, err = e.Render(context.Background(), sampleLesson("p3"), "")
	if !rerrors.IsCode(err, rerrors.ErrTooManySlides) {
		t.Errorf("expected TOO_MANY_SLIDES, got %v", err)
	}
	if !strings.HasSuffix(rec.types(), EventFailed) {
		t.Errorf("expected a failed event, got %s", rec.types())
	}

	bare := New(config.Default(), nil)
	if err := bare.Save(context.Background(), &Result{Name: "x"}); !rerrors.IsCode(err, rerrors.ErrSaveFailed) {
		t.Errorf("expected SAVE_FAILED without sink, got %v", err)
	}
	if _, err := bare.ExportProject(context.Background(), "x", ""); !rerrors.IsCode(err, rerrors.ErrSourceUnavailable) {
		t.Errorf("expected SOURCE_UNAVAILABLE without source, got %v", err)
	}
}

func writeLessons(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		path := filepath.Join(dir, id+".yaml")
		body := "project:\n  id: " + id + "\nslides:\n  - title: S\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestBatch(t *testing.T) {
	e, out, _ := newExporter(t, nil)
	paths := writeLessons(t, 5)
	paths = append(paths[:2], append([]string{"/does/not/exist.json"}, paths[2:]...)...)

	items, err := e.Batch(context.Background(), paths, "", 2)
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	for i, it := range items {
		if it.Path != paths[i] {
			t.Errorf("item %d out of order: %s", i, it.Path)
		}
	}
	if !rerrors.IsCode(items[2].Err, rerrors.ErrLessonNotFound) {
		t.Errorf("expected missing file to fail, got %v", items[2].Err)
	}

	entries, _ := os.ReadDir(out)
	if len(entries) != 5 {
		t.Errorf("expected 5 reports, got %d", len(entries))
	}
}

func TestExportFileNamesReportAfterFile(t *testing.T) {
	e, out, _ := newExporter(t, nil)
	path := filepath.Join(t.TempDir(), "magnets.json")
	if err := os.WriteFile(path, []byte(`{"project":{"title":"Magnets"},"slides":[{"title":"Poles"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	var first []byte
	for i := 0; i < 2; i++ {
		res, err := e.ExportFile(context.Background(), path, "")
		if err != nil {
			t.Fatalf("ExportFile failed: %v", err)
		}
		if res.ProjectID != "magnets" || res.Location != filepath.Join(out, "magnets.txt") {
			t.Errorf("unexpected result %s at %s", res.ProjectID, res.Location)
		}
		if i == 0 {
			first = res.Data
		} else if !bytes.Equal(first, res.Data) {
			t.Error("expected identical output for repeated exports")
		}
	}
}

func TestBatchCancelled(t *testing.T) {
	e, _, _ := newExporter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := e.Batch(ctx, writeLessons(t, 3), "", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	for _, it := range items {
		if it.Result != nil {
			t.Error("expected no exports after cancellation")
		}
	}
}

func TestReportName(t *testing.T) {
	if ReportName("p", ".pdf") != "p.pdf" || ReportName("", ".txt") != "report.txt" {
		t.Error("unexpected report names")
	}
}
