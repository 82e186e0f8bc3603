package lesson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

func TestSlideDefaults(t *testing.T) {
	var s Slide

	if s.Duration() != DefaultVisualDuration {
		t.Errorf("expected default duration %v, got %v", DefaultVisualDuration, s.Duration())
	}
	if s.HasDuration() {
		t.Error("expected HasDuration false for empty slide")
	}
	if s.DisplayTitle() != "Untitled" {
		t.Errorf("expected Untitled, got %q", s.DisplayTitle())
	}
	if s.SpeakerKey() != "Unknown" {
		t.Errorf("expected Unknown, got %q", s.SpeakerKey())
	}
	if s.VisualType() != "" {
		t.Errorf("expected empty visual type, got %q", s.VisualType())
	}

	s.VisualDuration = Seconds(0)
	if s.Duration() != 0 || !s.HasDuration() {
		t.Error("explicit zero duration must be kept")
	}
}

func TestResolveSpeaker(t *testing.T) {
	p := &Project{Speakers: map[string]Speaker{
		"A": {Name: "Alice"},
		"B": {},
	}}

	tests := []struct {
		key  string
		want string
	}{
		{"A", "Alice"},
		{"B", "B"},
		{"Z", "Z"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := p.ResolveSpeaker(tt.key); got != tt.want {
			t.Errorf("ResolveSpeaker(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	var nilProject *Project
	if got := nilProject.ResolveSpeaker("X"); got != "X" {
		t.Errorf("nil project should resolve to key, got %q", got)
	}
}

func TestProjectDisplayID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"", "N/A"},
		{"abc", "abc"},
		{"0123456789abcdef", "01234567"},
	}
	for _, tt := range tests {
		p := &Project{ID: tt.id}
		if got := p.DisplayID(); got != tt.want {
			t.Errorf("DisplayID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestSpeakerKeysSorted(t *testing.T) {
	p := &Project{Speakers: map[string]Speaker{"c": {}, "a": {}, "b": {}}}
	got := strings.Join(p.SpeakerKeys(), ",")
	if got != "a,b,c" {
		t.Errorf("expected sorted keys, got %s", got)
	}
}

func TestDocumentTitle(t *testing.T) {
	if got := DocumentTitle(&Project{Title: "Physics"}, nil); got != "Physics" {
		t.Errorf("expected project title, got %q", got)
	}
	if got := DocumentTitle(&Project{}, []Slide{{Title: "Intro"}}); got != "Intro" {
		t.Errorf("expected first slide title, got %q", got)
	}
	if got := DocumentTitle(nil, nil); got != "Educational Script" {
		t.Errorf("expected default title, got %q", got)
	}
}

func TestVisualSignature(t *testing.T) {
	v := Visual{Type: "drawGraph", Params: Params{"x", "2"}}
	if got := v.Signature(); got != "drawGraph(x, 2)" {
		t.Errorf("unexpected signature %q", got)
	}
	if got := (Visual{Type: "blank"}).Signature(); got != "blank()" {
		t.Errorf("unexpected signature %q", got)
	}
}

func TestDecodeJSONScalarParams(t *testing.T) {
	src := `{
		"project": {"id": "p1", "title": "T", "speakers": {"A": {"name": "Alice", "voice": "nova"}}},
		"slides": [
			{"speaker": "A", "title": "Intro", "visualDuration": 5, "isComplex": true,
			 "visual": {"type": "plot", "params": ["sin", 3, true, null]}}
		]
	}`

	l, err := Decode(strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(l.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(l.Slides))
	}
	s := l.Slides[0]
	if s.Duration() != 5 || !s.IsComplex {
		t.Errorf("unexpected slide fields: %+v", s)
	}
	got := strings.Join(s.Visual.Params, "|")
	if got != "sin|3|true|null" {
		t.Errorf("unexpected params %q", got)
	}
	if l.Project.Speakers["A"].VoiceOrDefault() != "nova" {
		t.Error("expected voice to decode")
	}
}

func TestDecodeJSONNullParams(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`[null, "x", "", 2.5]`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := []string{"null", "x", "", "2.5"}
	if len(p) != len(want) {
		t.Fatalf("expected %d params, got %q", len(want), p)
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("param %d: expected %q, got %q", i, want[i], p[i])
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
project:
  id: p2
  speakers:
    B: {name: Bob}
slides:
  - speaker: B
    title: Mid
    visual:
      type: table
      params: [1, two]
`
	l, err := Decode(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if l.Slides[0].Visual.Signature() != "table(1, two)" {
		t.Errorf("unexpected visual %q", l.Slides[0].Visual.Signature())
	}
	if l.Slides[0].HasDuration() {
		t.Error("expected no explicit duration")
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	if !rerrors.IsCode(err, rerrors.ErrLessonParseFailed) {
		t.Errorf("expected LESSON_PARSE_FAILED, got %v", err)
	}
}

func TestLoadFileKeepsMissingID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forces.lesson.yaml")
	if err := os.WriteFile(path, []byte("project:\n  title: X\nslides: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		l, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if l.Project.ID != "" {
			t.Errorf("expected no project ID, got %q", l.Project.ID)
		}
		if l.Project.DisplayID() != NotAvailable {
			t.Errorf("expected N/A display ID, got %q", l.Project.DisplayID())
		}
	}

	if got := FileID(path); got != "forces.lesson" {
		t.Errorf("expected forces.lesson, got %q", got)
	}

	p := Project{}
	p.DefaultID("forces")
	p.DefaultID("other")
	if p.ID != "forces" {
		t.Errorf("expected first default to stick, got %q", p.ID)
	}

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	if !rerrors.IsCode(err, rerrors.ErrLessonNotFound) {
		t.Errorf("expected LESSON_NOT_FOUND, got %v", err)
	}
}

func TestEncodeRoundTripPreservesOrder(t *testing.T) {
	l := &Lesson{
		Project: Project{ID: "p"},
		Slides:  []Slide{{Title: "one"}, {Title: "two"}, {Title: "three"}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, l, FormatYAML); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i, s := range back.Slides {
		if s.Title != l.Slides[i].Title {
			t.Errorf("slide %d: expected %q, got %q", i, l.Slides[i].Title, s.Title)
		}
	}
}
