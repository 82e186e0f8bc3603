package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

func sampleSlides() []lesson.Slide {
	return []lesson.Slide{
		{Speaker: "A", VisualDuration: lesson.Seconds(5), Visual: &lesson.Visual{Type: "graph"}},
		{Speaker: "B", IsComplex: true},
		{Speaker: "A", VisualDuration: lesson.Seconds(2.5), Visual: &lesson.Visual{Type: "table"}},
		{Visual: &lesson.Visual{Type: "graph"}},
	}
}

func TestTotalDuration(t *testing.T) {
	slides := sampleSlides()
	if got := TotalDuration(slides); got != 15.5 {
		t.Errorf("expected 15.5, got %v", got)
	}

	reversed := make([]lesson.Slide, len(slides))
	for i, s := range slides {
		reversed[len(slides)-1-i] = s
	}
	if TotalDuration(reversed) != TotalDuration(slides) {
		t.Error("total duration must not depend on slide order")
	}
}

func TestAverageDuration(t *testing.T) {
	if got := AverageDuration(nil); got != 0 {
		t.Errorf("expected 0 for no slides, got %v", got)
	}
	if got := AverageDuration(sampleSlides()); got != 3.875 {
		t.Errorf("expected 3.875, got %v", got)
	}
}

func TestUniqueVisualFunctions(t *testing.T) {
	got := strings.Join(UniqueVisualFunctions(sampleSlides()), ",")
	if got != "graph,table" {
		t.Errorf("expected graph,table, got %s", got)
	}
	if n := len(UniqueVisualFunctions([]lesson.Slide{{}, {Visual: &lesson.Visual{}}})); n != 0 {
		t.Errorf("expected no visual functions, got %d", n)
	}
}

func TestSpeakerBreakdown(t *testing.T) {
	rows := SpeakerBreakdown(sampleSlides())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	want := []SpeakerShare{
		{Speaker: "A", Count: 2, Percentage: 50},
		{Speaker: "B", Count: 1, Percentage: 25},
		{Speaker: "Unknown", Count: 1, Percentage: 25},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("row %d: expected %+v, got %+v", i, w, rows[i])
		}
	}

	if SpeakerBreakdown(nil) != nil {
		t.Error("expected nil breakdown for no slides")
	}
}

func TestSpeakerBreakdownPercentagesSum(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"thirds", []string{"a", "b", "c"}},
		{"sixths", []string{"a", "b", "c", "d", "e", "f"}},
		{"sevenths", []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"skewed", []string{"a", "a", "a", "b", "c", "c"}},
		{"single", []string{"solo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides := make([]lesson.Slide, len(tt.keys))
			for i, k := range tt.keys {
				slides[i] = lesson.Slide{Speaker: k}
			}
			var sum float64
			for _, r := range SpeakerBreakdown(slides) {
				sum += r.Percentage
			}
			if math.Abs(sum-100) > 0.1 {
				t.Errorf("expected percentages to sum to 100, got %v", sum)
			}
		})
	}
}

func TestComplexSlides(t *testing.T) {
	if got := ComplexSlides(sampleSlides()); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestCompute(t *testing.T) {
	project := &lesson.Project{Speakers: map[string]lesson.Speaker{"A": {}, "B": {}}}
	agg := Compute(project, sampleSlides())

	if agg.SlideCount != 4 {
		t.Errorf("expected 4 slides, got %d", agg.SlideCount)
	}
	if agg.SpeakerCount != 2 {
		t.Errorf("expected 2 speakers, got %d", agg.SpeakerCount)
	}
	if agg.ComplexSlides != 1 {
		t.Errorf("expected 1 complex slide, got %d", agg.ComplexSlides)
	}
	if len(agg.UniqueVisualFunctions) != 2 {
		t.Errorf("expected 2 visual functions, got %v", agg.UniqueVisualFunctions)
	}

	empty := Compute(nil, nil)
	if empty.SpeakerCount != 0 || empty.AverageDuration != 0 || empty.SpeakerBreakdown != nil {
		t.Errorf("unexpected empty aggregate %+v", empty)
	}
}
