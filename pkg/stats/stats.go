// Package stats aggregates cross-slide statistics for a lesson: durations,
// visual function usage, complexity and per-speaker share.
//
// All functions are pure and never mutate their inputs.
package stats

import (
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

// SpeakerShare is one row of the speaker breakdown.
type SpeakerShare struct {
	// Speaker is the raw speaker key ("Unknown" when the slide had none).
	Speaker string `json:"speaker"`

	// Count is the number of slides attributed to the speaker.
	Count int `json:"count"`

	// Percentage is Count / total * 100, unrounded. Renderers format it to
	// one decimal.
	Percentage float64 `json:"percentage"`
}

// Aggregate is the full set of statistics for a lesson.
type Aggregate struct {
	SlideCount            int            `json:"slideCount"`
	SpeakerCount          int            `json:"speakerCount"`
	TotalDuration         float64        `json:"totalDuration"`
	AverageDuration       float64        `json:"averageDuration"`
	UniqueVisualFunctions []string       `json:"uniqueVisualFunctions"`
	SpeakerBreakdown      []SpeakerShare `json:"speakerBreakdown"`
	ComplexSlides         int            `json:"complexSlides"`
}

// TotalDuration sums slide durations, using the default for slides without one.
func TotalDuration(slides []lesson.Slide) float64 {
	var total float64
	for _, s := range slides {
		total += s.Duration()
	}
	return total
}

// AverageDuration returns TotalDuration / len(slides), or 0 for no slides.
func AverageDuration(slides []lesson.Slide) float64 {
	if len(slides) == 0 {
		return 0
	}
	return TotalDuration(slides) / float64(len(slides))
}

// UniqueVisualFunctions returns the distinct non-empty visual types in order
// of first occurrence.
func UniqueVisualFunctions(slides []lesson.Slide) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range slides {
		t := s.VisualType()
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SpeakerBreakdown counts slides per speaker key. Rows are ordered by the
// speaker's first appearance in the slide list.
func SpeakerBreakdown(slides []lesson.Slide) []SpeakerShare {
	if len(slides) == 0 {
		return nil
	}

	index := make(map[string]int)
	rows := make([]SpeakerShare, 0)
	for _, s := range slides {
		key := s.SpeakerKey()
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, SpeakerShare{Speaker: key})
		}
		rows[i].Count++
	}

	total := float64(len(slides))
	for i := range rows {
		rows[i].Percentage = float64(rows[i].Count) / total * 100
	}
	return rows
}

// ComplexSlides counts slides flagged as complex.
func ComplexSlides(slides []lesson.Slide) int {
	n := 0
	for _, s := range slides {
		if s.IsComplex {
			n++
		}
	}
	return n
}

// Compute gathers every statistic in one pass over the inputs.
func Compute(project *lesson.Project, slides []lesson.Slide) Aggregate {
	speakers := 0
	if project != nil {
		speakers = len(project.Speakers)
	}
	return Aggregate{
		SlideCount:            len(slides),
		SpeakerCount:          speakers,
		TotalDuration:         TotalDuration(slides),
		AverageDuration:       AverageDuration(slides),
		UniqueVisualFunctions: UniqueVisualFunctions(slides),
		SpeakerBreakdown:      SpeakerBreakdown(slides),
		ComplexSlides:         ComplexSlides(slides),
	}
}
