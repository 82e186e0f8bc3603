package report

import (
	"strconv"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
)

// SummaryTitle heads the final page.
const SummaryTitle = "Script Summary"

// summarySection draws the statistics page and the footer. It returns the
// cursor position after the last list; the footer is pinned to the bottom
// margin and does not move the cursor.
func (r *renderer) summarySection() (float64, error) {
	cur := r.pm.Cursor()
	agg := stats.Compute(r.project, r.slides)

	cur.Advance(gapBlock)
	if err := r.heading(SummaryTitle, sizeTitle-4); err != nil {
		return 0, err
	}
	cur.Advance(gapBlock)

	if err := r.heading("Statistics", sizeHeading); err != nil {
		return 0, err
	}
	if err := r.bullets(StatisticsLines(agg)); err != nil {
		return 0, err
	}
	cur.Advance(gapSection)

	if len(agg.UniqueVisualFunctions) > 0 {
		if err := r.heading("Visual Functions", sizeHeading); err != nil {
			return 0, err
		}
		items := make([]string, len(agg.UniqueVisualFunctions))
		for i, v := range agg.UniqueVisualFunctions {
			items[i] = "• " + v
		}
		if err := r.bullets(items); err != nil {
			return 0, err
		}
		cur.Advance(gapSection)
	}

	if len(agg.SpeakerBreakdown) > 0 {
		if err := r.heading("Speaker Breakdown", sizeHeading); err != nil {
			return 0, err
		}
		items := make([]string, len(agg.SpeakerBreakdown))
		for i, row := range agg.SpeakerBreakdown {
			items[i] = BreakdownLine(r.project.ResolveSpeaker(row.Speaker), row.Count, row.Percentage)
		}
		if err := r.bullets(items); err != nil {
			return 0, err
		}
	}

	y := cur.Y()
	r.footer()
	return y, nil
}

func (r *renderer) footer() {
	g := r.geo()
	r.pm.SetTextColor(layout.Gray)
	r.pm.SetFont(sizeFooter, layout.StyleItalic)
	r.pm.Text([]string{Footer(r.tool, r.generated)}, g.CenterX(), g.Bottom(), layout.AlignCenter)
}

// StatisticsLines renders the statistics list of the summary page.
func StatisticsLines(agg stats.Aggregate) []string {
	return []string{
		"Total Slides: " + strconv.Itoa(agg.SlideCount),
		"Total Speakers: " + strconv.Itoa(agg.SpeakerCount),
		"Visual Functions Used: " + strconv.Itoa(len(agg.UniqueVisualFunctions)),
		"Estimated Total Duration: " + Seconds(agg.TotalDuration),
		"Complex Slides: " + strconv.Itoa(agg.ComplexSlides),
		"Average Slide Duration: " + OneDecimal(agg.AverageDuration) + "s",
	}
}
