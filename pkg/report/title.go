package report

import (
	"strconv"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
)

// Subtitle is printed under the document title.
const Subtitle = "Educational Script Report"

const infoBoxHeight = 40.0

// titleSection draws the cover page and returns the final cursor position.
func (r *renderer) titleSection() (float64, error) {
	g := r.geo()
	cur := r.pm.Cursor()

	cur.Advance(20)
	r.pm.SetTextColor(layout.Navy)
	r.pm.SetFont(sizeTitle, layout.StyleBold)
	if err := r.write(lesson.DocumentTitle(r.project, r.slides), g.CenterX(), g.ContentWidth(), layout.AlignCenter); err != nil {
		return 0, err
	}
	cur.Advance(gapBlock)

	r.pm.SetTextColor(layout.Gray)
	r.pm.SetFont(sizeSubtitle, layout.StyleItalic)
	if err := r.write(Subtitle, g.CenterX(), g.ContentWidth(), layout.AlignCenter); err != nil {
		return 0, err
	}
	cur.Advance(gapSection + gapSmall)

	r.infoBox()
	cur.Advance(infoBoxHeight + gapSection + gapBlock)

	if err := r.speakerList(); err != nil {
		return 0, err
	}
	return cur.Y(), nil
}

// infoBox draws the filled, bordered 2x2 grid of project facts at the cursor.
func (r *renderer) infoBox() {
	g := r.geo()
	top := r.pm.Cursor().Y()

	r.pm.SetFillColor(layout.LightGray)
	r.pm.Rect(g.Margin, top, g.ContentWidth(), infoBoxHeight, layout.RectFillStroke)

	left := g.Margin + 5
	right := g.Margin + g.ContentWidth()/2 + 5
	row1 := top + infoBoxHeight/3 + 2
	row2 := top + 2*infoBoxHeight/3 + 2

	r.pm.SetTextColor(layout.Black)
	r.pm.SetFont(sizeBody, layout.StyleNormal)
	r.pm.Text([]string{"Project ID: " + r.project.DisplayID()}, left, row1, layout.AlignLeft)
	r.pm.Text([]string{"Generated: " + r.generated.Format(DateLayout)}, right, row1, layout.AlignLeft)
	r.pm.Text([]string{"Total Slides: " + strconv.Itoa(len(r.slides))}, left, row2, layout.AlignLeft)
	r.pm.Text([]string{"Estimated Duration: " + Seconds(stats.TotalDuration(r.slides))}, right, row2, layout.AlignLeft)
}

func (r *renderer) speakerList() error {
	if err := r.heading("Speakers", sizeHeading); err != nil {
		return err
	}

	keys := r.project.SpeakerKeys()
	if len(keys) == 0 {
		r.pm.SetTextColor(layout.Gray)
		r.pm.SetFont(sizeLabel, layout.StyleItalic)
		return r.write("No speaker information available", r.geo().Margin, r.geo().ContentWidth(), layout.AlignLeft)
	}

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, SpeakerLine(r.project.ResolveSpeaker(k), r.project.Speakers[k]))
	}
	return r.bullets(items)
}
