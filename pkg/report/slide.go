package report

import (
	"strconv"
	"strings"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

const headerBarHeight = 12.0

// slideSection draws slide n (1-based) on the current page and returns the
// final cursor position.
func (r *renderer) slideSection(n int, s lesson.Slide) (float64, error) {
	g := r.geo()
	cur := r.pm.Cursor()

	r.headerBar(n, r.project.ResolveSpeaker(s.Speaker))
	cur.Advance(headerBarHeight + gapSection)

	r.pm.SetTextColor(layout.Navy)
	r.pm.SetFont(sizeSlide, layout.StyleBold)
	if err := r.write(s.DisplayTitle(), g.Margin, g.ContentWidth(), layout.AlignLeft); err != nil {
		return 0, err
	}
	cur.Advance(gapBlock)

	blocks := []struct {
		label string
		text  string
		style layout.FontStyle
	}{
		{"Content:", s.Content, layout.StyleNormal},
		{"Additional Content:", s.Content2, layout.StyleNormal},
		{"Narration:", s.Narration, layout.StyleItalic},
	}
	for _, b := range blocks {
		if strings.TrimSpace(b.text) == "" {
			continue
		}
		if err := r.labeled(b.label, b.text, b.style); err != nil {
			return 0, err
		}
	}

	r.pm.SetTextColor(layout.Gray)
	r.pm.SetFont(sizeDetails, layout.StyleNormal)
	if err := r.write(DetailsLine(s), g.Margin, g.ContentWidth(), layout.AlignLeft); err != nil {
		return 0, err
	}
	cur.Advance(gapSmall)

	if s.VisualType() != "" {
		if err := r.write("Visual Function: "+s.Visual.Signature(), g.Margin, g.ContentWidth(), layout.AlignLeft); err != nil {
			return 0, err
		}
	}

	cur.Advance(gapBlock)
	if cur.Remaining() >= ruleMinRoom {
		r.pm.Line(g.Margin, cur.Y(), g.Right(), cur.Y())
	}
	return cur.Y(), nil
}

// headerBar draws the filled bar carrying the slide ordinal and speaker.
func (r *renderer) headerBar(n int, speaker string) {
	g := r.geo()
	top := r.pm.Cursor().Y()
	baseline := top + headerBarHeight*0.7

	r.pm.SetFillColor(layout.Navy)
	r.pm.Rect(g.Margin, top, g.ContentWidth(), headerBarHeight, layout.RectFill)

	r.pm.SetTextColor(layout.White)
	r.pm.SetFont(sizeHeading-2, layout.StyleBold)
	r.pm.Text([]string{"Slide " + strconv.Itoa(n)}, g.Margin+4, baseline, layout.AlignLeft)
	r.pm.SetFont(sizeBody, layout.StyleNormal)
	r.pm.Text([]string{speaker}, g.Right()-4, baseline, layout.AlignRight)
}

// labeled draws a bold label followed by the wrapped body text.
func (r *renderer) labeled(label, text string, style layout.FontStyle) error {
	g := r.geo()

	r.pm.SetTextColor(layout.DarkGray)
	r.pm.SetFont(sizeLabel, layout.StyleBold)
	if err := r.write(label, g.Margin, g.ContentWidth(), layout.AlignLeft); err != nil {
		return err
	}
	r.pm.Cursor().Advance(1)

	r.pm.SetTextColor(layout.Black)
	r.pm.SetFont(sizeBody, style)
	if err := r.write(text, g.Margin, g.ContentWidth(), layout.AlignLeft); err != nil {
		return err
	}
	r.pm.Cursor().Advance(gapBlock)
	return nil
}
