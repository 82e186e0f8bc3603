package report

import (
	"time"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

// Font sizes in points.
const (
	sizeTitle    = 24
	sizeSubtitle = 14
	sizeSlide    = 18
	sizeHeading  = 16
	sizeLabel    = 12
	sizeBody     = 11
	sizeDetails  = 10
	sizeFooter   = 9
)

// Vertical spacing in millimetres.
const (
	gapSmall    = 2.0
	gapBlock    = 4.0
	gapSection  = 8.0
	ruleMinRoom = 20.0
)

// renderer holds the inputs and page manager of a single build.
type renderer struct {
	pm        *layout.PageManager
	project   *lesson.Project
	slides    []lesson.Slide
	generated time.Time
	tool      string
}

func (r *renderer) geo() layout.Geometry { return r.pm.Geometry() }

// write wraps text to width in the current font and draws it at the cursor,
// advancing one line height per line. The first baseline sits one line
// height below the cursor.
func (r *renderer) write(text string, x, width float64, align layout.Align) error {
	lines, err := r.pm.Wrap(text, width)
	if err != nil {
		return err
	}
	r.lines(lines, x, align)
	return nil
}

// lines draws pre-wrapped lines at the cursor. With continuation pages
// enabled, a block is split at the bottom margin and the rest flows onto new
// pages.
func (r *renderer) lines(lines []string, x float64, align layout.Align) {
	lh := r.pm.LineHeight()
	cur := r.pm.Cursor()
	for len(lines) > 0 {
		n := len(lines)
		if r.pm.Continuation() {
			r.pm.Ensure(lh)
			fit := int(cur.Remaining() / lh)
			if fit < 1 {
				fit = 1
			}
			if fit < n {
				n = fit
			}
		}
		r.pm.Text(lines[:n], x, cur.Y()+lh, align)
		cur.Advance(lh * float64(n))
		lines = lines[n:]
	}
}

// heading writes a single-line bold heading in the accent color.
func (r *renderer) heading(text string, size float64) error {
	r.pm.SetTextColor(layout.Navy)
	r.pm.SetFont(size, layout.StyleBold)
	err := r.write(text, r.geo().Margin, r.geo().ContentWidth(), layout.AlignLeft)
	r.pm.Cursor().Advance(gapSmall)
	return err
}

// bullets writes one wrapped, indented line per item.
func (r *renderer) bullets(items []string) error {
	g := r.geo()
	r.pm.SetTextColor(layout.Black)
	r.pm.SetFont(sizeLabel, layout.StyleNormal)
	for _, item := range items {
		if err := r.write(item, g.Margin+5, g.ContentWidth()-5, layout.AlignLeft); err != nil {
			return err
		}
	}
	return nil
}
