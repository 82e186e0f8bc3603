package backend

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
)

// TextInfo describes the text recorder backend.
var TextInfo = Info{
	Name:        "text",
	ContentType: "text/plain; charset=utf-8",
	Extension:   ".txt",
	Description: "Plain-text listing of every draw command",
}

// basicfont glyphs are 13px tall; a 13pt font maps one pixel to one point.
const faceHeight = 13.0

// Text records draw commands as a line-oriented listing. Widths come from the
// fixed 7x13 bitmap face, so output depends only on input.
type Text struct {
	geo   layout.Geometry
	face  font.Face
	size  float64
	style layout.FontStyle
	color layout.Color
	fill  layout.Color
	page  int
	out   strings.Builder
	err   error
}

// TextFactory is a layout.BackendFactory for Text.
func TextFactory(g layout.Geometry) layout.Backend {
	return NewText(g)
}

// NewText creates a text backend.
func NewText(g layout.Geometry) *Text {
	t := &Text{geo: g, face: basicfont.Face7x13, size: 12}
	fmt.Fprintf(&t.out, "# scriptpdf text render\n")
	fmt.Fprintf(&t.out, "# geometry %.2fx%.2f margin %.2f\n", g.Width, g.Height, g.Margin)
	return t
}

// Name implements layout.Backend.
func (t *Text) Name() string { return TextInfo.Name }

// NewPage implements layout.Backend.
func (t *Text) NewPage() {
	t.page++
	fmt.Fprintf(&t.out, "page %d\n", t.page)
}

// SetFontSize implements layout.Backend.
func (t *Text) SetFontSize(size float64) {
	if size <= 0 && t.err == nil {
		t.err = fmt.Errorf("invalid font size %v", size)
	}
	t.size = size
}

// SetFontStyle implements layout.Backend.
func (t *Text) SetFontStyle(style layout.FontStyle) { t.style = style }

// SetTextColor implements layout.Backend.
func (t *Text) SetTextColor(c layout.Color) { t.color = c }

// SetFillColor implements layout.Backend.
func (t *Text) SetFillColor(c layout.Color) { t.fill = c }

// Width returns the width of s in millimetres at the current font size.
func (t *Text) Width(s string) float64 {
	px := float64(font.MeasureString(t.face, s)) / 64
	return px * t.size / faceHeight * 25.4 / 72
}

// DrawText implements layout.Backend.
func (t *Text) DrawText(lines []string, x, y float64, align layout.Align) {
	if !t.onPage("text") {
		return
	}
	lh := layout.LineHeight(t.size)
	for i, line := range lines {
		fmt.Fprintf(&t.out, "  text %.1f %s %s %.2f %.2f %s | %s\n",
			t.size, t.style, align, align.AlignedX(x, t.Width(line)), y+float64(i)*lh, t.color, line)
	}
}

// DrawRect implements layout.Backend.
func (t *Text) DrawRect(x, y, w, h float64, mode layout.RectMode) {
	if !t.onPage("rect") {
		return
	}
	fmt.Fprintf(&t.out, "  rect %s %.2f %.2f %.2f %.2f", mode, x, y, w, h)
	if mode != layout.RectStroke {
		fmt.Fprintf(&t.out, " fill=%s", t.fill)
	}
	t.out.WriteString("\n")
}

// DrawLine implements layout.Backend.
func (t *Text) DrawLine(x1, y1, x2, y2 float64) {
	if !t.onPage("line") {
		return
	}
	fmt.Fprintf(&t.out, "  line %.2f %.2f %.2f %.2f\n", x1, y1, x2, y2)
}

// MeasureWrap implements layout.Backend.
func (t *Text) MeasureWrap(text string, maxWidth float64) []string {
	return layout.WrapWords(text, maxWidth, t.Width)
}

// Serialize returns the listing.
func (t *Text) Serialize() ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return []byte(t.out.String()), nil
}

// Err implements layout.Backend.
func (t *Text) Err() error { return t.err }

func (t *Text) onPage(op string) bool {
	if t.page > 0 {
		return true
	}
	if t.err == nil {
		t.err = fmt.Errorf("%s drawn before first page", op)
	}
	return false
}
