package layout

import "fmt"

// FontStyle is the weight/slant of the report font.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
)

// String returns the lowercase style name.
func (s FontStyle) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bolditalic"
	default:
		return "normal"
	}
}

// Font is a size in points plus a style.
type Font struct {
	Size  float64
	Style FontStyle
}

// LineHeight returns the vertical advance for one line in this font.
func (f Font) LineHeight() float64 {
	return LineHeight(f.Size)
}

// LineHeight converts a point size to a line advance in millimetres with a
// 1.25 leading factor.
func LineHeight(size float64) float64 {
	return size * 25.4 / 72 * 1.25
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// String returns "r,g,b".
func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Report palette.
var (
	Black     = Color{0, 0, 0}
	DarkGray  = Color{60, 60, 60}
	Gray      = Color{120, 120, 120}
	LightGray = Color{240, 240, 240}
	Navy      = Color{41, 65, 122}
	White     = Color{255, 255, 255}
)

// Align is the horizontal anchor of a text run.
type Align int

const (
	// AlignLeft anchors text at x.
	AlignLeft Align = iota
	// AlignCenter centers text on x.
	AlignCenter
	// AlignRight ends text at x.
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// AlignedX returns the left edge of a run of the given width anchored at x.
func (a Align) AlignedX(x, width float64) float64 {
	switch a {
	case AlignCenter:
		return x - width/2
	case AlignRight:
		return x - width
	default:
		return x
	}
}

// RectMode selects stroke, fill or both for rectangles.
type RectMode int

const (
	RectStroke RectMode = iota
	RectFill
	RectFillStroke
)

func (m RectMode) String() string {
	switch m {
	case RectFill:
		return "fill"
	case RectFillStroke:
		return "fill+stroke"
	default:
		return "stroke"
	}
}
