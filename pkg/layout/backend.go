package layout

// Backend is the drawing and serialization capability a document is rendered
// through. Coordinates are millimetres from the top-left corner; text y is the
// baseline of the first line and later lines advance by LineHeight of the
// current font size.
//
// Drawing methods do not return errors. A backend that fails while drawing
// records the first failure and reports it from Err.
type Backend interface {
	// Name identifies the backend in errors and logs.
	Name() string

	NewPage()
	SetFontSize(size float64)
	SetFontStyle(style FontStyle)
	SetTextColor(c Color)
	SetFillColor(c Color)
	DrawText(lines []string, x, y float64, align Align)
	DrawRect(x, y, w, h float64, mode RectMode)
	DrawLine(x1, y1, x2, y2 float64)

	// MeasureWrap splits text into lines no wider than maxWidth in the
	// current font.
	MeasureWrap(text string, maxWidth float64) []string

	// Serialize produces the final document bytes.
	Serialize() ([]byte, error)

	// Err returns the first deferred drawing failure, if any.
	Err() error
}

// BackendFactory creates a fresh backend for one build.
type BackendFactory func(g Geometry) Backend
