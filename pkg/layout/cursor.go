package layout

// Cursor is the vertical layout position on the current page. It never breaks
// pages on its own; overflow shows up as a negative Remaining.
type Cursor struct {
	geo  Geometry
	page int
	y    float64
}

func newCursor(g Geometry) *Cursor {
	return &Cursor{geo: g, y: g.Margin}
}

// Y returns the current vertical position.
func (c *Cursor) Y() float64 { return c.y }

// Page returns the 1-based page the cursor is on, or 0 before the first page.
func (c *Cursor) Page() int { return c.page }

// Advance moves the cursor down by h.
func (c *Cursor) Advance(h float64) {
	c.y += h
}

// Remaining is the space left above the bottom margin.
func (c *Cursor) Remaining() float64 {
	return c.geo.Bottom() - c.y
}

// Reset moves the cursor back to the top margin.
func (c *Cursor) Reset() {
	c.y = c.geo.Margin
}

func (c *Cursor) moveTo(page int) {
	c.page = page
	c.Reset()
}
