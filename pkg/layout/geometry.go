// Package layout provides the page model for script reports: geometry, a
// vertical layout cursor, text wrapping, and a page manager that records draw
// commands while forwarding them to a render backend.
package layout

import (
	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

// Geometry describes the page in millimetres.
type Geometry struct {
	// Width is the page width.
	// Default: 210 (A4)
	Width float64 `yaml:"page_width" json:"pageWidth"`

	// Height is the page height.
	// Default: 297 (A4)
	Height float64 `yaml:"page_height" json:"pageHeight"`

	// Margin is applied on all four sides.
	// Default: 20
	Margin float64 `yaml:"margin" json:"margin"`
}

// A4 returns portrait A4 geometry with 20mm margins.
func A4() Geometry {
	return Geometry{Width: 210, Height: 297, Margin: 20}
}

// ContentWidth is the usable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.Width - 2*g.Margin
}

// Bottom is the y coordinate of the bottom margin.
func (g Geometry) Bottom() float64 {
	return g.Height - g.Margin
}

// CenterX is the horizontal page center.
func (g Geometry) CenterX() float64 {
	return g.Width / 2
}

// Right is the x coordinate of the right margin.
func (g Geometry) Right() float64 {
	return g.Width - g.Margin
}

// Validate rejects non-positive dimensions and margins that leave no content
// area.
func (g Geometry) Validate() error {
	switch {
	case g.Width <= 0:
		return rerrors.InvalidGeometry("width", g.Width)
	case g.Height <= 0:
		return rerrors.InvalidGeometry("height", g.Height)
	case g.Margin <= 0:
		return rerrors.InvalidGeometry("margin", g.Margin)
	case g.ContentWidth() <= 0:
		return rerrors.InvalidGeometry("content_width", g.ContentWidth())
	case g.Height-2*g.Margin <= 0:
		return rerrors.InvalidGeometry("content_height", g.Height-2*g.Margin)
	}
	return nil
}
