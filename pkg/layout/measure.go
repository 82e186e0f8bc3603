package layout

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

// styler tracks the font currently applied to a backend so redundant size and
// style calls are skipped and temporary changes can be undone.
type styler struct {
	backend Backend
	font    Font
	set     bool
}

func (s *styler) apply(f Font) {
	if !s.set || s.font.Size != f.Size {
		s.backend.SetFontSize(f.Size)
	}
	if !s.set || s.font.Style != f.Style {
		s.backend.SetFontStyle(f.Style)
	}
	s.font = f
	s.set = true
}

// invalidate forgets the applied font, forcing the next apply to reach the
// backend. Used after a page break since some backends reset font state.
func (s *styler) invalidate() {
	s.set = false
}

// Measurer wraps text against the backend's font metrics.
type Measurer struct {
	st *styler
}

// Wrap splits text into lines no wider than maxWidth when set in font f. The
// font applied before the call is restored afterwards.
func (m *Measurer) Wrap(text string, maxWidth float64, f Font) ([]string, error) {
	if maxWidth <= 0 {
		return nil, rerrors.InvalidGeometry("wrap_width", maxWidth)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	text = norm.NFC.String(text)

	prev, hadPrev := m.st.font, m.st.set
	m.st.apply(f)
	lines := m.st.backend.MeasureWrap(text, maxWidth)
	if hadPrev {
		m.st.apply(prev)
	}
	return lines, nil
}

// LineHeight returns the line advance for f.
func (m *Measurer) LineHeight(f Font) float64 {
	return f.LineHeight()
}
