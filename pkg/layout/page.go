package layout

import (
	"strings"
	"sync"
)

// CommandKind identifies a recorded draw command.
type CommandKind int

const (
	CmdFont CommandKind = iota
	CmdTextColor
	CmdFillColor
	CmdText
	CmdRect
	CmdLine
)

// Command is one draw operation in issue order. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind  CommandKind
	Font  Font
	Color Color
	Lines []string
	Align Align
	Mode  RectMode

	X, Y   float64
	W, H   float64
	X2, Y2 float64
}

// Page is one page of a document and the commands drawn on it.
type Page struct {
	Number   int
	Commands []Command
}

// Lines returns every text line drawn on the page in order.
func (p *Page) Lines() []string {
	var out []string
	for _, c := range p.Commands {
		if c.Kind == CmdText {
			out = append(out, c.Lines...)
		}
	}
	return out
}

// Text returns the page's text lines joined by newlines.
func (p *Page) Text() string {
	return strings.Join(p.Lines(), "\n")
}

// Contains reports whether any text line on the page contains s.
func (p *Page) Contains(s string) bool {
	for _, l := range p.Lines() {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// Document is the laid-out result of one build. It is not modified after the
// build returns; serialized bytes are computed once and cached.
type Document struct {
	Title    string
	Geometry Geometry
	Pages    []*Page

	backend Backend
	mu      sync.Mutex
	data    []byte
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns the 1-based page n, or nil when out of range.
func (d *Document) Page(n int) *Page {
	if n < 1 || n > len(d.Pages) {
		return nil
	}
	return d.Pages[n-1]
}

// Text returns all page text, pages separated by a form feed.
func (d *Document) Text() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\f")
}

// BackendName returns the name of the backend the document was drawn on.
func (d *Document) BackendName() string {
	if d.backend == nil {
		return ""
	}
	return d.backend.Name()
}

// Serialize returns the backend's output. A successful result is cached and
// returned by later calls.
func (d *Document) Serialize() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data != nil {
		return d.data, nil
	}
	data, err := d.backend.Serialize()
	if err != nil {
		return nil, err
	}
	d.data = data
	return data, nil
}

// PageManagerOption configures a PageManager.
type PageManagerOption func(*PageManager)

// WithContinuationPages lets Ensure open a new page when content would cross
// the bottom margin.
func WithContinuationPages(enabled bool) PageManagerOption {
	return func(pm *PageManager) {
		pm.continuation = enabled
	}
}

// PageManager owns the page sequence of one build. Drawing calls are recorded
// on the current page and forwarded to the backend.
type PageManager struct {
	geo          Geometry
	backend      Backend
	doc          *Document
	cursor       *Cursor
	style        *styler
	measurer     *Measurer
	font         Font
	textColor    Color
	fillColor    Color
	continuation bool
}

// NewPageManager creates a manager with no pages.
func NewPageManager(g Geometry, b Backend, opts ...PageManagerOption) *PageManager {
	st := &styler{backend: b}
	pm := &PageManager{
		geo:      g,
		backend:  b,
		doc:      &Document{Geometry: g, backend: b},
		cursor:   newCursor(g),
		style:    st,
		measurer: &Measurer{st: st},
		font:     Font{Size: 12},
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Geometry returns the page geometry.
func (pm *PageManager) Geometry() Geometry { return pm.geo }

// Cursor returns the layout cursor.
func (pm *PageManager) Cursor() *Cursor { return pm.cursor }

// Measurer returns the text measurer bound to this manager's backend.
func (pm *PageManager) Measurer() *Measurer { return pm.measurer }

// Font returns the current font.
func (pm *PageManager) Font() Font { return pm.font }

// Document returns the document being built.
func (pm *PageManager) Document() *Document { return pm.doc }

// NewPage appends a page, resets the cursor to the top margin and re-applies
// the current font and colors on the backend.
func (pm *PageManager) NewPage() *Page {
	p := &Page{Number: len(pm.doc.Pages) + 1}
	pm.doc.Pages = append(pm.doc.Pages, p)
	pm.cursor.moveTo(p.Number)
	pm.backend.NewPage()

	pm.style.invalidate()
	pm.style.apply(pm.font)
	pm.backend.SetTextColor(pm.textColor)
	pm.backend.SetFillColor(pm.fillColor)
	return p
}

// CurrentPage returns the last opened page, or nil before the first page.
func (pm *PageManager) CurrentPage() *Page {
	if len(pm.doc.Pages) == 0 {
		return nil
	}
	return pm.doc.Pages[len(pm.doc.Pages)-1]
}

func (pm *PageManager) record(c Command) {
	p := pm.CurrentPage()
	if p == nil {
		p = pm.NewPage()
	}
	p.Commands = append(p.Commands, c)
}

// SetFont sets the current font.
func (pm *PageManager) SetFont(size float64, style FontStyle) {
	f := Font{Size: size, Style: style}
	pm.font = f
	pm.record(Command{Kind: CmdFont, Font: f})
	pm.style.apply(f)
}

// SetTextColor sets the color used for text.
func (pm *PageManager) SetTextColor(c Color) {
	pm.textColor = c
	pm.record(Command{Kind: CmdTextColor, Color: c})
	pm.backend.SetTextColor(c)
}

// SetFillColor sets the color used for filled rectangles.
func (pm *PageManager) SetFillColor(c Color) {
	pm.fillColor = c
	pm.record(Command{Kind: CmdFillColor, Color: c})
	pm.backend.SetFillColor(c)
}

// Text draws lines with the first baseline at y.
func (pm *PageManager) Text(lines []string, x, y float64, align Align) {
	if len(lines) == 0 {
		return
	}
	cp := append([]string(nil), lines...)
	pm.record(Command{Kind: CmdText, Lines: cp, X: x, Y: y, Align: align, Font: pm.font})
	pm.backend.DrawText(cp, x, y, align)
}

// Rect draws a rectangle.
func (pm *PageManager) Rect(x, y, w, h float64, mode RectMode) {
	pm.record(Command{Kind: CmdRect, X: x, Y: y, W: w, H: h, Mode: mode})
	pm.backend.DrawRect(x, y, w, h, mode)
}

// Line draws a straight line.
func (pm *PageManager) Line(x1, y1, x2, y2 float64) {
	pm.record(Command{Kind: CmdLine, X: x1, Y: y1, X2: x2, Y2: y2})
	pm.backend.DrawLine(x1, y1, x2, y2)
}

// Wrap splits text to maxWidth in the current font.
func (pm *PageManager) Wrap(text string, maxWidth float64) ([]string, error) {
	return pm.measurer.Wrap(text, maxWidth, pm.font)
}

// LineHeight returns the line advance of the current font.
func (pm *PageManager) LineHeight() float64 {
	return pm.font.LineHeight()
}

// Continuation reports whether continuation pages are enabled.
func (pm *PageManager) Continuation() bool { return pm.continuation }

// Ensure makes room for a block of height h. When continuation pages are
// enabled and the block does not fit below the cursor, a new page is opened
// and Ensure reports true. A block taller than a whole page is placed on the
// current page if the cursor is already at the top.
func (pm *PageManager) Ensure(h float64) bool {
	if !pm.continuation {
		return false
	}
	if pm.cursor.Remaining() >= h || pm.cursor.Y() <= pm.geo.Margin {
		return false
	}
	pm.NewPage()
	return true
}
