package backend

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/r3d91ll/scriptpdf/pkg/layout"
)

// PDFInfo describes the gofpdf backend.
var PDFInfo = Info{
	Name:        "pdf",
	ContentType: "application/pdf",
	Extension:   ".pdf",
	Description: "PDF document",
}

// PDFOptions configures document-level PDF settings.
type PDFOptions struct {
	// FontFamily is one of the PDF core fonts.
	// Default: "Helvetica"
	FontFamily string

	// Title, Author and Creator are written to the document info dictionary.
	Title   string
	Author  string
	Creator string

	// Compress enables stream compression.
	Compress bool

	// CreationDate pins the info dictionary date. Zero uses the current time.
	CreationDate time.Time
}

// PDF renders onto a gofpdf document using the core fonts. Text is encoded
// to Windows-1252 for the core fonts; runes outside it are drawn as '?'.
type PDF struct {
	pdf    *gofpdf.Fpdf
	geo    layout.Geometry
	family string
	size   float64
	data   []byte
}

// NewPDFFactory returns a factory producing PDF backends with opts.
func NewPDFFactory(opts PDFOptions) layout.BackendFactory {
	return func(g layout.Geometry) layout.Backend {
		return NewPDF(g, opts)
	}
}

// NewPDF creates a PDF backend for the given geometry.
func NewPDF(g layout.Geometry, opts PDFOptions) *PDF {
	family := opts.FontFamily
	if family == "" {
		family = "Helvetica"
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(opts.Compress)
	pdf.SetCatalogSort(true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
	}
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.SetFont(family, "", 12)

	return &PDF{pdf: pdf, geo: g, family: family, size: 12}
}

// Name implements layout.Backend.
func (p *PDF) Name() string { return PDFInfo.Name }

// NewPage implements layout.Backend.
func (p *PDF) NewPage() {
	p.pdf.AddPage()
}

// SetFontSize implements layout.Backend.
func (p *PDF) SetFontSize(size float64) {
	p.size = size
	p.pdf.SetFontSize(size)
}

// SetFontStyle implements layout.Backend.
func (p *PDF) SetFontStyle(style layout.FontStyle) {
	p.pdf.SetFontStyle(pdfStyle(style))
}

// SetTextColor implements layout.Backend.
func (p *PDF) SetTextColor(c layout.Color) {
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

// SetFillColor implements layout.Backend.
func (p *PDF) SetFillColor(c layout.Color) {
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

// DrawText implements layout.Backend.
func (p *PDF) DrawText(lines []string, x, y float64, align layout.Align) {
	lh := layout.LineHeight(p.size)
	for i, line := range lines {
		enc := toCP1252(line)
		w := p.pdf.GetStringWidth(enc)
		p.pdf.Text(align.AlignedX(x, w), y+float64(i)*lh, enc)
	}
}

// DrawRect implements layout.Backend.
func (p *PDF) DrawRect(x, y, w, h float64, mode layout.RectMode) {
	p.pdf.Rect(x, y, w, h, rectStyle(mode))
}

// DrawLine implements layout.Backend.
func (p *PDF) DrawLine(x1, y1, x2, y2 float64) {
	p.pdf.Line(x1, y1, x2, y2)
}

// MeasureWrap implements layout.Backend using the core font width tables.
func (p *PDF) MeasureWrap(text string, maxWidth float64) []string {
	return layout.WrapWords(text, maxWidth, func(s string) float64 {
		return p.pdf.GetStringWidth(toCP1252(s))
	})
}

// Serialize writes the PDF. The document is closed by the first call; later
// calls return the same bytes.
func (p *PDF) Serialize() ([]byte, error) {
	if p.data != nil {
		return p.data, nil
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, err
	}
	p.data = buf.Bytes()
	return p.data, nil
}

// Err implements layout.Backend.
func (p *PDF) Err() error {
	if p.pdf.Err() {
		return p.pdf.Error()
	}
	return nil
}

func pdfStyle(s layout.FontStyle) string {
	switch s {
	case layout.StyleBold:
		return "B"
	case layout.StyleItalic:
		return "I"
	case layout.StyleBoldItalic:
		return "BI"
	default:
		return ""
	}
}

func rectStyle(m layout.RectMode) string {
	switch m {
	case layout.RectFill:
		return "F"
	case layout.RectFillStroke:
		return "FD"
	default:
		return "D"
	}
}

func toCP1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
