package contract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "Helvetica"

// newPDF creates a gofpdf document in points with no automatic flow: every position
// comes from the layout.
func newPDF(geo Geometry) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: geo.PageWidth, Ht: geo.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	return pdf
}

// PDFMeasurer measures text with the core Helvetica metrics gofpdf renders with.
// It is not safe for concurrent use; the generator creates one per document.
type PDFMeasurer struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
}

func NewPDFMeasurer() *PDFMeasurer {
	pdf := newPDF(A4())
	return &PDFMeasurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *PDFMeasurer) TextWidth(text string, style TextStyle) float64 {
	m.pdf.SetFont(fontFamily, style.fontStyle(), style.Size)
	return m.pdf.GetStringWidth(m.translate(text))
}

// PDFRenderer draws a laid-out Document with gofpdf. Output is deterministic: the
// creation date comes from the document and internal catalogs are sorted.
type PDFRenderer struct {
	geo Geometry
}

func NewPDFRenderer(geo Geometry) *PDFRenderer {
	return &PDFRenderer{geo: geo}
}

// Render writes doc as PDF bytes to w.
func (r *PDFRenderer) Render(doc *Document, w io.Writer) error {
	pdf := newPDF(r.geo)
	pdf.SetCatalogSort(true)

	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("rental-backoffice", false)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, b := range page.Blocks {
			switch b.Kind {
			case BlockRect:
				drawRect(pdf, b)
			case BlockLine:
				drawLine(pdf, b)
			case BlockText:
				drawText(pdf, tr, b)
			case BlockImage:
				drawImage(pdf, b)
			}
		}
		if pdf.Err() {
			return fmt.Errorf("%w: %v", ErrRender, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// RenderBytes is Render into memory.
func (r *PDFRenderer) RenderBytes(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRect(pdf *gofpdf.Fpdf, b Block) {
	style := ""
	if b.Fill != nil {
		pdf.SetFillColor(b.Fill.R, b.Fill.G, b.Fill.B)
		style += "F"
	}
	if b.Stroke != nil {
		pdf.SetDrawColor(b.Stroke.R, b.Stroke.G, b.Stroke.B)
		pdf.SetLineWidth(b.LineWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	pdf.Rect(b.X, b.Y, b.W, b.H, style)
}

func drawLine(pdf *gofpdf.Fpdf, b Block) {
	c := ColorBorder
	if b.Stroke != nil {
		c = *b.Stroke
	}
	pdf.SetDrawColor(c.R, c.G, c.B)
	pdf.SetLineWidth(b.LineWidth)
	pdf.Line(b.X, b.Y, b.X2, b.Y2)
}

func drawText(pdf *gofpdf.Fpdf, tr func(string) string, b Block) {
	s := b.Style
	pdf.SetFont(fontFamily, s.fontStyle(), s.Size)
	pdf.SetTextColor(s.Color.R, s.Color.G, s.Color.B)

	lh := s.LineHeight()
	align := string(s.Align)
	if align == "" || s.Align == AlignJustify {
		align = string(AlignLeft)
	}

	y := b.Y
	for _, line := range b.Lines {
		if line.Justify {
			drawJustified(pdf, tr, line.Text, b.X, y, b.W, lh)
		} else {
			pdf.SetXY(b.X, y)
			pdf.CellFormat(b.W, lh, tr(line.Text), "", 0, align+"M", false, 0, "")
		}
		y += lh
	}
}

// drawJustified spreads the words of one line evenly across width.
func drawJustified(pdf *gofpdf.Fpdf, tr func(string) string, text string, x, y, width, lh float64) {
	words := strings.Fields(text)
	if len(words) < 2 {
		pdf.SetXY(x, y)
		pdf.CellFormat(width, lh, tr(text), "", 0, "LM", false, 0, "")
		return
	}

	used := 0.0
	for _, w := range words {
		used += pdf.GetStringWidth(tr(w))
	}
	gap := (width - used) / float64(len(words)-1)

	cx := x
	for _, w := range words {
		ww := pdf.GetStringWidth(tr(w))
		pdf.SetXY(cx, y)
		pdf.CellFormat(ww, lh, tr(w), "", 0, "LM", false, 0, "")
		cx += ww + gap
	}
}

func drawImage(pdf *gofpdf.Fpdf, b Block) {
	if b.Image == nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(b.Image.Name, opts, bytes.NewReader(b.Image.Data))
	pdf.ImageOptions(b.Image.Name, b.X, b.Y, b.W, b.H, false, opts, 0, "")
}
