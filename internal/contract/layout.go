package contract

import (
	"math"
	"strings"
	"time"
)

// Color is an RGB triple in 0..255.
type Color struct {
	R, G, B int
}

var (
	ColorPrimary      = Color{26, 77, 46}
	ColorPrimaryLight = Color{74, 124, 89}
	ColorText         = Color{44, 62, 80}
	ColorTextLight    = Color{108, 117, 125}
	ColorBorder       = Color{222, 226, 230}
	ColorWhite        = Color{255, 255, 255}
)

type Align string

const (
	AlignLeft    Align = "L"
	AlignCenter  Align = "C"
	AlignRight   Align = "R"
	AlignJustify Align = "J"
)

// TextStyle describes how a text block is drawn and measured.
type TextStyle struct {
	Size   float64
	Bold   bool
	Italic bool
	Color  Color
	Align  Align
}

// LineHeight is the vertical advance of one wrapped line.
func (s TextStyle) LineHeight() float64 {
	return s.Size * 1.25
}

func (s TextStyle) WithAlign(a Align) TextStyle {
	s.Align = a
	return s
}

func (s TextStyle) fontStyle() string {
	switch {
	case s.Bold && s.Italic:
		return "BI"
	case s.Bold:
		return "B"
	case s.Italic:
		return "I"
	default:
		return ""
	}
}

var (
	StyleHeaderCompany = TextStyle{Size: 12, Bold: true, Color: ColorWhite}
	StyleHeaderSmall   = TextStyle{Size: 7, Color: ColorWhite}
	StyleBoxTitle      = TextStyle{Size: 9, Bold: true, Color: ColorWhite, Align: AlignCenter}
	StyleSectionTitle  = TextStyle{Size: 10, Bold: true, Color: ColorPrimary}
	StyleLabel         = TextStyle{Size: 8, Bold: true, Color: ColorTextLight}
	StyleValue         = TextStyle{Size: 8, Color: ColorText}
	StyleTermsTitle    = TextStyle{Size: 12, Bold: true, Color: ColorPrimary, Align: AlignCenter}
	StyleSmall         = TextStyle{Size: 8, Color: ColorTextLight}
	StyleTiny          = TextStyle{Size: 7, Color: ColorTextLight}
)

// Geometry is the fixed page size and margins, in points.
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
}

// A4 is a portrait A4 page with 40pt margins on every side.
func A4() Geometry {
	return Geometry{
		PageWidth:    595.28,
		PageHeight:   841.89,
		MarginLeft:   40,
		MarginTop:    40,
		MarginRight:  40,
		MarginBottom: 40,
	}
}

func (g Geometry) ContentWidth() float64 { return g.PageWidth - g.MarginLeft - g.MarginRight }
func (g Geometry) Bottom() float64       { return g.PageHeight - g.MarginBottom }
func (g Geometry) Right() float64        { return g.PageWidth - g.MarginRight }

// Measurer returns the rendered width of a single line of text.
type Measurer interface {
	TextWidth(text string, style TextStyle) float64
}

type BlockKind int

const (
	BlockText BlockKind = iota
	BlockRect
	BlockLine
	BlockImage
)

// TextLine is one wrapped line. Justified lines are stretched to the block width.
type TextLine struct {
	Text    string
	Justify bool
}

// Block is a positioned drawing instruction. Which fields are meaningful depends on Kind:
// text uses Lines and Style, rects use Fill/Stroke, lines run from (X,Y) to (X2,Y2),
// images use Image scaled into W x H.
type Block struct {
	Kind      BlockKind
	Tag       string
	X, Y      float64
	W, H      float64
	X2, Y2    float64
	Lines     []TextLine
	Style     TextStyle
	Fill      *Color
	Stroke    *Color
	LineWidth float64
	Image     *Image
}

type Page struct {
	Blocks []Block
}

// Document is the backend-independent result of a layout pass.
type Document struct {
	Title     string
	Author    string
	CreatedAt time.Time
	Pages     []*Page
}

// Text returns every text line of the document, one per line, in drawing order.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind != BlockText {
				continue
			}
			for _, l := range b.Lines {
				sb.WriteString(l.Text)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Tagged returns all blocks whose tag equals tag, across pages.
func (d *Document) Tagged(tag string) []Block {
	var out []Block
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Tag == tag {
				out = append(out, b)
			}
		}
	}
	return out
}

// Rows counts the distinct (page, y) positions of blocks tagged tag.
func (d *Document) Rows(tag string) int {
	type pos struct {
		page int
		y    float64
	}
	seen := map[pos]bool{}
	for i, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Tag == tag {
				seen[pos{i, b.Y}] = true
			}
		}
	}
	return len(seen)
}

// PageOf returns the zero-based index of the first page holding a block with tag, or -1.
func (d *Document) PageOf(tag string) int {
	for i, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Tag == tag {
				return i
			}
		}
	}
	return -1
}

// Layout tracks the current page and lays blocks out on it. Positions are explicit:
// every placement takes a y and returns the y right below what it drew, moving to a new
// page first when the block does not fit.
type Layout struct {
	geo     Geometry
	measure Measurer
	doc     *Document
	page    *Page
	tag     string
}

func NewLayout(geo Geometry, measure Measurer) *Layout {
	l := &Layout{
		geo:     geo,
		measure: measure,
		doc:     &Document{},
	}
	l.StartNewPage()
	return l
}

func (l *Layout) Document() *Document { return l.doc }
func (l *Layout) Geometry() Geometry  { return l.geo }
func (l *Layout) Top() float64        { return l.geo.MarginTop }
func (l *Layout) Bottom() float64     { return l.geo.Bottom() }
func (l *Layout) Left() float64       { return l.geo.MarginLeft }
func (l *Layout) Right() float64      { return l.geo.Right() }
func (l *Layout) Width() float64      { return l.geo.ContentWidth() }
func (l *Layout) PageCount() int      { return len(l.doc.Pages) }

// SetTag labels every block placed from now on.
func (l *Layout) SetTag(tag string) {
	l.tag = tag
}

// StartNewPage begins a page and returns the top margin.
func (l *Layout) StartNewPage() float64 {
	l.page = &Page{}
	l.doc.Pages = append(l.doc.Pages, l.page)
	return l.geo.MarginTop
}

// Fits reports whether h points starting at y stay above the bottom margin.
func (l *Layout) Fits(y, h float64) bool {
	return y+h <= l.geo.Bottom()+0.001
}

// Reserve returns y when h fits on the current page; otherwise it starts a new page and
// returns its top. Content taller than a page is placed at the top anyway.
func (l *Layout) Reserve(y, h float64) float64 {
	if l.Fits(y, h) {
		return y
	}
	return l.StartNewPage()
}

func (l *Layout) add(b Block) {
	if b.Tag == "" {
		b.Tag = l.tag
	}
	l.page.Blocks = append(l.page.Blocks, b)
}

// Wrap splits text into lines no wider than width. Explicit newlines start a new
// paragraph; for justified styles every line but the last of a paragraph is stretched.
// A word wider than width is broken between runes.
func (l *Layout) Wrap(text string, width float64, style TextStyle) []TextLine {
	var out []TextLine
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		start := len(out)
		current := ""
		for _, w := range words {
			candidate := w
			if current != "" {
				candidate = current + " " + w
			}
			if l.measure.TextWidth(candidate, style) <= width {
				current = candidate
				continue
			}
			if current != "" {
				out = append(out, TextLine{Text: current})
			}
			pieces := l.splitWord(w, width, style)
			for _, p := range pieces[:len(pieces)-1] {
				out = append(out, TextLine{Text: p})
			}
			current = pieces[len(pieces)-1]
		}
		out = append(out, TextLine{Text: current})

		if style.Align == AlignJustify {
			for i := start; i < len(out)-1; i++ {
				out[i].Justify = true
			}
		}
	}
	return out
}

// splitWord cuts word into pieces no wider than width. Every piece holds at least one
// rune, so a column narrower than a single glyph still makes progress.
func (l *Layout) splitWord(word string, width float64, style TextStyle) []string {
	if l.measure.TextWidth(word, style) <= width {
		return []string{word}
	}
	var pieces []string
	runes := []rune(word)
	for len(runes) > 0 {
		n := 1
		for n < len(runes) && l.measure.TextWidth(string(runes[:n+1]), style) <= width {
			n++
		}
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return pieces
}

// TextHeight is the height PlaceText would use for text, ignoring page breaks.
func (l *Layout) TextHeight(text string, width float64, style TextStyle) float64 {
	return float64(len(l.Wrap(text, width, style))) * style.LineHeight()
}

// PlaceText wraps text within width at (x, y) and returns the y below it. Lines that do
// not fit continue at the top of the next page.
func (l *Layout) PlaceText(text string, x, y, width float64, style TextStyle) float64 {
	lines := l.Wrap(text, width, style)
	lh := style.LineHeight()

	for len(lines) > 0 {
		n := int(math.Floor((l.geo.Bottom() - y + 0.001) / lh))
		if n <= 0 {
			y = l.StartNewPage()
			continue
		}
		if n > len(lines) {
			n = len(lines)
		}

		l.add(Block{
			Kind:  BlockText,
			X:     x,
			Y:     y,
			W:     width,
			H:     float64(n) * lh,
			Lines: lines[:n],
			Style: style,
		})
		y += float64(n) * lh
		lines = lines[n:]

		if len(lines) > 0 {
			y = l.StartNewPage()
		}
	}
	return y
}

// PlaceLabelValue draws a bold "label:" in labelWidth followed by the value wrapped in
// the rest of width. Empty values render as Placeholder.
func (l *Layout) PlaceLabelValue(label, value string, x, y, labelWidth, width float64) float64 {
	if strings.TrimSpace(value) == "" {
		value = Placeholder
	}

	h := l.LabelValueHeight(value, labelWidth, width)
	y = l.Reserve(y, h)

	l.PlaceText(label+":", x, y, labelWidth, StyleLabel)
	end := l.PlaceText(value, x+labelWidth+labelGap, y, width-labelWidth-labelGap, StyleValue)
	return MaxY(end, y+StyleValue.LineHeight())
}

const labelGap = 6

// LabelValueHeight is the height PlaceLabelValue uses for value.
func (l *Layout) LabelValueHeight(value string, labelWidth, width float64) float64 {
	if strings.TrimSpace(value) == "" {
		value = Placeholder
	}
	h := l.TextHeight(value, width-labelWidth-labelGap, StyleValue)
	return math.Max(h, StyleValue.LineHeight())
}

// PlaceImage draws img scaled to fit maxWidth x maxHeight with its aspect ratio kept.
// A nil image is skipped and y is returned unchanged.
func (l *Layout) PlaceImage(img *Image, x, y, maxWidth, maxHeight float64) float64 {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return y
	}

	w, h := FitSize(float64(img.Width), float64(img.Height), maxWidth, maxHeight)
	y = l.Reserve(y, h)
	l.add(Block{
		Kind:  BlockImage,
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
		Image: img,
	})
	return y + h
}

// FitSize scales w x h to the largest size inside maxW x maxH with the same ratio.
func FitSize(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(maxW/w, maxH/h)
	return w * scale, h * scale
}

// DrawRect adds a rectangle. A nil fill draws an outline only.
func (l *Layout) DrawRect(x, y, w, h float64, fill, stroke *Color) {
	l.add(Block{
		Kind:      BlockRect,
		X:         x,
		Y:         y,
		W:         w,
		H:         h,
		Fill:      fill,
		Stroke:    stroke,
		LineWidth: 0.5,
	})
}

func (l *Layout) DrawLine(x1, y1, x2, y2 float64, c Color, width float64) {
	l.add(Block{
		Kind:      BlockLine,
		X:         x1,
		Y:         y1,
		X2:        x2,
		Y2:        y2,
		Stroke:    &c,
		LineWidth: width,
	})
}

const (
	signatureWidth = 220
	signatureSpace = 20
)

// DrawSignatureLine draws a right-aligned rule with a centered caption below y.
func (l *Layout) DrawSignatureLine(label string, y float64) float64 {
	h := signatureSpace + 4 + StyleTiny.LineHeight()
	y = l.Reserve(y, h)

	x := l.Right() - signatureWidth
	lineY := y + signatureSpace
	l.DrawLine(x, lineY, x+signatureWidth, lineY, ColorBorder, 0.5)
	return l.PlaceText(label, x, lineY+4, signatureWidth, StyleTiny.WithAlign(AlignCenter))
}

// MaxY merges independently advanced columns back into one flow.
func MaxY(ys ...float64) float64 {
	m := math.Inf(-1)
	for _, y := range ys {
		if y > m {
			m = y
		}
	}
	return m
}
