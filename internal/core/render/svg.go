package render

import (
	"fmt"
	"strings"
)

// Point is a canvas-space coordinate pair.
type Point struct {
	X, Y float64
}

// pathProps is the fill/stroke attribute set shared by Circle, Polyline, and
// Text; ported from the corpus's PathProps mixin as a plain embedded struct
// since Go has no template-mixin equivalent.
type pathProps struct {
	fillColor      Color
	strokeColor    Color
	strokeWidth    float64
	hasStrokeWidth bool
	strokeLineCap  string
	strokeLineJoin string
}

func (p *pathProps) setFillColor(c Color)   { p.fillColor = c }
func (p *pathProps) setStrokeColor(c Color) { p.strokeColor = c }
func (p *pathProps) setStrokeWidth(w float64) {
	p.strokeWidth = w
	p.hasStrokeWidth = true
}
func (p *pathProps) setStrokeLineCap(v string)  { p.strokeLineCap = v }
func (p *pathProps) setStrokeLineJoin(v string) { p.strokeLineJoin = v }

func (p *pathProps) renderAttrs(b *strings.Builder) {
	if p.fillColor != nil {
		fmt.Fprintf(b, " fill=\"%s\"", p.fillColor.attrValue())
	}
	if p.strokeColor != nil {
		fmt.Fprintf(b, " stroke=\"%s\"", p.strokeColor.attrValue())
	}
	if p.hasStrokeWidth {
		fmt.Fprintf(b, " stroke-width=\"%v\"", p.strokeWidth)
	}
	if p.strokeLineCap != "" {
		fmt.Fprintf(b, " stroke-linecap=\"%s\"", p.strokeLineCap)
	}
	if p.strokeLineJoin != "" {
		fmt.Fprintf(b, " stroke-linejoin=\"%s\"", p.strokeLineJoin)
	}
}

// Circle is an SVG <circle>.
type Circle struct {
	pathProps
	center Point
	radius float64
}

func NewCircle() *Circle { return &Circle{radius: 1} }

func (c *Circle) SetCenter(p Point) *Circle          { c.center = p; return c }
func (c *Circle) SetRadius(r float64) *Circle        { c.radius = r; return c }
func (c *Circle) SetFillColor(col Color) *Circle     { c.setFillColor(col); return c }
func (c *Circle) SetStrokeColor(col Color) *Circle   { c.setStrokeColor(col); return c }
func (c *Circle) SetStrokeWidth(w float64) *Circle   { c.setStrokeWidth(w); return c }
func (c *Circle) SetStrokeLineCap(v string) *Circle  { c.setStrokeLineCap(v); return c }
func (c *Circle) SetStrokeLineJoin(v string) *Circle { c.setStrokeLineJoin(v); return c }

func (c *Circle) render(b *strings.Builder) {
	fmt.Fprintf(b, "<circle cx=\"%v\" cy=\"%v\" r=\"%v\"", c.center.X, c.center.Y, c.radius)
	c.renderAttrs(b)
	b.WriteString("/>")
}

// Polyline is an SVG <polyline>.
type Polyline struct {
	pathProps
	points []Point
}

func NewPolyline() *Polyline { return &Polyline{} }

func (p *Polyline) AddPoint(pt Point) *Polyline          { p.points = append(p.points, pt); return p }
func (p *Polyline) SetFillColor(col Color) *Polyline     { p.setFillColor(col); return p }
func (p *Polyline) SetStrokeColor(col Color) *Polyline   { p.setStrokeColor(col); return p }
func (p *Polyline) SetStrokeWidth(w float64) *Polyline   { p.setStrokeWidth(w); return p }
func (p *Polyline) SetStrokeLineCap(v string) *Polyline  { p.setStrokeLineCap(v); return p }
func (p *Polyline) SetStrokeLineJoin(v string) *Polyline { p.setStrokeLineJoin(v); return p }

func (p *Polyline) render(b *strings.Builder) {
	b.WriteString("<polyline points=\"")
	for i, pt := range p.points {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%v,%v", pt.X, pt.Y)
	}
	b.WriteString("\"")
	p.renderAttrs(b)
	b.WriteString("/>")
}

// Text is an SVG <text>.
type Text struct {
	pathProps
	pos        Point
	offset     Point
	fontSize   int
	fontFamily string
	fontWeight string
	data       string
}

func NewText() *Text { return &Text{fontSize: 1} }

func (t *Text) SetPosition(p Point) *Text        { t.pos = p; return t }
func (t *Text) SetOffset(p Point) *Text          { t.offset = p; return t }
func (t *Text) SetFontSize(size int) *Text       { t.fontSize = size; return t }
func (t *Text) SetFontFamily(f string) *Text     { t.fontFamily = f; return t }
func (t *Text) SetFontWeight(w string) *Text     { t.fontWeight = w; return t }
func (t *Text) SetData(data string) *Text        { t.data = data; return t }
func (t *Text) SetFillColor(col Color) *Text     { t.setFillColor(col); return t }
func (t *Text) SetStrokeColor(col Color) *Text   { t.setStrokeColor(col); return t }
func (t *Text) SetStrokeWidth(w float64) *Text   { t.setStrokeWidth(w); return t }
func (t *Text) SetStrokeLineCap(v string) *Text  { t.setStrokeLineCap(v); return t }
func (t *Text) SetStrokeLineJoin(v string) *Text { t.setStrokeLineJoin(v); return t }

// clone returns a deep-enough copy for the underlayer/foreground pairing
// pattern, where an underlayer text starts as a copy of its foreground
// before the caller overrides fill/stroke attributes on each independently.
func (t *Text) clone() *Text {
	copied := *t
	return &copied
}

func (t *Text) render(b *strings.Builder) {
	fmt.Fprintf(b, "<text x=\"%v\" y=\"%v\" dx=\"%v\" dy=\"%v\" font-size=\"%d\"",
		t.pos.X, t.pos.Y, t.offset.X, t.offset.Y, t.fontSize)
	if t.fontFamily != "" {
		fmt.Fprintf(b, " font-family=\"%s\"", t.fontFamily)
	}
	if t.fontWeight != "" {
		fmt.Fprintf(b, " font-weight=\"%s\"", t.fontWeight)
	}
	t.renderAttrs(b)
	b.WriteString(">")
	b.WriteString(escapeText(t.data))
	b.WriteString("</text>")
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// object is anything Document can hold and render.
type object interface {
	render(b *strings.Builder)
}

// Document is an ordered collection of SVG objects with a single text
// rendering entry point.
type Document struct {
	objects []object
}

// NewDocument returns an empty document.
func NewDocument() *Document { return &Document{} }

// Add appends a Circle, Polyline, or Text to the document.
func (d *Document) Add(obj object) { d.objects = append(d.objects, obj) }

// Render writes the full SVG document, header and footer included, as a
// UTF-8 string.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" ?>`)
	b.WriteString("\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`)
	b.WriteString("\n")
	for _, obj := range d.objects {
		obj.render(&b)
		b.WriteString("\n")
	}
	b.WriteString("</svg>")
	return b.String()
}
