// Package canvas holds the continuous, fixed-width drawing surface an
// invoice is laid out on, and the pagination of that surface onto pages.
//
// Coordinates are CSS pixels (96 per inch) measured from the top-left
// corner. The surface grows downwards as content is added.
package canvas

import "github.com/invoicekit/invoicekit/internal/domain"

// A4WidthPx is the width of an A4 page at 96 dpi.
const A4WidthPx = 794

// Kind identifies a drawing operation.
type Kind int

const (
	KindText Kind = iota
	KindLine
	KindRect
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Color is an opaque RGB color.
type Color struct{ R, G, B uint8 }

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// FontStyle is a combination of "B" and "I", or empty for regular.
type FontStyle string

const (
	Regular    FontStyle = ""
	Bold       FontStyle = "B"
	Italic     FontStyle = "I"
	BoldItalic FontStyle = "BI"
)

// Font selects a typeface. Size is in points.
type Font struct {
	Family string
	Style  FontStyle
	Size   float64
}

// Align is horizontal text alignment within an op's box.
type Align int

const (
	Left Align = iota
	Center
	Right
)

// Op is one drawing operation. For text, (X, Y) is the top-left of the
// line box and W is the box width used for alignment. For lines, (X, Y)
// and (X2, Y2) are the end points.
type Op struct {
	Kind      Kind
	X, Y      float64
	W, H      float64
	X2, Y2    float64
	Text      string
	Font      Font
	Color     Color
	Align     Align
	Fill      bool
	LineWidth float64
	Image     *domain.Image
}

// Bottom is the lowest y coordinate the op touches.
func (o Op) Bottom() float64 {
	switch o.Kind {
	case KindLine:
		return max(o.Y, o.Y2)
	default:
		return o.Y + o.H
	}
}

// Canvas is a display list of operations on a surface of fixed width.
type Canvas struct {
	width  float64
	height float64
	ops    []Op
}

// New creates an empty canvas of the given width in pixels.
func New(widthPx float64) *Canvas {
	return &Canvas{width: widthPx}
}

// Width returns the fixed surface width.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the surface height: the lowest point drawn, or the
// height reserved with Extend, whichever is larger.
func (c *Canvas) Height() float64 { return c.height }

// Ops returns the display list in drawing order.
func (c *Canvas) Ops() []Op { return c.ops }

// Extend grows the surface to at least h pixels.
func (c *Canvas) Extend(h float64) {
	c.height = max(c.height, h)
}

// Add appends op to the display list.
func (c *Canvas) Add(op Op) {
	c.ops = append(c.ops, op)
	c.Extend(op.Bottom())
}

// Text draws a single line of text in a box of width w and height h.
func (c *Canvas) Text(x, y, w, h float64, text string, font Font, color Color, align Align) {
	c.Add(Op{Kind: KindText, X: x, Y: y, W: w, H: h, Text: text, Font: font, Color: color, Align: align})
}

// Line draws a straight line.
func (c *Canvas) Line(x1, y1, x2, y2, width float64, color Color) {
	c.Add(Op{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width, Color: color})
}

// Rect draws a rectangle, filled or stroked.
func (c *Canvas) Rect(x, y, w, h float64, color Color, fill bool) {
	c.Add(Op{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: color, Fill: fill, LineWidth: 1})
}

// Image draws img scaled into the given box.
func (c *Canvas) Image(x, y, w, h float64, img *domain.Image) {
	if img == nil {
		return
	}
	c.Add(Op{Kind: KindImage, X: x, Y: y, W: w, H: h, Image: img})
}
