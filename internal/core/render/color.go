package render

import "fmt"

// Color is a tagged union over the four SVG color forms this renderer ever
// emits: none, a named CSS color, RGB, and RGBA. Each variant knows how to
// print its own attribute text; callers switch on the concrete type only
// when constructing settings, never when rendering.
type Color interface {
	attrValue() string
}

// None renders as the literal "none" fill/stroke value.
type None struct{}

// Named is a CSS color keyword or hex string, e.g. "white" or "#ff0000".
type Named string

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// RGBA is RGB plus a floating-point opacity in [0, 1].
type RGBA struct {
	R, G, B uint8
	Opacity float64
}

func (None) attrValue() string { return "none" }

func (n Named) attrValue() string { return string(n) }

func (c RGB) attrValue() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func (c RGBA) attrValue() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%v)", c.R, c.G, c.B, c.Opacity)
}
