package raster

import "fmt"

// Canvas is a fixed-size grid of pixels stored row-major, row 0 at the top.
type Canvas struct {
	width     int
	height    int
	format    Format
	bpp       int
	composite CompositeMode
	pix       []byte
}

// New creates a canvas of the given size filled with background.
func New(width, height int, background Color, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bpp := o.format.BytesPerPixel()
	c := &Canvas{
		width:     width,
		height:    height,
		format:    o.format,
		bpp:       bpp,
		composite: o.composite,
		pix:       make([]byte, width*height*bpp),
	}
	c.Clear(background)
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Format returns the pixel storage format chosen at creation.
func (c *Canvas) Format() Format { return c.format }

// Composite returns the alpha rule used by blending operations.
func (c *Canvas) Composite() CompositeMode { return c.composite }

// Stride returns the number of bytes per row.
func (c *Canvas) Stride() int { return c.width * c.bpp }

// Pixels returns the underlying pixel storage. The slice aliases the canvas;
// callers must treat it as read-only.
func (c *Canvas) Pixels() []byte { return c.pix }

// InBounds reports whether (x, y) addresses a pixel.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *Canvas) offset(x, y int) int {
	return (y*c.width + x) * c.bpp
}

// At returns the pixel at (x, y), or Transparent when out of bounds.
func (c *Canvas) At(x, y int) Color {
	if !c.InBounds(x, y) {
		return Transparent
	}
	return c.load(c.offset(x, y))
}

func (c *Canvas) load(i int) Color {
	p := c.pix[i : i+c.bpp : i+c.bpp]
	if c.bpp == 4 {
		return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return Color{R: p[0], G: p[1], B: p[2], A: 255}
}

func (c *Canvas) store(i int, col Color) {
	c.pix[i] = col.R
	c.pix[i+1] = col.G
	c.pix[i+2] = col.B
	if c.bpp == 4 {
		c.pix[i+3] = col.A
	}
}

func (c *Canvas) blendAt(i int, col Color) {
	switch col.A {
	case 0:
		return
	case 255:
		c.store(i, col)
	default:
		c.store(i, over(col, c.load(i), c.composite == CompositePreserveAlpha))
	}
}

func (c *Canvas) plot(x, y int, col Color, blend bool) {
	if !c.InBounds(x, y) {
		return
	}
	if blend {
		c.blendAt(c.offset(x, y), col)
	} else {
		c.store(c.offset(x, y), col)
	}
}

// SetPixel replaces the pixel at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) SetPixel(x, y int, col Color) {
	c.plot(x, y, col, false)
}

// BlendPixel composites col over the pixel at (x, y) using col's alpha.
// Out-of-bounds writes are ignored.
func (c *Canvas) BlendPixel(x, y int, col Color) {
	c.plot(x, y, col, true)
}

// Clear replaces every pixel with col.
func (c *Canvas) Clear(col Color) {
	c.store(0, col)
	// Doubling copy: each pass copies the filled prefix onto the rest.
	for filled := c.bpp; filled < len(c.pix); filled *= 2 {
		copy(c.pix[filled:], c.pix[:filled])
	}
}

// Fill blends col over every pixel. With an opaque colour it is equivalent
// to Clear; with a faint one it fades the previous frame towards col.
func (c *Canvas) Fill(col Color) {
	if col.Opaque() {
		c.Clear(col)
		return
	}
	if col.A == 0 {
		return
	}
	for i := 0; i < len(c.pix); i += c.bpp {
		c.blendAt(i, col)
	}
}

// span writes the horizontal run [x0, x1] on row y, clipped to the canvas.
func (c *Canvas) span(x0, x1, y int, col Color, blend bool) {
	if y < 0 || y >= c.height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, c.width-1)
	if x0 > x1 {
		return
	}

	start, end := c.offset(x0, y), c.offset(x1, y)
	if blend && !col.Opaque() {
		for i := start; i <= end; i += c.bpp {
			c.blendAt(i, col)
		}
		return
	}
	for i := start; i <= end; i += c.bpp {
		c.store(i, col)
	}
}
