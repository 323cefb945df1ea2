package scenes

import "github.com/san-kum/framestream/internal/raster"

const overlayAlpha = 85

// Overlay composes three translucent rectangles (red on the left, blue on
// the right, green on top). The composition is static; it is redrawn every
// frame and is meant to run over a cleared background.
type Overlay struct {
	alpha uint8
}

func NewOverlay(o Options) *Overlay {
	a := o.intParam("alpha", overlayAlpha)
	return &Overlay{alpha: uint8(min(max(a, 0), 255))}
}

func (s *Overlay) Name() string { return "overlay" }

func (s *Overlay) Setup(c *raster.Canvas) error { return nil }

func (s *Overlay) Step(c *raster.Canvas, frame int) (bool, error) {
	w, h := c.Width(), c.Height()
	near, far := w*5/8, w*3/8
	c.FillRectSize(0, 0, near, h, raster.RGBA(255, 0, 0, s.alpha), true)
	c.FillRectSize(far, 0, near, h, raster.RGBA(0, 0, 255, s.alpha), true)
	c.FillRectSize(0, 0, w, h*5/8, raster.RGBA(0, 255, 0, s.alpha), true)
	return true, nil
}
