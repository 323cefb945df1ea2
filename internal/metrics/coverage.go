package metrics

import "github.com/san-kum/framestream/internal/raster"

// Coverage is the fraction of pixels that differ from the background,
// averaged over all observed frames. Alpha is ignored.
type Coverage struct {
	name       string
	background raster.Color
	total      float64
	samples    int
}

func NewCoverage(background raster.Color) *Coverage {
	return &Coverage{
		name:       "coverage",
		background: background,
	}
}

func (m *Coverage) Name() string { return m.name }

func (m *Coverage) Observe(c *raster.Canvas, frame int) {
	pix := c.Pixels()
	bpp := c.Format().BytesPerPixel()
	n := len(pix) / bpp
	if n == 0 {
		return
	}

	bg := m.background
	drawn := 0
	for i := 0; i < len(pix); i += bpp {
		if pix[i] != bg.R || pix[i+1] != bg.G || pix[i+2] != bg.B {
			drawn++
		}
	}
	m.total += float64(drawn) / float64(n)
	m.samples++
}

func (m *Coverage) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Coverage) Reset() {
	m.total = 0
	m.samples = 0
}
