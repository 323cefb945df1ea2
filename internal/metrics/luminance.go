package metrics

import "github.com/san-kum/framestream/internal/raster"

// MeanLuma returns the mean Rec. 601 luma of every pixel in c, in [0, 255].
func MeanLuma(c *raster.Canvas) float64 {
	pix := c.Pixels()
	bpp := c.Format().BytesPerPixel()
	n := len(pix) / bpp
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(pix); i += bpp {
		sum += 0.299*float64(pix[i]) + 0.587*float64(pix[i+1]) + 0.114*float64(pix[i+2])
	}
	return sum / float64(n)
}

// Luminance averages the mean luma of every observed frame.
type Luminance struct {
	name    string
	total   float64
	last    float64
	samples int
}

func NewLuminance() *Luminance {
	return &Luminance{name: "luminance"}
}

func (l *Luminance) Name() string { return l.name }

func (l *Luminance) Observe(c *raster.Canvas, frame int) {
	l.last = MeanLuma(c)
	l.total += l.last
	l.samples++
}

func (l *Luminance) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.total / float64(l.samples)
}

// Last returns the mean luma of the most recent frame.
func (l *Luminance) Last() float64 { return l.last }

func (l *Luminance) Reset() {
	l.total = 0
	l.last = 0
	l.samples = 0
}
