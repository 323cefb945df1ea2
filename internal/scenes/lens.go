package scenes

import (
	"math/rand"

	"github.com/san-kum/framestream/internal/raster"
)

const DefaultLensRadius = 50

type lens struct {
	x, y   int
	vx, vy int
	radius int
}

// step advances the lens and reflects it off the canvas edges.
func (l *lens) step(width, height int) {
	l.x += l.vx
	l.y += l.vy

	if l.y-l.radius <= 0 {
		l.y = l.radius
		l.vy = -l.vy
	}
	if l.y+l.radius >= height {
		l.y = height - l.radius
		l.vy = -l.vy
	}
	if l.x-l.radius <= 0 {
		l.x = l.radius
		l.vx = -l.vx
	}
	if l.x+l.radius >= width {
		l.x = width - l.radius
		l.vx = -l.vx
	}
}

// Lens fills the canvas with random noise every frame and reveals it through
// bouncing circular lenses. Where lenses overlap, the overlap count picks the
// channels that survive.
type Lens struct {
	rng    *rand.Rand
	radius int
	lenses []lens
	mask   *raster.Mask
}

func NewLens(o Options) *Lens {
	return &Lens{
		rng:    o.rng(),
		radius: o.intParam("radius", DefaultLensRadius),
	}
}

func (s *Lens) Name() string { return "lens" }

func (s *Lens) Setup(c *raster.Canvas) error {
	mask, err := raster.NewMask(c.Width(), c.Height(), 0)
	if err != nil {
		return err
	}
	s.mask = mask

	r := max(s.radius, 1)
	s.lenses = s.lenses[:0]
	for x := 0; x < c.Width()/(2*r); x++ {
		for y := 0; y < c.Height()/(2*r); y++ {
			s.lenses = append(s.lenses, lens{
				x:      r + x*2*r,
				y:      r + y*2*r,
				vx:     x + 1,
				vy:     y + 1,
				radius: r,
			})
		}
	}
	return nil
}

func (s *Lens) Step(c *raster.Canvas, frame int) (bool, error) {
	s.mask.Fill(0)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			v := s.rng.Uint32()
			c.SetPixel(x, y, raster.RGB(uint8(v), uint8(v>>8), uint8(v>>16)))
		}
	}

	for i := range s.lenses {
		s.lenses[i].step(c.Width(), c.Height())
	}

	inc := func(v uint8) uint8 {
		if v == 255 {
			return v
		}
		return v + 1
	}
	for _, l := range s.lenses {
		rr := l.radius * l.radius
		for y := l.y - l.radius; y <= l.y+l.radius; y++ {
			for x := l.x - l.radius; x <= l.x+l.radius; x++ {
				dx, dy := x-l.x, y-l.y
				if dx*dx+dy*dy <= rr {
					s.mask.Update(x, y, inc)
				}
			}
		}
	}

	return true, c.ApplyMask(s.mask, lensFilter)
}

func lensFilter(count uint8, px raster.Color) raster.Color {
	switch count {
	case 0:
		return raster.Black
	case 1:
		return raster.RGB(px.R, 0, 0)
	case 2:
		return raster.RGB(0, px.G, 0)
	case 3:
		return raster.RGB(0, 0, px.B)
	default:
		return raster.RGB(px.R, px.G, px.B)
	}
}
