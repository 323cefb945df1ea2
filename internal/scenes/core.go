package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/framestream/internal/raster"
)

// Core geometry is laid out for an 800x800 canvas and scaled to the actual
// canvas size at setup.
const (
	coreLayout = 800.0

	coreMaxSize    = 250
	coreMinEnergy  = 0
	coreMaxEnergy  = 175
	coreBleedRate  = 4
	coreChargeRate = 10
	haloMaxSize    = 30
	haloMinSize    = 10
	haloJitter     = 5

	accumulatorCount   = 10
	accumulatorRadius  = 300.0
	accumulatorSize    = 35
	accumulatorRate    = 200.0
	accumulatorHeat    = 25
	accumulatorCool    = 1
	accumulatorMinHeat = 50
)

var (
	coreBolt     = raster.White
	coreFill     = raster.RGBA(255, 0, 255, 120)
	coreHalo     = raster.RGBA(255, 255, 0, 200)
	coreCascade  = raster.RGBA(0, 0, 0, 3)
	CoreFadeRate = raster.RGBA(0, 0, 0, 15)
)

// Core charges a central disc until it is saturated, then bleeds the energy
// as bolts into one of the orbiting accumulators. Accumulators that are still
// hot stream their heat off the top of the canvas.
//
// The scene does not clear between frames; it is meant to run with a fading
// trail of CoreFadeRate.
type Core struct {
	rng *rand.Rand

	scale  float64
	cx, cy int

	energy   int
	bleeding bool
	jitter   int
	target   int

	offset float64
	heat   [accumulatorCount]uint8
	base   [accumulatorCount]float64
}

func NewCore(o Options) *Core {
	return &Core{rng: o.rng()}
}

func (s *Core) Name() string { return "core" }

func (s *Core) Setup(c *raster.Canvas) error {
	s.scale = float64(min(c.Width(), c.Height())) / coreLayout
	s.cx, s.cy = c.Width()/2, c.Height()/2
	s.energy, s.bleeding, s.jitter, s.target, s.offset = 0, false, 0, 0, 0
	s.heat = [accumulatorCount]uint8{}
	for i := range s.base {
		s.base[i] = float64(i) * 2 * math.Pi / accumulatorCount
	}
	return nil
}

func (s *Core) px(v int) int {
	return int(float64(v) * s.scale)
}

func (s *Core) accumulator(i int) (int, int) {
	angle := s.base[i] + s.offset
	r := accumulatorRadius * s.scale
	return int(r*math.Cos(angle)) + s.cx, int(r*math.Sin(angle)) + s.cy
}

func (s *Core) Step(c *raster.Canvas, frame int) (bool, error) {
	if s.bleeding {
		s.energy = max(s.energy-coreBleedRate, coreMinEnergy)
	} else {
		s.energy = min(s.energy+s.rng.Intn(coreChargeRate), coreMaxEnergy)
	}

	s.offset += 2 * math.Pi / accumulatorRate
	if s.offset > 2*math.Pi {
		s.offset -= 2 * math.Pi
	}

	s.jitter += s.rng.Intn(2*haloJitter-1) - (haloJitter - 1)
	s.jitter = min(max(s.jitter, haloMinSize), haloMaxSize)

	radius := s.px(coreMaxSize - s.energy)
	jitter := s.px(s.jitter)
	size := s.px(accumulatorSize)
	half := size / 2

	for i := range s.heat {
		x, y := s.accumulator(i)
		if s.bleeding && i == s.target {
			c.DrawLine(s.cx, s.cy, x, y, coreBolt, true)
			c.DrawLine(s.cx, s.cy, x-half, y-half, coreBolt, true)
			c.DrawLine(s.cx, s.cy, x+half, y-half, coreBolt, true)
			c.DrawLine(s.cx, s.cy, x-half, y+half, coreBolt, true)
			c.DrawLine(s.cx, s.cy, x+half, y+half, coreBolt, true)

			if 255-s.heat[i] >= accumulatorHeat {
				s.heat[i] += accumulatorHeat
			} else {
				s.heat[i] = 255
			}
		} else if s.heat[i] >= accumulatorCool {
			s.heat[i] -= accumulatorCool
		}
		c.FillCircle(x, y, size, raster.RGB(0, s.heat[i], s.heat[i]), true)
	}

	c.FillCircle(s.cx, s.cy, radius+jitter, coreHalo, true)

	top := -s.px(100)
	for i := range s.heat {
		if (s.bleeding && i == s.target) || s.heat[i] < accumulatorMinHeat {
			continue
		}
		x, y := s.accumulator(i)
		col := raster.RGB(0, s.heat[i], s.heat[i])
		c.DrawLine(x, y, s.cx, top, col, true)
		c.DrawLine(x-half, y-half, s.cx, top, col, true)
		c.DrawLine(x+half, y-half, s.cx, top, col, true)
		c.DrawLine(x-half, y+half, s.cx, top, col, true)
		c.DrawLine(x+half, y+half, s.cx, top, col, true)
	}

	c.FillCircle(s.cx, s.cy, radius, coreFill, true)

	for i := 1; i < radius; i++ {
		c.FillCircle(s.cx, s.cy, i, coreCascade, true)
	}
	for i := 1; i < jitter; i++ {
		c.FillCircle(s.cx, s.cy, radius+i, coreCascade, true)
	}

	if s.bleeding && s.energy == coreMinEnergy {
		s.bleeding = false
		s.target = (s.target + 1) % accumulatorCount
	} else if s.energy == coreMaxEnergy {
		s.bleeding = true
	}
	return true, nil
}

// Energy returns the current core charge in [0, 175].
func (s *Core) Energy() int { return s.energy }

// Bleeding reports whether the core is discharging.
func (s *Core) Bleeding() bool { return s.bleeding }
