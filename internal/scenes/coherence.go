package scenes

import (
	"math/rand"

	"github.com/san-kum/framestream/internal/raster"
)

const DefaultCellSize = 4

type side uint8

const (
	sideLeft side = 1 << iota
	sideRight
	sideTop
	sideBottom
)

// infection levels: 0 healthy, 1-3 ramp a single channel, 4 ramps to white
// and converts any infected neighbour.
const (
	healthy  uint8 = 0
	whiteout uint8 = 4
)

// Coherence is a grid automaton. Cells whose random colour has a zero
// channel are infected and ramp that channel to full before spreading the
// infection to healthy neighbours. The four corners start black and, once
// white, convert every infected neighbour to white.
type Coherence struct {
	rng      *rand.Rand
	cell     int
	cols     int
	rows     int
	cells    []raster.Color
	infected []uint8
}

func NewCoherence(o Options) *Coherence {
	return &Coherence{
		rng:  o.rng(),
		cell: max(o.intParam("cell", DefaultCellSize), 1),
	}
}

func (s *Coherence) Name() string { return "coherence" }

func (s *Coherence) Setup(c *raster.Canvas) error {
	s.cols = max(c.Width()/s.cell, 1)
	s.rows = max(c.Height()/s.cell, 1)
	n := s.cols * s.rows
	s.cells = make([]raster.Color, n)
	s.infected = make([]uint8, n)

	for i := range s.cells {
		v := s.rng.Uint32()
		col := raster.RGB(uint8(v), uint8(v>>8), uint8(v>>16))
		s.cells[i] = col
		switch {
		case col.R == 0:
			s.infected[i] = 1
		case col.G == 0:
			s.infected[i] = 2
		case col.B == 0:
			s.infected[i] = 3
		}
	}

	for _, p := range [][2]int{{0, 0}, {s.cols - 1, 0}, {0, s.rows - 1}, {s.cols - 1, s.rows - 1}} {
		i, _ := s.offset(p[0], p[1])
		s.infected[i] = whiteout
		s.cells[i] = raster.Black
	}
	return nil
}

func (s *Coherence) offset(x, y int) (int, bool) {
	if x < 0 || x >= s.cols || y < 0 || y >= s.rows {
		return 0, false
	}
	return y*s.cols + x, true
}

// cellAt returns black outside the grid.
func (s *Coherence) cellAt(x, y int) raster.Color {
	if i, ok := s.offset(x, y); ok {
		return s.cells[i]
	}
	return raster.Black
}

func (s *Coherence) borders(x, y int) side {
	col := s.cellAt(x, y)
	var b side
	if col != s.cellAt(x, y-1) {
		b |= sideTop
	}
	if col != s.cellAt(x, y+1) {
		b |= sideBottom
	}
	if col != s.cellAt(x-1, y) {
		b |= sideLeft
	}
	if col != s.cellAt(x+1, y) {
		b |= sideRight
	}
	return b
}

func (s *Coherence) update(x, y int) {
	i, _ := s.offset(x, y)
	level := s.infected[i]
	col := s.cells[i]

	switch level {
	case healthy:
		return
	case 1:
		if col.R < 255 {
			s.cells[i] = raster.RGB(col.R+1, 0, 0)
			return
		}
	case 2:
		if col.G < 255 {
			s.cells[i] = raster.RGB(0, col.G+1, 0)
			return
		}
	case 3:
		if col.B < 255 {
			s.cells[i] = raster.RGB(0, 0, col.B+1)
			return
		}
	case whiteout:
		if col.R < 255 {
			s.cells[i] = raster.RGB(col.R+1, sat(col.G), sat(col.B))
			return
		}
	default:
		return
	}

	spread := func(nx, ny int) {
		j, ok := s.offset(nx, ny)
		if !ok {
			return
		}
		switch {
		case level == whiteout && s.infected[j] > healthy && s.infected[j] < whiteout:
			s.infected[j] = whiteout
			s.cells[j] = raster.RGB(252, 252, 252)
		case level != whiteout && s.infected[j] == healthy:
			s.infected[j] = level
		}
	}
	spread(x-1, y)
	spread(x+1, y)
	spread(x, y-1)
	spread(x, y+1)
}

func sat(v uint8) uint8 {
	if v == 255 {
		return v
	}
	return v + 1
}

func (s *Coherence) Step(c *raster.Canvas, frame int) (bool, error) {
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.update(x, y)
		}
	}

	size := s.cell
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			left, top := x*size, y*size
			right, bottom := left+size, top+size

			c.FillRectSize(left, top, size, size, s.cellAt(x, y), false)

			b := s.borders(x, y)
			if b&sideTop != 0 {
				c.DrawLine(left, top, right, top, raster.Black, false)
			}
			if b&sideBottom != 0 {
				c.DrawLine(left, bottom, right, bottom, raster.Black, false)
			}
			if b&sideLeft != 0 {
				c.DrawLine(left, top, left, bottom, raster.Black, false)
			}
			if b&sideRight != 0 {
				c.DrawLine(right, top, right, bottom, raster.Black, false)
			}
		}
	}
	return true, nil
}

// Infected reports how many cells carry each infection level, indexed by
// level.
func (s *Coherence) Infected() [5]int {
	var counts [5]int
	for _, v := range s.infected {
		if int(v) < len(counts) {
			counts[v]++
		}
	}
	return counts
}
