package scenes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/framestream/internal/raster"
)

const (
	DefaultHeatCell = 20
	DefaultHeatGap  = 4

	heatGrid    = 16
	heatRise    = 120
	heatCooling = 1
)

// HeatmapSize is the side length of a canvas that fits the whole grid.
func HeatmapSize(cell, gap int) int {
	return (cell+gap)*heatGrid + gap
}

// Heatmap reads one byte per frame from its input and shows a 16x16 grid of
// byte values, each cell glowing red while that value keeps arriving. The
// scene ends when the input is exhausted.
type Heatmap struct {
	in   *bufio.Reader
	cell int
	gap  int
	heat [256]uint8
}

func NewHeatmap(o Options) *Heatmap {
	in := o.Input
	if in == nil {
		in = strings.NewReader("")
	}
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Heatmap{
		in:   br,
		cell: max(o.intParam("cell", DefaultHeatCell), 1),
		gap:  max(o.intParam("gap", DefaultHeatGap), 0),
	}
}

func (s *Heatmap) Name() string { return "heatmap" }

func (s *Heatmap) Setup(c *raster.Canvas) error {
	s.heat = [256]uint8{}
	return nil
}

func (s *Heatmap) Step(c *raster.Canvas, frame int) (bool, error) {
	// frame 0 shows the cold grid before any input
	if frame > 0 {
		b, err := s.in.ReadByte()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("heatmap: read input: %w", err)
		}
		if s.heat[b] < 255-heatRise {
			s.heat[b] += heatRise
		}
	}

	s.render(c)

	for i := range s.heat {
		if s.heat[i] > heatCooling {
			s.heat[i] -= heatCooling
		} else {
			s.heat[i] = 0
		}
	}
	return true, nil
}

func (s *Heatmap) render(c *raster.Canvas) {
	x, y := s.gap, s.gap
	for i, v := range s.heat {
		c.FillRectSize(x, y, s.cell, s.cell, raster.RGB(v, 0, 0), false)
		if (i+1)%heatGrid == 0 {
			x = s.gap
			y += s.cell + s.gap
		} else {
			x += s.cell + s.gap
		}
	}
}

// Heat returns the current heat of byte value b.
func (s *Heatmap) Heat(b byte) uint8 { return s.heat[b] }
