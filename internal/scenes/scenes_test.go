package scenes

import (
	"bufio"
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/framestream/internal/raster"
)

func newCanvas(t *testing.T, w, h int, bg raster.Color) *raster.Canvas {
	t.Helper()
	c, err := raster.New(w, h, bg)
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	return c
}

func seeded(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed))}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	want := []string{"coherence", "core", "heatmap", "lens", "overlay"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	for _, name := range want {
		s, err := r.Get(name, seeded(1))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("expected scene %s, got %s", name, s.Name())
		}
		if r.Summary(name) == "" {
			t.Errorf("%s: missing summary", name)
		}
	}

	if _, err := r.Get("nope", Options{}); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestLensBounce(t *testing.T) {
	tests := []struct {
		name   string
		in     lens
		wantX  int
		wantVX int
	}{
		{"free", lens{x: 50, y: 50, vx: 3, radius: 10}, 53, 3},
		{"right wall", lens{x: 95, y: 50, vx: 10, radius: 10}, 90, -10},
		{"left wall", lens{x: 12, y: 50, vx: -5, radius: 10}, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.in
			l.step(100, 100)
			if l.x != tt.wantX || l.vx != tt.wantVX {
				t.Errorf("expected x=%d vx=%d, got x=%d vx=%d", tt.wantX, tt.wantVX, l.x, l.vx)
			}
		})
	}
}

func TestLensReveal(t *testing.T) {
	c := newCanvas(t, 40, 40, raster.Black)
	s := NewLens(Options{Rand: rand.New(rand.NewSource(3)), Params: map[string]float64{"radius": 10}})
	if err := s.Setup(c); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if len(s.lenses) != 4 {
		t.Fatalf("expected 4 lenses, got %d", len(s.lenses))
	}

	if _, err := s.Step(c, 0); err != nil {
		t.Fatalf("step: %v", err)
	}

	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			px := c.At(x, y)
			switch s.mask.At(x, y) {
			case 0:
				if px != raster.Black {
					t.Fatalf("(%d,%d) outside lenses should be black, got %v", x, y, px)
				}
			case 1:
				if px.G != 0 || px.B != 0 {
					t.Fatalf("(%d,%d) under one lens should be red only, got %v", x, y, px)
				}
			case 2:
				if px.R != 0 || px.B != 0 {
					t.Fatalf("(%d,%d) under two lenses should be green only, got %v", x, y, px)
				}
			}
		}
	}
}

func TestCoherenceCorners(t *testing.T) {
	c := newCanvas(t, 40, 40, raster.White)
	s := NewCoherence(seeded(7))
	if err := s.Setup(c); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if s.cols != 10 || s.rows != 10 {
		t.Fatalf("expected 10x10 grid, got %dx%d", s.cols, s.rows)
	}
	if got := s.Infected()[whiteout]; got != 4 {
		t.Errorf("expected 4 whiteout corners, got %d", got)
	}

	if _, err := s.Step(c, 0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := s.cellAt(9, 9); got != raster.RGB(1, 1, 1) {
		t.Errorf("expected corner to brighten to 1, got %v", got)
	}
	if got := c.At(2, 2); got != s.cellAt(0, 0) {
		t.Errorf("expected cell interior %v, got %v", s.cellAt(0, 0), got)
	}
}

func TestCoherenceSpread(t *testing.T) {
	s := &Coherence{cell: 1, cols: 3, rows: 1}

	s.cells = []raster.Color{raster.RGB(255, 0, 0), raster.RGB(10, 20, 30), raster.RGB(1, 2, 3)}
	s.infected = []uint8{1, healthy, healthy}
	s.update(0, 0)
	if s.infected[1] != 1 || s.infected[2] != healthy {
		t.Fatalf("expected only the neighbour infected, got %v", s.infected)
	}
	s.update(1, 0)
	if s.cells[1] != raster.RGB(11, 0, 0) {
		t.Errorf("expected red ramp, got %v", s.cells[1])
	}

	s.cells = []raster.Color{raster.White, raster.RGB(0, 40, 0), raster.RGB(1, 2, 3)}
	s.infected = []uint8{whiteout, 2, healthy}
	s.update(0, 0)
	if s.infected[1] != whiteout || s.cells[1] != raster.RGB(252, 252, 252) {
		t.Errorf("expected neighbour converted to white, got %d %v", s.infected[1], s.cells[1])
	}

	s.cells = []raster.Color{raster.White, raster.RGB(1, 2, 3), raster.RGB(1, 2, 3)}
	s.infected = []uint8{whiteout, healthy, healthy}
	s.update(0, 0)
	if s.infected[1] != healthy {
		t.Errorf("white must not infect healthy cells, got %d", s.infected[1])
	}
}

func TestCoherenceDeterministic(t *testing.T) {
	render := func() []byte {
		c := newCanvas(t, 32, 32, raster.White)
		s := NewCoherence(seeded(11))
		if err := s.Setup(c); err != nil {
			t.Fatalf("setup: %v", err)
		}
		for frame := 0; frame < 5; frame++ {
			if _, err := s.Step(c, frame); err != nil {
				t.Fatalf("step: %v", err)
			}
		}
		return c.Pixels()
	}

	if !reflect.DeepEqual(render(), render()) {
		t.Error("expected identical output for the same seed")
	}
}

func TestCoreCycle(t *testing.T) {
	c := newCanvas(t, 200, 200, raster.Black)
	s := NewCore(seeded(5))
	if err := s.Setup(c); err != nil {
		t.Fatalf("setup: %v", err)
	}

	sawBleed, sawRecharge := false, false
	for frame := 0; frame < 400; frame++ {
		c.Fill(CoreFadeRate)
		if _, err := s.Step(c, frame); err != nil {
			t.Fatalf("step: %v", err)
		}
		if s.Energy() < coreMinEnergy || s.Energy() > coreMaxEnergy {
			t.Fatalf("energy %d out of range", s.Energy())
		}
		if s.Bleeding() {
			sawBleed = true
		} else if sawBleed {
			sawRecharge = true
		}
	}

	if !sawBleed || !sawRecharge {
		t.Errorf("expected a full charge cycle, bleed=%v recharge=%v", sawBleed, sawRecharge)
	}
	if s.target == 0 {
		t.Error("expected discharge target to advance")
	}
	if c.At(100, 100) == raster.Black {
		t.Error("expected core to be drawn at the centre")
	}
}

func TestHeatmap(t *testing.T) {
	size := HeatmapSize(2, 1)
	if size != 49 {
		t.Fatalf("expected size 49, got %d", size)
	}
	c := newCanvas(t, size, size, raster.White)
	s := NewHeatmap(Options{
		Input:  strings.NewReader("AA"),
		Params: map[string]float64{"cell": 2, "gap": 1},
	})
	if err := s.Setup(c); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// 'A' is cell 65: column 1, row 4
	ax, ay := 1+1*3, 1+4*3
	want := []uint8{0, 120, 239}
	for frame, w := range want {
		more, err := s.Step(c, frame)
		if err != nil || !more {
			t.Fatalf("frame %d: more=%v err=%v", frame, more, err)
		}
		if got := c.At(ax, ay); got != raster.RGB(w, 0, 0) {
			t.Errorf("frame %d: expected heat %d, got %v", frame, w, got)
		}
	}
	if got := s.Heat('A'); got != 238 {
		t.Errorf("expected cooled heat 238, got %d", got)
	}
	if c.At(0, 0) != raster.White {
		t.Error("expected gap to keep the background")
	}

	more, err := s.Step(c, len(want))
	if err != nil || more {
		t.Errorf("expected end of input, got more=%v err=%v", more, err)
	}
}

func TestHeatmapSharedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("AB"))
	opts := Options{Input: in, Params: map[string]float64{"cell": 2, "gap": 1}}
	size := HeatmapSize(2, 1)

	first, second := NewHeatmap(opts), NewHeatmap(opts)
	for _, s := range []*Heatmap{first, second} {
		c := newCanvas(t, size, size, raster.White)
		if err := s.Setup(c); err != nil {
			t.Fatalf("setup: %v", err)
		}
		for frame := 0; frame < 2; frame++ {
			if more, err := s.Step(c, frame); err != nil || !more {
				t.Fatalf("frame %d: more=%v err=%v", frame, more, err)
			}
		}
	}

	if first.Heat('A') == 0 || first.Heat('B') != 0 {
		t.Errorf("first heatmap should only see 'A', got A=%d B=%d", first.Heat('A'), first.Heat('B'))
	}
	if second.Heat('B') == 0 || second.Heat('A') != 0 {
		t.Errorf("second heatmap should only see 'B', got A=%d B=%d", second.Heat('A'), second.Heat('B'))
	}
}

func TestOverlay(t *testing.T) {
	c := newCanvas(t, 8, 8, raster.Black)
	s := NewOverlay(Options{})
	if more, err := s.Step(c, 0); err != nil || !more {
		t.Fatalf("first frame: more=%v err=%v", more, err)
	}

	tests := []struct {
		x, y int
		want raster.Color
	}{
		{0, 7, raster.RGB(85, 0, 0)},
		{7, 7, raster.RGB(0, 0, 85)},
		{0, 0, raster.RGB(56, 85, 0)},
		{7, 0, raster.RGB(0, 85, 56)},
		{4, 0, raster.RGB(37, 85, 56)},
	}
	for _, tt := range tests {
		if got := c.At(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}

	first := append([]byte(nil), c.Pixels()...)
	c.Clear(raster.Black)
	if more, err := s.Step(c, 1); err != nil || !more {
		t.Fatalf("second frame: more=%v err=%v", more, err)
	}
	if !reflect.DeepEqual(first, c.Pixels()) {
		t.Error("expected a static composition")
	}
}
