package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/framestream/internal/raster"
)

// Scene is a client simulation driven one frame at a time. Setup may draw
// the opening state; it is emitted as part of frame 0. Step draws the next
// frame onto c; returning false ends the run without emitting.
type Scene interface {
	Name() string
	Setup(c *raster.Canvas) error
	Step(c *raster.Canvas, frame int) (bool, error)
}

// FrameWriter flushes a canvas as one frame of an output stream.
type FrameWriter interface {
	Emit(c *raster.Canvas) error
	Bytes() int64
}

// Metric reduces every emitted frame to a single number.
type Metric interface {
	Name() string
	Observe(c *raster.Canvas, frame int)
	Value() float64
	Reset()
}

// Observer is called with each canvas after it has been emitted.
type Observer interface {
	OnFrame(c *raster.Canvas, frame int)
}

// TrailMode selects what happens to the previous frame before a scene draws.
type TrailMode int

const (
	// TrailClear resets the canvas to the background every tick.
	TrailClear TrailMode = iota
	// TrailRetain keeps the previous frame untouched.
	TrailRetain
	// TrailFade blends the fade colour over the previous frame.
	TrailFade
)

var trailNames = map[TrailMode]string{
	TrailClear:  "clear",
	TrailRetain: "retain",
	TrailFade:   "fade",
}

func (m TrailMode) String() string {
	if name, ok := trailNames[m]; ok {
		return name
	}
	return fmt.Sprintf("TrailMode(%d)", int(m))
}

// ParseTrail maps "clear", "retain" or "fade" to a TrailMode.
func ParseTrail(s string) (TrailMode, error) {
	for mode, name := range trailNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown trail mode %q", ErrInvalidConfig, s)
}

// Config controls a single run.
type Config struct {
	Frames     int // 0 runs until the scene ends or the context is done
	Trail      TrailMode
	Background raster.Color
	Fade       raster.Color
}

// FrameStat records the size and timings of one emitted frame.
type FrameStat struct {
	Frame int
	Bytes int
	Draw  time.Duration
	Emit  time.Duration
}

// Result summarises a run, including a partial one that ended in error.
type Result struct {
	Frames  int
	Bytes   int64
	Elapsed time.Duration
	Metrics map[string]float64
	Stats   []FrameStat
}

// FPS returns the achieved frame rate.
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}
