package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/framestream/internal/raster"
)

// Runner drives a scene: per tick it applies the trail mode, lets the scene
// draw, emits the canvas and notifies observers and metrics.
type Runner struct {
	scene     Scene
	out       FrameWriter
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(scene Scene, out FrameWriter) *Runner {
	return &Runner{
		scene:     scene,
		out:       out,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetLogger sets the logger for run lifecycle events. Nil restores the
// default silent logger.
func (r *Runner) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	r.logger = l
}

// Run draws and emits frames on c until cfg.Frames have been written, the
// scene ends, the context is done or an error occurs. The partial result is
// returned alongside any error.
func (r *Runner) Run(ctx context.Context, c *raster.Canvas, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := cfg.Frames
	if capacity == 0 {
		capacity = 256
	}
	result := &Result{
		Metrics: make(map[string]float64),
		Stats:   make([]FrameStat, 0, capacity),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	name := r.scene.Name()
	PrepareCanvas(c, cfg)
	if err := r.scene.Setup(c); err != nil {
		return nil, fmt.Errorf("sim: setup %s: %w", name, err)
	}

	r.logger.Info("run started", "scene", name, "width", c.Width(), "height", c.Height(),
		"frames", cfg.Frames, "trail", cfg.Trail)

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			r.logger.Info("run cancelled", "scene", name, "frames", result.Frames)
			return result, ctx.Err()
		default:
		}

		// frame 0 keeps whatever Setup drew
		if frame > 0 {
			ApplyTrail(c, cfg)
		}

		drawStart := time.Now()
		more, err := r.scene.Step(c, frame)
		if err != nil {
			return result, &FrameError{Scene: name, Frame: frame, Wrapped: err}
		}
		if !more {
			r.logger.Info("scene finished", "scene", name, "frames", result.Frames)
			break
		}

		emitStart := time.Now()
		before := r.out.Bytes()
		if err := r.out.Emit(c); err != nil {
			return result, &FrameError{Scene: name, Frame: frame, Wrapped: err}
		}

		stat := FrameStat{
			Frame: frame,
			Bytes: int(r.out.Bytes() - before),
			Draw:  emitStart.Sub(drawStart),
			Emit:  time.Since(emitStart),
		}
		result.Stats = append(result.Stats, stat)
		result.Frames++
		result.Bytes += int64(stat.Bytes)

		for _, m := range r.metrics {
			m.Observe(c, frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(c, frame)
		}

		r.logger.Debug("frame emitted", "frame", frame, "bytes", stat.Bytes,
			"draw", stat.Draw, "emit", stat.Emit)
	}

	r.logger.Info("run complete", "scene", name, "frames", result.Frames, "bytes", result.Bytes)
	return result, nil
}

// PrepareCanvas resets c to the background before Setup when the trail mode
// clears between frames; other modes start from the canvas as handed in.
func PrepareCanvas(c *raster.Canvas, cfg Config) {
	if cfg.Trail == TrailClear {
		c.Clear(cfg.Background)
	}
}

// ApplyTrail prepares c for the next frame according to cfg.Trail. The
// runner skips it before frame 0.
func ApplyTrail(c *raster.Canvas, cfg Config) {
	switch cfg.Trail {
	case TrailClear:
		c.Clear(cfg.Background)
	case TrailFade:
		c.Fill(cfg.Fade)
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if _, ok := trailNames[cfg.Trail]; !ok {
		return fmt.Errorf("%w: unknown trail mode %d", ErrInvalidConfig, int(cfg.Trail))
	}
	return nil
}
