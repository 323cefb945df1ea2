package automation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/framestream/internal/config"
	"github.com/san-kum/framestream/internal/metrics"
	"github.com/san-kum/framestream/internal/scenes"
	"github.com/san-kum/framestream/internal/sim"
	"github.com/san-kum/framestream/internal/stream"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario plays several scenes back to back into one stream. Canvas
// settings are shared by every step so the output stays a single size.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Scale       int            `yaml:"scale"`
	Format      string         `yaml:"format"`
	Background  string         `yaml:"background"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single scene in a scenario.
type ScenarioStep struct {
	Scene  string             `yaml:"scene"`
	Frames int                `yaml:"frames"`
	Trail  string             `yaml:"trail"`
	Fade   string             `yaml:"fade"`
	Params map[string]float64 `yaml:"params"`
}

// StepResult pairs a step with the runner result it produced.
type StepResult struct {
	Scene  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// stepConfig merges the scenario-wide settings with one step.
func (s *Scenario) stepConfig(step ScenarioStep) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scene = step.Scene
	cfg.Seed = s.Seed
	cfg.Frames = step.Frames
	cfg.Params = step.Params
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if s.Scale > 0 {
		cfg.Scale = s.Scale
	}
	if s.Format != "" {
		cfg.Format = s.Format
	}
	if s.Background != "" {
		cfg.Background = s.Background
	}
	if step.Trail != "" {
		cfg.Trail = step.Trail
	}
	if step.Fade != "" {
		cfg.Fade = step.Fade
	}
	return cfg
}

// Validate checks every step before anything is written.
func (s *Scenario) Validate(registry *scenes.Registry) error {
	if len(s.Steps) == 0 {
		return ErrEmptyScenario
	}
	for i, step := range s.Steps {
		if err := s.stepConfig(step).Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if registry.Summary(step.Scene) == "" {
			return fmt.Errorf("step %d: %w: %s", i+1, scenes.ErrUnknownScene, step.Scene)
		}
	}
	return nil
}

// RunScenario renders each step in order into w. A step with zero frames
// runs until its scene ends. The canvas is reset to the background between
// steps; the emitted frame count keeps growing across them.
func RunScenario(ctx context.Context, s *Scenario, registry *scenes.Registry, w io.Writer, input io.Reader, logger *slog.Logger) ([]StepResult, error) {
	if err := s.Validate(registry); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// one buffer for every step, so no step reads ahead of the next
	var shared io.Reader
	if input != nil {
		shared = bufio.NewReader(input)
	}

	first := s.stepConfig(s.Steps[0])
	canvas, err := first.NewCanvas()
	if err != nil {
		return nil, err
	}
	emitter := stream.NewEmitter(w, stream.WithScale(first.Scale))

	results := make([]StepResult, 0, len(s.Steps))
	for i, step := range s.Steps {
		cfg := s.stepConfig(step)
		simCfg, err := cfg.SimConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		scene, err := registry.Get(step.Scene, scenes.Options{
			Params: step.Params,
			Rand:   rand.New(rand.NewSource(s.Seed + int64(i))),
			Input:  shared,
		})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("scenario step", "step", i+1, "of", len(s.Steps), "scene", step.Scene)

		canvas.Clear(simCfg.Background)
		runner := sim.New(scene, emitter)
		runner.SetLogger(logger)
		result, err := runner.Run(ctx, canvas, simCfg)
		if result != nil {
			results = append(results, StepResult{Scene: step.Scene, Result: result})
		}
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return results, nil
}

// ParameterSweep renders one scene for each value of a parameter.
type ParameterSweep struct {
	Scene    string
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Base     *config.Config
}

type SweepResult struct {
	Value    float64
	Frames   int
	MeanLuma float64
	Coverage float64
	FPS      float64
}

// RunSweep runs every point of the sweep concurrently. Frames are encoded
// and discarded so the timings include serialization.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *scenes.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if base.Frames == 0 {
		return nil, fmt.Errorf("automation: sweep needs a frame limit")
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, sweep.NumSteps)
	errs := make([]error, sweep.NumSteps)

	var wg sync.WaitGroup
	for i := 0; i < sweep.NumSteps; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			value := sweep.Min + float64(idx)*paramStep
			results[idx], errs[idx] = sweepPoint(ctx, sweep, base, registry, value)
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

func sweepPoint(ctx context.Context, sweep *ParameterSweep, base *config.Config, registry *scenes.Registry, value float64) (SweepResult, error) {
	params := make(map[string]float64, len(base.Params)+1)
	for k, v := range base.Params {
		params[k] = v
	}
	params[sweep.Param] = value

	scene, err := registry.Get(sweep.Scene, scenes.Options{
		Params: params,
		Rand:   rand.New(rand.NewSource(base.Seed)),
	})
	if err != nil {
		return SweepResult{}, err
	}
	canvas, err := base.NewCanvas()
	if err != nil {
		return SweepResult{}, err
	}
	simCfg, err := base.SimConfig()
	if err != nil {
		return SweepResult{}, err
	}

	luma := metrics.NewLuminance()
	coverage := metrics.NewCoverage(simCfg.Background)
	runner := sim.New(scene, stream.NewEmitter(io.Discard, stream.WithScale(base.Scale)))
	runner.AddMetric(luma)
	runner.AddMetric(coverage)

	result, err := runner.Run(ctx, canvas, simCfg)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%s=%g: %w", sweep.Param, value, err)
	}

	return SweepResult{
		Value:    value,
		Frames:   result.Frames,
		MeanLuma: result.Metrics[luma.Name()],
		Coverage: result.Metrics[coverage.Name()],
		FPS:      result.FPS(),
	}, nil
}
