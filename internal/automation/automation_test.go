package automation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/framestream/internal/config"
	"github.com/san-kum/framestream/internal/scenes"
	"github.com/san-kum/framestream/internal/stream"
)

const scenarioYAML = `
name: tour
description: overlay then heatmap
width: 49
height: 49
background: "#ffffff"
seed: 3
steps:
  - scene: overlay
    frames: 2
  - scene: heatmap
    params:
      cell: 2
      gap: 1
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "tour" || len(s.Steps) != 2 {
		t.Fatalf("expected tour with 2 steps, got %s with %d", s.Name, len(s.Steps))
	}
	if s.Steps[1].Params["cell"] != 2 {
		t.Errorf("expected cell 2, got %v", s.Steps[1].Params["cell"])
	}
}

func TestRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	results, err := RunScenario(context.Background(), s, scenes.NewRegistry(), &buf, strings.NewReader("AB"), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(results))
	}
	if results[0].Result.Frames != 2 {
		t.Errorf("expected 2 overlay frames, got %d", results[0].Result.Frames)
	}
	// first heatmap frame reads nothing, then one frame per input byte
	if results[1].Result.Frames != 3 {
		t.Errorf("expected 3 heatmap frames, got %d", results[1].Result.Frames)
	}

	d := stream.NewDecoder(&buf)
	n := 0
	for {
		f, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if f.Width != 49 || f.Height != 49 {
			t.Errorf("expected 49x49, got %dx%d", f.Width, f.Height)
		}
		n++
	}
	if n != 5 {
		t.Errorf("expected 5 frames in stream, got %d", n)
	}
}

func TestScenarioValidate(t *testing.T) {
	registry := scenes.NewRegistry()

	tests := []struct {
		name string
		s    Scenario
	}{
		{"empty", Scenario{}},
		{"unknown scene", Scenario{Steps: []ScenarioStep{{Scene: "nope", Frames: 1}}}},
		{"bad trail", Scenario{Steps: []ScenarioStep{{Scene: "lens", Trail: "smear"}}}},
		{"bad format", Scenario{Format: "yuv", Steps: []ScenarioStep{{Scene: "lens"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(registry); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if err := (&Scenario{}).Validate(registry); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Width, base.Height = 8, 8
	base.Frames = 2

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Scene:    "overlay",
		Param:    "alpha",
		Min:      0,
		Max:      255,
		NumSteps: 3,
		Base:     base,
	}, scenes.NewRegistry())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Value != 0 || results[2].Value != 255 {
		t.Errorf("expected sweep from 0 to 255, got %v..%v", results[0].Value, results[2].Value)
	}
	if results[0].Coverage != 0 || results[0].MeanLuma != 0 {
		t.Errorf("alpha 0 should draw nothing, got coverage %v luma %v", results[0].Coverage, results[0].MeanLuma)
	}
	if results[2].Coverage != 1 {
		t.Errorf("opaque overlay should cover the canvas, got %v", results[2].Coverage)
	}
	if !(results[1].MeanLuma < results[2].MeanLuma) {
		t.Errorf("expected luma to grow with alpha, got %v then %v", results[1].MeanLuma, results[2].MeanLuma)
	}
	for _, r := range results {
		if r.Frames != 2 {
			t.Errorf("expected 2 frames, got %d", r.Frames)
		}
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	registry := scenes.NewRegistry()

	if _, err := RunSweep(context.Background(), &ParameterSweep{Scene: "lens", NumSteps: 0}, registry); err == nil {
		t.Error("expected error for zero steps")
	}

	unbounded := config.DefaultConfig()
	unbounded.Frames = 0
	if _, err := RunSweep(context.Background(), &ParameterSweep{Scene: "lens", NumSteps: 2, Base: unbounded}, registry); err == nil {
		t.Error("expected error for an unbounded sweep")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Scene: "nope", NumSteps: 1}, registry); !errors.Is(err, scenes.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestRunScenario_SharedInput(t *testing.T) {
	s := &Scenario{
		Width:  49,
		Height: 49,
		Steps: []ScenarioStep{
			{Scene: "heatmap", Frames: 3, Params: map[string]float64{"cell": 2, "gap": 1}},
			{Scene: "heatmap", Params: map[string]float64{"cell": 2, "gap": 1}},
		},
	}

	input := bytes.Repeat([]byte{'x'}, 100)
	results, err := RunScenario(context.Background(), s, scenes.NewRegistry(), io.Discard, bytes.NewReader(input), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(results))
	}

	// step one consumes two bytes; step two shows its cold grid and then
	// one frame for each of the remaining 98
	if got := results[0].Result.Frames; got != 3 {
		t.Errorf("step 1: expected 3 frames, got %d", got)
	}
	if got := results[1].Result.Frames; got != 99 {
		t.Errorf("step 2: expected 99 frames, got %d", got)
	}
}
