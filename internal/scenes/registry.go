package scenes

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/san-kum/framestream/internal/sim"
)

// ErrUnknownScene is returned for names the registry does not know.
var ErrUnknownScene = errors.New("scenes: unknown scene")

// Options carries everything a scene may need at construction time.
type Options struct {
	Params map[string]float64
	Rand   *rand.Rand
	// Input is read by scenes that consume a byte stream. A *bufio.Reader is
	// used as is, so scenes built in turn from the same one share its buffer.
	Input io.Reader
}

func (o Options) param(key string, def float64) float64 {
	if v, ok := o.Params[key]; ok {
		return v
	}
	return def
}

func (o Options) intParam(key string, def int) int {
	return int(o.param(key, float64(def)))
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(1))
}

type entry struct {
	summary string
	build   func(Options) sim.Scene
}

type Registry struct {
	scenes map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]entry)}

	r.scenes["lens"] = entry{"noise field seen through bouncing lenses", func(o Options) sim.Scene { return NewLens(o) }}
	r.scenes["coherence"] = entry{"colour infection automaton", func(o Options) sim.Scene { return NewCoherence(o) }}
	r.scenes["core"] = entry{"pulsing energy core with orbiting accumulators", func(o Options) sim.Scene { return NewCore(o) }}
	r.scenes["heatmap"] = entry{"byte frequency heatmap of an input stream", func(o Options) sim.Scene { return NewHeatmap(o) }}
	r.scenes["overlay"] = entry{"three translucent rectangles", func(o Options) sim.Scene { return NewOverlay(o) }}

	return r
}

// Get builds a fresh instance of the named scene.
func (r *Registry) Get(name string, opts Options) (sim.Scene, error) {
	e, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownScene, name, r.List())
	}
	return e.build(opts), nil
}

// List returns the registered scene names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns a one-line description of the named scene.
func (r *Registry) Summary(name string) string {
	return r.scenes[name].summary
}
