package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/framestream/internal/config"
	"github.com/san-kum/framestream/internal/export"
	"github.com/san-kum/framestream/internal/metrics"
	"github.com/san-kum/framestream/internal/raster"
	"github.com/san-kum/framestream/internal/scenes"
	"github.com/san-kum/framestream/internal/sim"
	"github.com/san-kum/framestream/internal/storage"
	"github.com/san-kum/framestream/internal/stream"
	"github.com/san-kum/framestream/internal/viz"
)

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && loaded.Scene != args[0] {
			return nil, fmt.Errorf("config file is for scene %q, not %q", loaded.Scene, args[0])
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("trail") {
		cfg.Trail = trail
	}
	if flags.Changed("background") {
		cfg.Background = background
	}
	if flags.Changed("fade") {
		cfg.Fade = fade
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.Out = outPath
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", k, err)
			}
			cfg.Params[k] = f
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildScene(cfg *config.Config, input io.Reader) (sim.Scene, error) {
	return scenes.NewRegistry().Get(cfg.Scene, scenes.Options{
		Params: cfg.Params,
		Rand:   rand.New(rand.NewSource(cfg.Seed)),
		Input:  input,
	})
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	scene, err := buildScene(cfg, os.Stdin)
	if err != nil {
		return err
	}
	canvas, err := cfg.NewCanvas()
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.Out != "" && cfg.Out != "-" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	} else {
		// a closed reader surfaces as EPIPE instead of killing the process
		signal.Ignore(syscall.SIGPIPE)
	}

	emitter := stream.NewEmitter(out, stream.WithScale(cfg.Scale))
	runner := sim.New(scene, emitter)
	runner.SetLogger(logger)
	runner.AddMetric(metrics.NewLuminance())
	runner.AddMetric(metrics.NewCoverage(simCfg.Background))
	runner.AddMetric(metrics.NewThroughput(emitter))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, canvas, simCfg)
	switch {
	case err == nil:
	case errors.Is(err, syscall.EPIPE):
		logger.Info("reader closed the stream", "frames", result.Frames)
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted", "frames", result.Frames)
	default:
		return err
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:  cfg.Scene,
		Seed:   cfg.Seed,
		Width:  cfg.Width,
		Height: cfg.Height,
		Scale:  cfg.Scale,
		Trail:  cfg.Trail,
	}, result)
	if err != nil {
		return err
	}

	logger.Info("run saved", "id", runID, "frames", result.Frames, "bytes", result.Bytes,
		"elapsed", result.Elapsed.Round(time.Millisecond), "fps", fmt.Sprintf("%.1f", result.FPS()))
	for name, val := range result.Metrics {
		logger.Debug("metric", "name", name, "value", val)
	}
	return nil
}

func previewScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// the terminal owns stdin during the preview
	scene, err := buildScene(cfg, nil)
	if err != nil {
		return err
	}
	canvas, err := cfg.NewCanvas()
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	p, err := viz.NewPreview(scene, canvas, simCfg, viz.PreviewOptions{
		Cols:      cols,
		Rows:      rows,
		FPS:       fps,
		Threshold: threshold,
		Theme:     theme,
	})
	if err != nil {
		return err
	}

	final, err := viz.RunPreview(p)
	if err != nil {
		return err
	}

	if snapshot != "" {
		svg := export.CanvasToSVG(final.Dots(), 4, string(final.Theme().Primary))
		if err := os.WriteFile(snapshot, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", snapshot, "frame", final.Frame())
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	simCfg.Frames = benchFrames

	bg, err := raster.ParseHex(cfg.Background)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s at %dx%d, %d frames\n\n", cfg.Scene, cfg.Width, cfg.Height, benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tSCALE\tFRAMES\tTIME\tFPS\tDRAW/FRAME\tMB/S")

	for _, f := range []raster.Format{raster.FormatRGB, raster.FormatRGBA} {
		for _, sc := range []int{1, 2} {
			// the heatmap reads its input; feed it noise so it does not end early
			scene, err := buildScene(cfg, io.LimitReader(rand.New(rand.NewSource(cfg.Seed)), int64(benchFrames)))
			if err != nil {
				return err
			}
			canvas, err := raster.New(cfg.Width, cfg.Height, bg, raster.WithFormat(f))
			if err != nil {
				return err
			}

			emitter := stream.NewEmitter(io.Discard, stream.WithScale(sc))
			runner := sim.New(scene, emitter)
			throughput := metrics.NewThroughput(emitter)
			runner.AddMetric(throughput)

			result, err := runner.Run(context.Background(), canvas, simCfg)
			if err != nil {
				return err
			}

			var draw time.Duration
			for _, st := range result.Stats {
				draw += st.Draw
			}
			perFrame := time.Duration(0)
			if result.Frames > 0 {
				perFrame = draw / time.Duration(result.Frames)
			}

			fmt.Fprintf(w, "%s\t%dx\t%d\t%v\t%.1f\t%v\t%.1f\n",
				f, sc, result.Frames, result.Elapsed.Round(time.Millisecond), result.FPS(),
				perFrame.Round(time.Microsecond), result.Metrics[throughput.Name()]/1e6)
		}
	}

	return w.Flush()
}
