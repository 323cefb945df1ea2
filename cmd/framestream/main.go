package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	// canvas and run settings
	width      int
	height     int
	frames     int
	seed       int64
	scale      int
	format     string
	trail      string
	background string
	fade       string
	outPath    string
	params     map[string]string
	noSave     bool

	configFile string
	preset     string

	// preview
	cols      int
	rows      int
	fps       int
	threshold float64
	theme     string
	snapshot  string

	// probe / export
	inPath  string
	svgPath string

	benchFrames int

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "framestream",
		Short:         "software rasterizer that streams raw PPM frames",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".framestream", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "render a scene and stream frames to stdout",
		Long: "Render a scene and write every frame as a binary PPM (P6) image to stdout.\n" +
			"Pipe the output into a player, e.g.\n\n" +
			"  framestream run core | ffplay -f image2pipe -vcodec ppm -i -",
		Args: cobra.MaximumNArgs(1),
		RunE: runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "write frames to a file instead of stdout")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the data directory")

	previewCmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "step a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  previewScene,
	}
	addSceneFlags(previewCmd)
	previewCmd.Flags().IntVar(&cols, "cols", 80, "preview width in terminal cells")
	previewCmd.Flags().IntVar(&rows, "rows", 24, "preview height in terminal cells")
	previewCmd.Flags().IntVar(&fps, "fps", 30, "preview frame rate")
	previewCmd.Flags().Float64Var(&threshold, "threshold", 64, "luma above which a dot is lit")
	previewCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")
	previewCmd.Flags().StringVar(&snapshot, "snapshot", "", "write the last preview frame as SVG on exit")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across canvas formats and scales",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchFrames, "bench-frames", 120, "frames per measurement")

	playCmd := &cobra.Command{
		Use:   "play [scenario.yaml]",
		Short: "play a scenario of several scenes as one stream",
		Args:  cobra.ExactArgs(1),
		RunE:  playScenario,
	}
	playCmd.Flags().StringVarP(&outPath, "out", "o", "", "write frames to a file instead of stdout")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "render a scene across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep-param", "", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of parameter values")
	_ = sweepCmd.MarkFlagRequired("sweep-param")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "inspect a PPM frame stream read from stdin",
		Args:  cobra.NoArgs,
		RunE:  probeStream,
	}
	probeCmd.Flags().StringVarP(&inPath, "in", "i", "", "read frames from a file instead of stdin")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "write JSON to a file instead of stdout")
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "also plot per-frame draw time as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		RunE:  listScenes,
	}

	rootCmd.AddCommand(runCmd, previewCmd, benchCmd, playCmd, sweepCmd, probeCmd, listCmd, exportCmd, presetsCmd, scenesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", 800, "canvas width")
	cmd.Flags().IntVar(&height, "height", 800, "canvas height")
	cmd.Flags().IntVarP(&frames, "frames", "n", 600, "frames to render (0 = until the scene ends)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&scale, "scale", 1, "integer upscale factor of emitted frames")
	cmd.Flags().StringVar(&format, "format", "rgb", "canvas storage format (rgb, rgba)")
	cmd.Flags().StringVar(&trail, "trail", "clear", "what happens between frames (clear, retain, fade)")
	cmd.Flags().StringVar(&background, "background", "#000000", "background colour")
	cmd.Flags().StringVar(&fade, "fade", "#0000000f", "colour blended over the last frame in fade mode")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "scene parameter, e.g. -p radius=30")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// newLogger writes text logs to stderr; stdout carries frame data.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
