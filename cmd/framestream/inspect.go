package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/framestream/internal/analysis"
	"github.com/san-kum/framestream/internal/config"
	"github.com/san-kum/framestream/internal/export"
	"github.com/san-kum/framestream/internal/scenes"
	"github.com/san-kum/framestream/internal/storage"
	"github.com/san-kum/framestream/internal/stream"
)

func probeStream(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	report, err := analysis.Probe(stream.NewDecoder(in))
	if err != nil {
		if report == nil || report.Frames == 0 {
			return err
		}
		logger.Warn("stream ended early", "err", err, "frames", report.Frames)
	}

	fmt.Printf("frames:    %d\n", report.Frames)
	fmt.Printf("size:      %dx%d\n", report.Width, report.Height)
	fmt.Printf("bytes:     %d\n", report.Bytes)
	fmt.Printf("repeats:   %d\n", report.Repeats)
	fmt.Printf("mean luma: %.2f\n", report.MeanLuma())
	if p := report.Period(); p > 0 {
		fmt.Printf("period:    %.1f frames\n", p)
	}
	if report.Frames > 1 {
		fmt.Println()
		fmt.Println(report.Plot(80, 10))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSIZE\tFRAMES\tFPS\tBYTES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.1f\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format(time.DateTime),
			run.Width*run.Scale, run.Height*run.Scale,
			run.Frames,
			run.FPS,
			run.Bytes,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	if outPath == "" || outPath == "-" {
		if err := storage.WriteJSON(os.Stdout, *meta, stats); err != nil {
			return err
		}
	} else {
		if err := storage.ExportJSON(outPath, *meta, stats); err != nil {
			return err
		}
		logger.Info("exported", "run", runID, "path", outPath)
	}

	if svgPath != "" {
		draw := make([]float64, len(stats))
		for i, s := range stats {
			draw[i] = float64(s.Draw.Microseconds()) / 1000
		}
		svg := export.SeriesToSVG(draw, 800, 200, "#00ff9f")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("plot written", "path", svgPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := scenes.NewRegistry()
	names := registry.List()
	if len(args) == 1 {
		if config.ListPresets(args[0]) == nil {
			return fmt.Errorf("no presets for scene %q", args[0])
		}
		names = args
	}

	for _, scene := range names {
		fmt.Printf("%s:\n", scene)
		for _, name := range config.ListPresets(scene) {
			p := config.GetPreset(scene, name)
			fmt.Printf("  %-10s %dx%d, %d frames, trail %s\n", name, p.Width, p.Height, p.Frames, p.Trail)
		}
	}
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	registry := scenes.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\n", name, registry.Summary(name))
	}
	return w.Flush()
}
