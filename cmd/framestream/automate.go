package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/framestream/internal/automation"
	"github.com/san-kum/framestream/internal/scenes"
)

func playScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	var out io.Writer = os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	} else {
		signal.Ignore(syscall.SIGPIPE)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, scenes.NewRegistry(), out, os.Stdin, logger)
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		return err
	}

	total := 0
	for _, r := range results {
		total += r.Result.Frames
	}
	logger.Info("scenario finished", "name", scenario.Name, "steps", len(results), "frames", total)
	return nil
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Scene:    cfg.Scene,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Base:     cfg,
	}, scenes.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFRAMES\tLUMA\tCOVERAGE\tFPS\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.2f\t%.3f\t%.1f\n", r.Value, r.Frames, r.MeanLuma, r.Coverage, r.FPS)
	}
	return w.Flush()
}
