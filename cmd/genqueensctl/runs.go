package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"genqueens/internal/config"
	"genqueens/internal/model"
	"genqueens/internal/render"
	api "genqueens/pkg/genqueens"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs and the artifact index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			runs, err := a.client.Runs(ctx, api.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "stored runs (%s):\n", a.storeKind)
			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "  none")
			}
			for _, run := range runs {
				fmt.Fprintf(a.stdout, "  %s  n=%-3d %-9s gens=%-4d evals=%-9s seed=%d  %s\n",
					run.ID,
					run.Config.BoardSize,
					outcome(run.Correct),
					run.Generations,
					humanize.Comma(int64(run.Evaluations)),
					run.Config.Seed,
					humanize.Time(run.CreatedAtUTC),
				)
			}

			if a.artifactsDir == "" {
				return nil
			}
			index, err := a.client.RunIndex(ctx, api.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "artifact index (%s):\n", a.artifactsDir)
			if len(index) == 0 {
				fmt.Fprintln(a.stdout, "  none")
			}
			for _, entry := range index {
				when := entry.CreatedAtUTC
				if t, err := time.Parse(time.RFC3339Nano, entry.CreatedAtUTC); err == nil {
					when = humanize.Time(t)
				}
				fmt.Fprintf(a.stdout, "  %s  n=%-3d %-9s gens=%-4d best=%.3f  %s\n",
					entry.RunID, entry.BoardSize, outcome(entry.Correct), entry.Generations, entry.BestFitness, when)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries per list (0 for all)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var history, asYAML bool
	cmd := &cobra.Command{
		Use:   "show <run-id|bench-id>",
		Short: "Render the best board of a stored run, or print a benchmark summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.HasPrefix(args[0], api.BenchmarkIDPrefix) {
				summary, err := a.client.GetBenchmark(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printBenchmark(a, summary)
				return nil
			}

			run, generations, err := a.client.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asYAML {
				data, err := config.Marshal(replayConfig(run.Config))
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(data)
				return err
			}
			best, err := api.BestGenome(run)
			if err != nil {
				return fmt.Errorf("run %s: %w", run.ID, err)
			}
			opts, err := a.renderOptions()
			if err != nil {
				return err
			}

			cfg := run.Config
			fmt.Fprintf(a.stdout, "run %s: n=%d pop=%d max=%d mutation_rate=%g replacement_rate=%g seed=%d\n",
				run.ID, cfg.BoardSize, cfg.Population, cfg.MaxGenerations, cfg.MutationRate, cfg.ReplacementRate, cfg.Seed)
			fmt.Fprintf(a.stdout, "%s after %d generations, %s evaluations, %s\n",
				outcome(run.Correct), run.Generations, humanize.Comma(int64(run.Evaluations)), run.Elapsed.Round(time.Millisecond))
			if history {
				for _, g := range generations {
					fmt.Fprintf(a.stdout, "Generation %d: Best %.3f, Avg %.3f, distinct %d\n",
						g.Generation, g.BestFitness, g.AverageFitness, g.Distinct)
				}
			}
			fmt.Fprintln(a.stdout, render.Genome(best, opts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "print the per-generation history")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the run configuration as a config file that replays the run")
	return cmd
}

func replayConfig(rc model.RunConfig) config.Config {
	return config.Config{
		BoardSize:       rc.BoardSize,
		Population:      rc.Population,
		MaxGenerations:  rc.MaxGenerations,
		MutationRate:    rc.MutationRate,
		ReplacementRate: rc.ReplacementRate,
		Seed:            rc.Seed,
	}
}

func outcome(correct bool) string {
	if correct {
		return "solved"
	}
	return "exhausted"
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every run in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "reset store=%s\n", a.storeKind)
			return nil
		},
	}
}
