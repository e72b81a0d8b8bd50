package main

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"genqueens/internal/stats"
	api "genqueens/pkg/genqueens"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		search   searchFlags
		trials   int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run independent trials with consecutive seeds and report the success rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := search.resolve(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			summary, err := a.client.Bench(cmd.Context(), api.BenchRequest{
				Config:   cfg,
				Trials:   trials,
				Parallel: parallel,
			})
			if err != nil {
				return err
			}

			printBenchmark(a, summary)
			return nil
		},
	}
	search.bind(cmd.Flags())
	cmd.Flags().IntVar(&trials, "trials", 10, "number of independent solves")
	cmd.Flags().IntVar(&parallel, "parallel", runtime.GOMAXPROCS(0), "concurrent solves")
	return cmd
}

func printBenchmark(a *app, summary stats.BenchmarkSummary) {
	for _, trial := range summary.Runs {
		fmt.Fprintf(a.stdout, "seed %-20d %-9s generations %-4d best %.3f\n",
			trial.Seed, outcome(trial.Correct), trial.Generations, trial.BestFitness)
	}
	fmt.Fprintf(a.stdout, "%d-queens: solved %d/%d (%.1f%%)\n",
		summary.BoardSize, summary.Solved, summary.Trials, 100*summary.SuccessRate)
	if summary.Solved > 0 {
		fmt.Fprintf(a.stdout, "mean generations to solution: %.1f\n", summary.MeanGenerationsSolved)
	}
	fmt.Fprintf(a.stdout, "total evaluations: %s\n", humanize.Comma(int64(summary.TotalEvaluations)))
	fmt.Fprintf(a.stdout, "best fitness: mean %.3f, stddev %.3f, min %.3f\n",
		summary.BestFitness.Mean, summary.BestFitness.StdDev, summary.BestFitness.Min)
	fmt.Fprintf(a.stdout, "benchmark %s\n", summary.ID)
}
