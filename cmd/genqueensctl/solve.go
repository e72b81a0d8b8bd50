package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genqueens/internal/render"
	api "genqueens/pkg/genqueens"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		search   searchFlags
		plotPath string
		quiet    bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search for a placement and print the best board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := search.resolve(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := a.renderOptions()
			if err != nil {
				return err
			}

			req := api.RunRequest{Config: cfg, PlotPath: plotPath}
			if !quiet {
				req.Progress = a.stdout
			}
			summary, err := a.client.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			result := summary.Result
			if result.Correct {
				fmt.Fprintln(a.stdout, "Solved!")
			}
			fmt.Fprintln(a.stdout, render.Genome(result.Best, opts))
			if !result.Correct {
				fmt.Fprintln(a.stdout, "(Failed to find a solution)")
			}
			a.logger.Info("run finished",
				"run_id", summary.RunID,
				"seed", result.Seed,
				"generations", result.Generations,
				"artifacts", summary.ArtifactsDir,
			)
			return nil
		},
	}
	search.bind(cmd.Flags())
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a best/average fitness chart to this path (.png, .svg or .pdf)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-generation progress")
	return cmd
}
