package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"genqueens/internal/queens"
	"genqueens/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		genes       string
		ascii       bool
		coordinates bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render and score an arbitrary placement",
		Example: `  genqueensctl render --genes 1,3,0,2
  genqueensctl render --genes 0,4,7,5,2,6,1,3 --ascii --coordinates`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ranks, err := parseGenes(genes)
			if err != nil {
				return err
			}
			g, err := queens.FromGenes(ranks)
			if err != nil {
				return err
			}
			opts, err := a.renderOptions()
			if err != nil {
				return err
			}
			opts.ASCII = ascii
			opts.Coordinates = coordinates

			fmt.Fprintln(a.stdout, render.Genome(g, opts))
			fmt.Fprintf(a.stdout, "Safe queens: %d/%d\n", g.SafeQueens(), g.Size())
			if g.Correct() {
				fmt.Fprintln(a.stdout, "Solved!")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&genes, "genes", "", "comma separated ranks, one per file, e.g. 1,3,0,2")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "use plain ASCII glyphs")
	cmd.Flags().BoolVar(&coordinates, "coordinates", false, "label files and ranks")
	_ = cmd.MarkFlagRequired("genes")
	return cmd
}

func parseGenes(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	genes := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		rank, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid rank %q: %w", field, err)
		}
		genes = append(genes, rank)
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("genes must list at least one rank")
	}
	return genes, nil
}
