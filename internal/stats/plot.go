package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"genqueens/internal/model"
)

// WriteFitnessPlot draws best and average fitness per generation. The image format follows
// the file extension (png, svg, pdf).
func WriteFitnessPlot(path, title string, history []model.GenerationStats) error {
	if len(history) == 0 {
		return fmt.Errorf("fitness plot needs at least one generation")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"
	p.Y.Min = 0
	p.Y.Max = 1

	best := make(plotter.XYs, len(history))
	avg := make(plotter.XYs, len(history))
	for i, g := range history {
		best[i].X = float64(g.Generation)
		best[i].Y = g.BestFitness
		avg[i].X = float64(g.Generation)
		avg[i].Y = g.AverageFitness
	}

	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	bestLine.Color = plotutil.Color(0)
	avgLine, err := plotter.NewLine(avg)
	if err != nil {
		return err
	}
	avgLine.Color = plotutil.Color(1)
	avgLine.Dashes = plotutil.Dashes(1)

	p.Add(plotter.NewGrid(), bestLine, avgLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("avg", avgLine)
	p.Legend.Top = false
	p.Legend.Left = false

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
