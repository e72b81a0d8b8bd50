package stats

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"genqueens/internal/evo"
	"genqueens/internal/model"
)

// Summary describes a fitness distribution.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize returns the zero Summary for no values and a zero deviation for one value.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Min: floats.Min(values), Max: floats.Max(values)}
	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

// HistoryRecorder is an evo.Reporter that keeps per-generation statistics, including the
// number of distinct placements in each population.
type HistoryRecorder struct {
	mu      sync.Mutex
	history []model.GenerationStats
}

func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{}
}

func (r *HistoryRecorder) ReportGeneration(report evo.GenerationReport) {
	stats := model.GenerationStats{
		Generation:     report.Generation,
		BestFitness:    report.BestFitness,
		AverageFitness: report.AverageFitness,
		MinFitness:     report.MinFitness,
		Children:       report.Turnover.Children,
		Mutations:      report.Turnover.Mutations,
	}
	if len(report.Population) > 0 {
		stats.StdDevFitness = Summarize(report.Population.Fitnesses()).StdDev
		seen := make(map[string]struct{}, len(report.Population))
		for _, g := range report.Population {
			seen[g.Key()] = struct{}{}
		}
		stats.Distinct = len(seen)
	}

	r.mu.Lock()
	r.history = append(r.history, stats)
	r.mu.Unlock()
}

// History returns a copy of the recorded generations.
func (r *HistoryRecorder) History() []model.GenerationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.GenerationStats(nil), r.history...)
}
