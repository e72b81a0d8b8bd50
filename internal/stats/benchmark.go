package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const benchmarkSummaryFile = "benchmark_summary.json"

// BenchmarkTrial is the outcome of one independent solve in a benchmark.
type BenchmarkTrial struct {
	RunID       string  `json:"run_id,omitempty"`
	Seed        uint64  `json:"seed"`
	Correct     bool    `json:"correct"`
	Generations int     `json:"generations"`
	Evaluations int     `json:"evaluations"`
	BestFitness float64 `json:"best_fitness"`
}

// BenchmarkSummary aggregates a set of trials.
type BenchmarkSummary struct {
	ID                    string           `json:"id"`
	BoardSize             int              `json:"board_size"`
	Trials                int              `json:"trials"`
	Solved                int              `json:"solved"`
	SuccessRate           float64          `json:"success_rate"`
	MeanGenerationsSolved float64          `json:"mean_generations_solved"`
	TotalEvaluations      int              `json:"total_evaluations"`
	BestFitness           Summary          `json:"best_fitness"`
	Runs                  []BenchmarkTrial `json:"runs"`
}

// SummarizeBenchmark aggregates trials. Mean generations only counts solved trials.
func SummarizeBenchmark(id string, trials []BenchmarkTrial) BenchmarkSummary {
	summary := BenchmarkSummary{
		ID:     id,
		Trials: len(trials),
		Runs:   append([]BenchmarkTrial(nil), trials...),
	}
	best := make([]float64, 0, len(trials))
	solvedGenerations := 0
	for _, trial := range trials {
		best = append(best, trial.BestFitness)
		summary.TotalEvaluations += trial.Evaluations
		if trial.Correct {
			summary.Solved++
			solvedGenerations += trial.Generations
		}
	}
	if summary.Trials > 0 {
		summary.SuccessRate = float64(summary.Solved) / float64(summary.Trials)
	}
	if summary.Solved > 0 {
		summary.MeanGenerationsSolved = float64(solvedGenerations) / float64(summary.Solved)
	}
	summary.BestFitness = Summarize(best)
	return summary
}

func WriteBenchmarkSummary(baseDir string, summary BenchmarkSummary) (string, error) {
	if summary.ID == "" {
		return "", fmt.Errorf("benchmark id is required")
	}
	dir := filepath.Join(baseDir, summary.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, benchmarkSummaryFile)
	return path, writeJSON(path, summary)
}

func ReadBenchmarkSummary(baseDir, id string) (BenchmarkSummary, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, id, benchmarkSummaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return BenchmarkSummary{}, false, nil
		}
		return BenchmarkSummary{}, false, err
	}
	var summary BenchmarkSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return BenchmarkSummary{}, false, err
	}
	return summary, true, nil
}
