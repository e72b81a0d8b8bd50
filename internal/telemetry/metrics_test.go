package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genqueens/internal/evo"
)

func TestMetricsTextfile(t *testing.T) {
	m := NewMetrics()
	m.ReportGeneration(evo.GenerationReport{Generation: 0, BestFitness: 0.75, AverageFitness: 0.4})
	m.ReportGeneration(evo.GenerationReport{
		Generation:     1,
		BestFitness:    0.875,
		AverageFitness: 0.5,
		Turnover:       evo.Turnover{Elite: 25, Children: 75, Mutations: 4, SelfBred: 2},
	})
	m.ObserveRun(false, 120*time.Millisecond, nil)
	m.ObserveRun(true, 80*time.Millisecond, nil)
	m.ObserveRun(true, time.Millisecond, errors.New("boom"))

	path := filepath.Join(t.TempDir(), "genqueens.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	for _, line := range []string{
		"genqueens_generations_total 2",
		"genqueens_children_bred_total 75",
		"genqueens_mutations_total 4",
		"genqueens_self_bred_total 2",
		"genqueens_best_fitness 0.875",
		"genqueens_average_fitness 0.5",
		`genqueens_runs_total{outcome="exhausted"} 1`,
		`genqueens_runs_total{outcome="solved"} 1`,
		`genqueens_runs_total{outcome="error"} 1`,
		"genqueens_run_duration_seconds_count 3",
	} {
		assert.Contains(t, out, line)
	}
}

func TestMetricsInstancesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ReportGeneration(evo.GenerationReport{})

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == "genqueens_generations_total" {
			assert.Zero(t, family.GetMetric()[0].GetCounter().GetValue())
		}
	}
}
