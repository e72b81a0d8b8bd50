package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBenchmark(t *testing.T) {
	trials := []BenchmarkTrial{
		{Seed: 1, Correct: true, Generations: 10, Evaluations: 7600, BestFitness: 1},
		{Seed: 2, Correct: false, Generations: 50, Evaluations: 37750, BestFitness: 0.875},
		{Seed: 3, Correct: true, Generations: 20, Evaluations: 15250, BestFitness: 1},
		{Seed: 4, Correct: true, Generations: 30, Evaluations: 22750, BestFitness: 1},
	}
	summary := SummarizeBenchmark("bench-1", trials)
	assert.Equal(t, 4, summary.Trials)
	assert.Equal(t, 3, summary.Solved)
	assert.Equal(t, 0.75, summary.SuccessRate)
	assert.Equal(t, 20.0, summary.MeanGenerationsSolved)
	assert.Equal(t, 83350, summary.TotalEvaluations)
	assert.Equal(t, 0.875, summary.BestFitness.Min)
	assert.Len(t, summary.Runs, 4)

	empty := SummarizeBenchmark("bench-2", nil)
	assert.Zero(t, empty.SuccessRate)
	assert.Zero(t, empty.MeanGenerationsSolved)
}

func TestBenchmarkSummaryRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	summary := SummarizeBenchmark("bench-1", []BenchmarkTrial{{Seed: 7, Correct: true, Generations: 3, BestFitness: 1}})

	_, err := WriteBenchmarkSummary(baseDir, summary)
	require.NoError(t, err)

	loaded, ok, err := ReadBenchmarkSummary(baseDir, "bench-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, summary, loaded)

	_, ok, err = ReadBenchmarkSummary(baseDir, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = WriteBenchmarkSummary(baseDir, BenchmarkSummary{})
	require.Error(t, err)
}
