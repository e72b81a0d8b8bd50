package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genqueens/internal/config"
	"genqueens/internal/evo"
)

func TestSetupTracingExportsSolverSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupTracing(&buf)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.BoardSize = 6
	cfg.Population = 20
	cfg.MaxGenerations = 3
	cfg.Seed = 5
	solver, err := evo.NewSolver(cfg)
	require.NoError(t, err)
	_, err = solver.Solve(context.Background())
	require.NoError(t, err)

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"solve"`)
	assert.Contains(t, out, `"Name":"generation"`)
	assert.Contains(t, out, "best_fitness")
}

func TestSetupTracingRequiresWriter(t *testing.T) {
	_, err := SetupTracing(nil)
	require.Error(t, err)
}
