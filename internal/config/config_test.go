package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesStockSolver(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8, cfg.BoardSize)
	assert.Equal(t, 1000, cfg.Population)
	assert.Equal(t, 50, cfg.MaxGenerations)
	assert.Equal(t, 0.05, cfg.MutationRate)
	assert.Equal(t, 0.75, cfg.ReplacementRate)
	assert.Zero(t, cfg.Seed)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "board too small", mutate: func(c *Config) { c.BoardSize = 2 }, want: "board size must be >= 3"},
		{name: "zero population", mutate: func(c *Config) { c.Population = 0 }, want: "population size must be >= 1"},
		{name: "negative population", mutate: func(c *Config) { c.Population = -4 }, want: "population size"},
		{name: "no generations", mutate: func(c *Config) { c.MaxGenerations = 0 }, want: "max generations"},
		{name: "mutation above one", mutate: func(c *Config) { c.MutationRate = 1.5 }, want: "mutation rate must be in [0, 1]"},
		{name: "replacement below zero", mutate: func(c *Config) { c.ReplacementRate = -0.1 }, want: "replacement rate must be in [0, 1]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateAcceptsBoundaryRates(t *testing.T) {
	cfg := Default()
	cfg.BoardSize = 3
	cfg.MutationRate = 0
	cfg.ReplacementRate = 1
	require.NoError(t, cfg.Validate())

	cfg.MutationRate = 1
	cfg.ReplacementRate = 0
	require.NoError(t, cfg.Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("board_size: 10\nmax_generations: 200\nseed: 42\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BoardSize)
	assert.Equal(t, 200, cfg.MaxGenerations)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, DefaultPopulation, cfg.Population)
	assert.Equal(t, DefaultMutationRate, cfg.MutationRate)
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("board_size: 8\ncrossover_rate: 0.9\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "crossover_rate")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte("board_size: 2\n"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadFileRoundTrip(t *testing.T) {
	want := Default()
	want.BoardSize = 12
	want.Population = 400
	want.Seed = 9

	data, err := Marshal(want)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "genqueens.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
