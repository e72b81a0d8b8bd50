package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genqueens/internal/model"
)

func sampleRun(id string, created time.Time) model.RunRecord {
	return Stamp(model.RunRecord{
		ID: id,
		Config: model.RunConfig{
			BoardSize:       8,
			Population:      1000,
			MaxGenerations:  50,
			MutationRate:    0.05,
			ReplacementRate: 0.75,
			Seed:            42,
		},
		Best:         model.GenomeRecord{Genes: []int{0, 4, 7, 5, 2, 6, 1, 3}, Fitness: 1},
		Correct:      true,
		Generations:  12,
		Evaluations:  10000,
		Elapsed:      1500 * time.Millisecond,
		CreatedAtUTC: created,
	})
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	memory := NewMemoryStore()
	require.NoError(t, memory.Init(ctx))

	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, sqlite.Init(ctx))
	t.Cleanup(func() {
		_ = sqlite.Close()
	})

	return map[string]Store{KindMemory: memory, KindSQLite: sqlite}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			run := sampleRun("run-1", created)
			require.NoError(t, store.SaveRun(ctx, run))

			loaded, ok, err := store.GetRun(ctx, "run-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, run.Config, loaded.Config)
			assert.Equal(t, run.Best, loaded.Best)
			assert.Equal(t, run.Elapsed, loaded.Elapsed)
			assert.True(t, run.CreatedAtUTC.Equal(loaded.CreatedAtUTC))

			_, ok, err = store.GetRun(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreSaveRunOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			run := sampleRun("run-1", time.Now().UTC())
			require.NoError(t, store.SaveRun(ctx, run))
			run.Generations = 30
			require.NoError(t, store.SaveRun(ctx, run))

			loaded, ok, err := store.GetRun(ctx, "run-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 30, loaded.Generations)

			runs, err := store.ListRuns(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, runs, 1)
		})
	}
}

func TestStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveRun(ctx, sampleRun("old", base)))
			require.NoError(t, store.SaveRun(ctx, sampleRun("new", base.Add(2*time.Hour))))
			require.NoError(t, store.SaveRun(ctx, sampleRun("mid", base.Add(time.Hour))))

			runs, err := store.ListRuns(ctx, 0)
			require.NoError(t, err)
			require.Len(t, runs, 3)
			assert.Equal(t, []string{"new", "mid", "old"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

			runs, err = store.ListRuns(ctx, 2)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "new", runs[0].ID)
		})
	}
}

func TestStoreGenerationHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	input := []model.GenerationStats{
		{Generation: 0, BestFitness: 0.75, AverageFitness: 0.31, MinFitness: 0, StdDevFitness: 0.12, Distinct: 990},
		{Generation: 1, BestFitness: 0.875, AverageFitness: 0.42, MinFitness: 0, Distinct: 870, Children: 750, Mutations: 38},
	}

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveGenerationHistory(ctx, "run-1", input))

			output, ok, err := store.GetGenerationHistory(ctx, "run-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, input, output)

			_, ok, err = store.GetGenerationHistory(ctx, "run-2")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveRun(ctx, sampleRun("run-1", time.Now().UTC())))
			require.NoError(t, store.SaveGenerationHistory(ctx, "run-1", []model.GenerationStats{{Generation: 0}}))
			require.NoError(t, store.Reset(ctx))

			runs, err := store.ListRuns(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, runs)
			_, ok, err := store.GetGenerationHistory(ctx, "run-1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreRejectsInvalidRuns(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			unversioned := sampleRun("run-1", time.Now().UTC())
			unversioned.VersionedRecord = model.VersionedRecord{}
			require.ErrorIs(t, store.SaveRun(ctx, unversioned), ErrVersionMismatch)

			require.Error(t, store.SaveRun(ctx, sampleRun("", time.Now().UTC())))
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run))
	run.Best.Genes[0] = 7

	loaded, _, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Best.Genes[0])
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	_, _, err := store.GetRun(context.Background(), "run-1")
	require.Error(t, err)
	require.NoError(t, store.Close())

	require.Error(t, NewSQLiteStore("").Init(context.Background()))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first := NewSQLiteStore(path)
	require.NoError(t, first.Init(ctx))
	require.NoError(t, first.SaveRun(ctx, sampleRun("run-1", time.Now().UTC())))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(path)
	require.NoError(t, second.Init(ctx))
	t.Cleanup(func() {
		_ = second.Close()
	})
	_, ok, err := second.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
