// Package genqueens is the programmatic entry point: it runs searches, persists them and
// benchmarks configurations.
package genqueens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"genqueens/internal/config"
	"genqueens/internal/evo"
	"genqueens/internal/model"
	"genqueens/internal/queens"
	"genqueens/internal/stats"
	"genqueens/internal/storage"
	"genqueens/internal/telemetry"
)

const defaultDBPath = "genqueens.db"

var (
	ErrRunNotFound       = errors.New("run not found")
	ErrBenchmarkNotFound = errors.New("benchmark not found")
)

// BenchmarkIDPrefix starts every benchmark id, keeping them apart from run ids.
const BenchmarkIDPrefix = "bench-"

type Options struct {
	StoreKind string
	DBPath    string
	// ArtifactsDir receives per-run artifact directories and the run index. Empty disables
	// artifacts.
	ArtifactsDir string
	Logger       *slog.Logger
}

type Client struct {
	store        storage.Store
	artifactsDir string
	logger       *slog.Logger
	metrics      *telemetry.Metrics

	initOnce sync.Once
	initErr  error
}

type RunRequest struct {
	Config config.Config
	// Progress receives one "Generation g: Best b, Avg a" line per generation.
	Progress io.Writer
	// Reporter, when set, is called after the built-in reporters.
	Reporter evo.Reporter
	// PlotPath, when set, receives a best/average fitness chart.
	PlotPath string
}

type RunSummary struct {
	RunID        string
	Result       evo.Result
	Record       model.RunRecord
	History      []model.GenerationStats
	ArtifactsDir string
	PlotPath     string
}

type BenchRequest struct {
	Config config.Config
	Trials int
	// Parallel bounds concurrent trials; <= 0 means one.
	Parallel int
}

type RunsRequest struct {
	Limit int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: opts.ArtifactsDir,
		logger:       logger,
		metrics:      telemetry.NewMetrics(),
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Metrics exposes the client's metric registry; every Run and Bench trial reports into it.
func (c *Client) Metrics() *telemetry.Metrics {
	return c.metrics
}

// Run solves one configuration and persists the result. A search that exhausts its
// generation bound is still a successful call; check Result.Correct.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, fmt.Errorf("init store: %w", err)
	}

	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID)
	recorder := stats.NewHistoryRecorder()
	reporters := evo.MultiReporter{recorder, c.metrics}
	if req.Progress != nil {
		reporters = append(reporters, evo.TextReporter{W: req.Progress})
	}
	reporters = append(reporters, req.Reporter)

	solver, err := evo.NewSolver(req.Config, evo.WithReporter(reporters), evo.WithLogger(logger))
	if err != nil {
		return RunSummary{}, err
	}

	result, err := solver.Solve(ctx)
	c.metrics.ObserveRun(result.Correct, result.Elapsed, err)
	summary := RunSummary{RunID: runID, Result: result, History: recorder.History()}
	if err != nil {
		return summary, err
	}

	now := time.Now().UTC()
	summary.Record = runRecord(runID, req.Config, result, now)
	if err := c.store.SaveRun(ctx, summary.Record); err != nil {
		return summary, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := c.store.SaveGenerationHistory(ctx, runID, summary.History); err != nil {
		return summary, fmt.Errorf("save generation history %s: %w", runID, err)
	}

	if c.artifactsDir != "" {
		runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
			RunID:       runID,
			Config:      summary.Record.Config,
			Best:        summary.Record.Best,
			Correct:     result.Correct,
			Generations: summary.History,
		})
		if err != nil {
			return summary, err
		}
		if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
			RunID:        runID,
			BoardSize:    req.Config.BoardSize,
			Population:   req.Config.Population,
			Generations:  result.Generations,
			Seed:         result.Seed,
			Correct:      result.Correct,
			BestFitness:  result.Best.Fitness(),
			CreatedAtUTC: now.Format(time.RFC3339Nano),
		}); err != nil {
			return summary, err
		}
		summary.ArtifactsDir = filepath.Clean(runDir)
	}

	if req.PlotPath != "" && len(summary.History) > 0 {
		title := fmt.Sprintf("%d queens, seed %d", req.Config.BoardSize, result.Seed)
		if err := stats.WriteFitnessPlot(req.PlotPath, title, summary.History); err != nil {
			return summary, fmt.Errorf("write plot: %w", err)
		}
		summary.PlotPath = req.PlotPath
	}

	logger.Info("run stored", "correct", result.Correct, "generations", result.Generations)
	return summary, nil
}

// Bench runs Trials independent searches with seeds base, base+1, ... where base is the
// configured seed, or an entropy draw when that is zero. Trials are not persisted; the
// summary is written under the artifacts directory when one is configured.
func (c *Client) Bench(ctx context.Context, req BenchRequest) (stats.BenchmarkSummary, error) {
	if req.Trials <= 0 {
		return stats.BenchmarkSummary{}, errors.New("bench requires at least one trial")
	}
	if err := req.Config.Validate(); err != nil {
		return stats.BenchmarkSummary{}, err
	}
	parallel := req.Parallel
	if parallel <= 0 {
		parallel = 1
	}
	base := req.Config.Seed
	if base == 0 {
		base = rand.Uint64()
	}

	trials := make([]stats.BenchmarkTrial, req.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range trials {
		cfg := req.Config
		cfg.Seed = base + uint64(i)
		if cfg.Seed == 0 {
			// Zero would mean entropy; keep the trial replayable.
			cfg.Seed = 1
		}
		g.Go(func() error {
			solver, err := evo.NewSolver(cfg, evo.WithReporter(c.metrics), evo.WithLogger(c.logger))
			if err != nil {
				return err
			}
			result, err := solver.Solve(gctx)
			c.metrics.ObserveRun(result.Correct, result.Elapsed, err)
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, cfg.Seed, err)
			}
			trials[i] = stats.BenchmarkTrial{
				Seed:        cfg.Seed,
				Correct:     result.Correct,
				Generations: result.Generations,
				Evaluations: result.Evaluations,
				BestFitness: result.Best.Fitness(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats.BenchmarkSummary{}, err
	}

	summary := stats.SummarizeBenchmark(BenchmarkIDPrefix+uuid.NewString(), trials)
	summary.BoardSize = req.Config.BoardSize
	if c.artifactsDir != "" {
		if _, err := stats.WriteBenchmarkSummary(c.artifactsDir, summary); err != nil {
			return summary, err
		}
	}
	c.logger.Info("bench finished", "trials", summary.Trials, "solved", summary.Solved)
	return summary, nil
}

// GetBenchmark loads a benchmark summary written by Bench from the artifacts directory.
func (c *Client) GetBenchmark(_ context.Context, id string) (stats.BenchmarkSummary, error) {
	if c.artifactsDir == "" {
		return stats.BenchmarkSummary{}, errors.New("benchmark summaries need an artifacts directory")
	}
	summary, ok, err := stats.ReadBenchmarkSummary(c.artifactsDir, id)
	if err != nil {
		return stats.BenchmarkSummary{}, err
	}
	if !ok {
		return stats.BenchmarkSummary{}, fmt.Errorf("%w: %s", ErrBenchmarkNotFound, id)
	}
	return summary, nil
}

// Reset deletes every stored run. Artifact directories are left alone.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	return c.store.Reset(ctx)
}

// Runs lists stored runs newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if err := c.Init(ctx); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return c.store.ListRuns(ctx, req.Limit)
}

// RunIndex lists the artifact index newest first; it is empty when artifacts are disabled.
func (c *Client) RunIndex(_ context.Context, req RunsRequest) ([]stats.RunIndexEntry, error) {
	if c.artifactsDir == "" {
		return []stats.RunIndexEntry{}, nil
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	return entries, nil
}

// GetRun loads a stored run and its generation history.
func (c *Client) GetRun(ctx context.Context, id string) (model.RunRecord, []model.GenerationStats, error) {
	if err := c.Init(ctx); err != nil {
		return model.RunRecord{}, nil, fmt.Errorf("init store: %w", err)
	}
	run, ok, err := c.store.GetRun(ctx, id)
	if err != nil {
		return model.RunRecord{}, nil, err
	}
	if !ok {
		return model.RunRecord{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	history, _, err := c.store.GetGenerationHistory(ctx, id)
	if err != nil {
		return model.RunRecord{}, nil, err
	}
	return run, history, nil
}

// BestGenome rebuilds the best placement of a stored run.
func BestGenome(run model.RunRecord) (queens.Genome, error) {
	return queens.FromGenes(run.Best.Genes)
}

func runRecord(id string, cfg config.Config, result evo.Result, created time.Time) model.RunRecord {
	return storage.Stamp(model.RunRecord{
		ID: id,
		Config: model.RunConfig{
			BoardSize:       cfg.BoardSize,
			Population:      cfg.Population,
			MaxGenerations:  cfg.MaxGenerations,
			MutationRate:    cfg.MutationRate,
			ReplacementRate: cfg.ReplacementRate,
			Seed:            result.Seed,
		},
		Best:         model.GenomeRecord{Genes: result.Best.Genes(), Fitness: result.Best.Fitness()},
		Correct:      result.Correct,
		Generations:  result.Generations,
		Evaluations:  result.Evaluations,
		Mutations:    result.Mutations,
		SelfBred:     result.SelfBred,
		Elapsed:      result.Elapsed,
		CreatedAtUTC: created,
	})
}
