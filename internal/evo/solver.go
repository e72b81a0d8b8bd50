package evo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"genqueens/internal/config"
	"genqueens/internal/queens"
)

const tracerName = "genqueens/evo"

// Result is the outcome of a search. Exhausting the generation bound without a correct
// placement is a normal result with Correct == false.
type Result struct {
	Best        queens.Genome
	Correct     bool
	Generations int
	Seed        uint64
	Children    int
	Mutations   int
	SelfBred    int
	Evaluations int
	History     []GenerationReport
	Elapsed     time.Duration
}

// Solver drives the generational loop for one configuration.
type Solver struct {
	cfg      config.Config
	seed     uint64
	rng      *rand.Rand
	selector Selector
	breeder  Breeder
	reporter Reporter
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Solver)

// WithRand supplies the random source. The seed from the config is ignored.
func WithRand(rng *rand.Rand) Option {
	return func(s *Solver) {
		s.rng = rng
	}
}

func WithSelector(selector Selector) Option {
	return func(s *Solver) {
		s.selector = selector
	}
}

func WithReporter(reporter Reporter) Option {
	return func(s *Solver) {
		s.reporter = reporter
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Solver) {
		s.tracer = tracer
	}
}

// NewSolver validates cfg and prepares a solver. A zero seed draws one from entropy; the
// effective seed is reported in Result.Seed so the run can be replayed.
func NewSolver(cfg config.Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BoardSize < queens.MinCrossoverSize {
		return nil, fmt.Errorf("%w: n=%d", queens.ErrBoardTooSmall, cfg.BoardSize)
	}

	s := &Solver{
		cfg:      cfg,
		selector: RouletteSelector{},
		breeder:  Breeder{MutationRate: cfg.MutationRate},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.seed = cfg.Seed
		if s.seed == 0 {
			s.seed = rand.Uint64()
		}
		s.rng = rand.New(rand.NewPCG(s.seed, s.seed))
	}
	if s.selector == nil {
		s.selector = RouletteSelector{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// Seed is the seed the solver's random source was built from, zero when WithRand was used.
func (s *Solver) Seed() uint64 {
	return s.seed
}

// Solve runs at most MaxGenerations generations and stops as soon as the best genome of a
// new generation is correct. A cancelled context stops the loop between generations and
// returns the best genome so far with the context error.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "solve", trace.WithAttributes(
		attribute.Int("board_size", s.cfg.BoardSize),
		attribute.Int("population", s.cfg.Population),
		attribute.Int("max_generations", s.cfg.MaxGenerations),
		attribute.Float64("mutation_rate", s.cfg.MutationRate),
		attribute.Float64("replacement_rate", s.cfg.ReplacementRate),
	))
	defer span.End()

	s.logger.Info("search started",
		"board_size", s.cfg.BoardSize,
		"population", s.cfg.Population,
		"max_generations", s.cfg.MaxGenerations,
		"selector", s.selector.Name(),
		"seed", s.seed,
	)

	result := Result{Seed: s.seed, History: make([]GenerationReport, 0, s.cfg.MaxGenerations)}
	pop, err := NewRandomPopulation(s.rng, s.cfg.Population, s.cfg.BoardSize)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	result.Evaluations = len(pop)

	var last Turnover
	for gen := 0; gen < s.cfg.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			s.finish(&result, pop, started)
			span.SetStatus(codes.Error, err.Error())
			return result, err
		}

		report, next, turnover, err := s.step(ctx, gen, pop, last)
		result.History = append(result.History, report)
		if err != nil {
			s.finish(&result, pop, started)
			err = fmt.Errorf("generation %d: %w", gen, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("search aborted", "generation", gen, "error", err)
			return result, err
		}

		pop, last = next, turnover
		result.Generations = gen + 1
		result.Children += turnover.Children
		result.Mutations += turnover.Mutations
		result.SelfBred += turnover.SelfBred
		result.Evaluations += turnover.Children

		if pop.Best().Correct() {
			s.logger.Info("solution found", "generation", gen, "genes", pop.Best().String())
			break
		}
	}

	s.finish(&result, pop, started)
	span.SetAttributes(
		attribute.Bool("correct", result.Correct),
		attribute.Int("generations", result.Generations),
		attribute.Float64("best_fitness", result.Best.Fitness()),
	)
	s.logger.Info("search finished",
		"correct", result.Correct,
		"generations", result.Generations,
		"best_fitness", result.Best.Fitness(),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// step reports generation gen and produces its successor.
func (s *Solver) step(ctx context.Context, gen int, pop Population, last Turnover) (GenerationReport, Population, Turnover, error) {
	_, span := s.tracer.Start(ctx, "generation", trace.WithAttributes(attribute.Int("generation", gen)))
	defer span.End()

	report := GenerationReport{
		Generation:     gen,
		BestFitness:    pop.Best().Fitness(),
		AverageFitness: pop.AverageFitness(),
		MinFitness:     pop[len(pop)-1].Fitness(),
		Turnover:       last,
		Population:     pop,
	}
	span.SetAttributes(
		attribute.Float64("best_fitness", report.BestFitness),
		attribute.Float64("average_fitness", report.AverageFitness),
	)
	if s.reporter != nil {
		s.reporter.ReportGeneration(report)
	}
	report.Population = nil

	s.logger.Debug("generation",
		"generation", gen,
		"best", report.BestFitness,
		"avg", report.AverageFitness,
	)

	next, turnover, err := pop.Advance(s.rng, s.selector, s.breeder, s.cfg.ReplacementRate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return report, next, turnover, err
}

func (s *Solver) finish(result *Result, pop Population, started time.Time) {
	result.Best = pop.Best()
	result.Correct = result.Best.Correct()
	result.Elapsed = time.Since(started)
}
