package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"genqueens/internal/evo"
)

const namespace = "genqueens"

// Metrics holds the search counters on a private registry. It is an evo.Reporter, so it can
// be handed to the solver next to the progress printer.
type Metrics struct {
	registry *prometheus.Registry

	generations    prometheus.Counter
	children       prometheus.Counter
	mutations      prometheus.Counter
	selfBred       prometheus.Counter
	bestFitness    prometheus.Gauge
	averageFitness prometheus.Gauge
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		generations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generations evaluated across all runs.",
		}),
		children: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "children_bred_total",
			Help:      "Children produced by crossover.",
		}),
		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Children that received a point mutation.",
		}),
		selfBred: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "self_bred_total",
			Help:      "Children whose two parents were the same genome.",
		}),
		bestFitness: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness of the most recently reported generation.",
		}),
		averageFitness: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_fitness",
			Help:      "Average fitness of the most recently reported generation.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by outcome (solved, exhausted, error).",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ReportGeneration counts the turnover that produced the reported generation.
func (m *Metrics) ReportGeneration(report evo.GenerationReport) {
	m.generations.Inc()
	m.children.Add(float64(report.Turnover.Children))
	m.mutations.Add(float64(report.Turnover.Mutations))
	m.selfBred.Add(float64(report.Turnover.SelfBred))
	m.bestFitness.Set(report.BestFitness)
	m.averageFitness.Set(report.AverageFitness)
}

const (
	OutcomeSolved    = "solved"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"
)

// ObserveRun records the end of a run. err takes precedence over correct.
func (m *Metrics) ObserveRun(correct bool, elapsed time.Duration, err error) {
	outcome := OutcomeExhausted
	switch {
	case err != nil:
		outcome = OutcomeError
	case correct:
		outcome = OutcomeSolved
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile-collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
