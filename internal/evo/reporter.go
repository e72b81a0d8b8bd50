package evo

import (
	"fmt"
	"io"

	"genqueens/internal/queens"
)

// GenerationReport is emitted once per generation, before the population is advanced.
type GenerationReport struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	AverageFitness float64 `json:"average_fitness"`
	MinFitness     float64 `json:"min_fitness"`
	// Turnover is how the reported population was produced; zero for generation 0.
	Turnover Turnover `json:"turnover"`
	// Population is the ranked generation being reported. Reporters must not retain or modify it.
	Population Population `json:"-"`
}

// Best is the top genome of the reported generation.
func (r GenerationReport) Best() queens.Genome {
	return r.Population.Best()
}

type Reporter interface {
	ReportGeneration(report GenerationReport)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(GenerationReport)

func (f ReporterFunc) ReportGeneration(report GenerationReport) {
	f(report)
}

// MultiReporter fans a report out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) ReportGeneration(report GenerationReport) {
	for _, r := range m {
		if r != nil {
			r.ReportGeneration(report)
		}
	}
}

// TextReporter writes the classic progress line, fitness rounded to three places:
//
//	Generation 0: Best 0.625, Avg 0.214
type TextReporter struct {
	W io.Writer
}

func (r TextReporter) ReportGeneration(report GenerationReport) {
	fmt.Fprintf(r.W, "Generation %d: Best %.3f, Avg %.3f\n", report.Generation, report.BestFitness, report.AverageFitness)
}
