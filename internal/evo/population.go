package evo

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"genqueens/internal/queens"
)

// Population is a generation of genomes ranked best first.
type Population []queens.Genome

// NewRandomPopulation draws size random genomes of n files and ranks them.
func NewRandomPopulation(rng *rand.Rand, size, n int) (Population, error) {
	if size < 1 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	pop := make(Population, size)
	for i := range pop {
		genome, err := queens.NewRandom(rng, n)
		if err != nil {
			return nil, err
		}
		pop[i] = genome
	}
	pop.Rank()
	return pop, nil
}

// Rank sorts by non-increasing fitness. The sort is stable, so genomes of equal fitness
// keep their relative order and survivors stay ahead of equally fit children.
func (p Population) Rank() {
	slices.SortStableFunc(p, func(a, b queens.Genome) int {
		return cmp.Compare(b.Fitness(), a.Fitness())
	})
}

// Best is the top ranked genome.
func (p Population) Best() queens.Genome {
	if len(p) == 0 {
		return queens.Genome{}
	}
	return p[0]
}

// TotalFitness sums fitness in rank order.
func (p Population) TotalFitness() float64 {
	return TotalFitness(p)
}

// AverageFitness is the mean fitness, zero for an empty population.
func (p Population) AverageFitness() float64 {
	if len(p) == 0 {
		return 0
	}
	return p.TotalFitness() / float64(len(p))
}

// Fitnesses lists fitness values in rank order.
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, genome := range p {
		out[i] = genome.Fitness()
	}
	return out
}

// EliteCount is floor((1 - replacementRate) * size), clamped to [0, size].
func EliteCount(size int, replacementRate float64) int {
	elite := int((1 - replacementRate) * float64(size))
	return max(0, min(elite, size))
}

// Turnover describes how one generation was produced.
type Turnover struct {
	Elite     int
	Children  int
	Mutations int
	SelfBred  int
}

// Advance builds the next generation: the first EliteCount genomes survive unchanged and
// the rest of the slots are filled with children bred from parents selected out of the
// current population. The result has the same size as p and is ranked.
func (p Population) Advance(rng *rand.Rand, selector Selector, breeder Breeder, replacementRate float64) (Population, Turnover, error) {
	if len(p) == 0 {
		return nil, Turnover{}, fmt.Errorf("population is empty")
	}
	if selector == nil {
		selector = RouletteSelector{}
	}

	elite := EliteCount(len(p), replacementRate)
	turnover := Turnover{Elite: elite}
	next := make(Population, 0, len(p))
	next = append(next, p[:elite]...)

	if elite < len(p) {
		fitnessSum := p.TotalFitness()
		for len(next) < len(p) {
			i, j, err := selector.SelectParents(rng, p, fitnessSum)
			if err != nil {
				return nil, turnover, err
			}
			child, mutated, err := breeder.Breed(rng, p[i], p[j])
			if err != nil {
				return nil, turnover, err
			}
			if mutated {
				turnover.Mutations++
			}
			if i == j {
				turnover.SelfBred++
			}
			turnover.Children++
			next = append(next, child)
		}
	}

	next.Rank()
	return next, turnover, nil
}
