package evo

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"genqueens/internal/queens"
)

// ErrDegeneratePopulation means the population's total fitness is zero, so fitness
// proportionate selection has no weighting to sample from.
var ErrDegeneratePopulation = errors.New("selection precondition violated: population has zero total fitness")

// Selector picks an ordered pair of parents from a ranked population.
type Selector interface {
	Name() string
	SelectParents(rng *rand.Rand, ranked []queens.Genome, fitnessSum float64) (int, int, error)
}

// RouletteSelector samples parents with probability proportional to fitness.
//
// Both parents come from one pass over the population: two uniform draws in
// [0, fitnessSum) are sorted into low and high, and the walk accumulates fitness until
// the running total reaches each threshold in turn. The second parent is never earlier in
// the ranking than the first and may be the same genome; self-breeding is part of the
// algorithm's convergence behaviour and is not filtered out.
type RouletteSelector struct{}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (RouletteSelector) SelectParents(rng *rand.Rand, ranked []queens.Genome, fitnessSum float64) (int, int, error) {
	if rng == nil {
		return 0, 0, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return 0, 0, fmt.Errorf("population is empty")
	}
	if !(fitnessSum > 0) {
		return 0, 0, fmt.Errorf("%w (sum=%v)", ErrDegeneratePopulation, fitnessSum)
	}

	low := rng.Float64() * fitnessSum
	high := rng.Float64() * fitnessSum
	if high < low {
		low, high = high, low
	}

	first := -1
	running := 0.0
	for i, genome := range ranked {
		running += genome.Fitness()
		if first < 0 && running >= low {
			first = i
		}
		if running >= high {
			return first, i, nil
		}
	}
	return 0, 0, fmt.Errorf("selection walk exhausted: running total %v never reached %v (sum=%v)", running, high, fitnessSum)
}

// TotalFitness sums fitness in ranked order, the same order the roulette walk uses.
func TotalFitness(ranked []queens.Genome) float64 {
	total := 0.0
	for _, genome := range ranked {
		total += genome.Fitness()
	}
	return total
}
