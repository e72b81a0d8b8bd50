package evo

import (
	"fmt"
	"math/rand/v2"

	"genqueens/internal/queens"
)

// Breeder crosses two parents and mutates the child with probability MutationRate.
type Breeder struct {
	MutationRate float64
}

func (b Breeder) Breed(rng *rand.Rand, parent1, parent2 queens.Genome) (queens.Genome, bool, error) {
	child, err := queens.Crossover(rng, parent1, parent2)
	if err != nil {
		return queens.Genome{}, false, fmt.Errorf("breed: %w", err)
	}
	if rng.Float64() < b.MutationRate {
		return child.Mutate(rng), true, nil
	}
	return child, false, nil
}
