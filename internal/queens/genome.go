// Package queens encodes candidate N-queens placements as genomes and scores them.
//
// A genome holds one rank per file, so two queens can never share a file. Rank and
// diagonal collisions are not prevented by the encoding; the fitness function counts them.
package queens

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// MinCrossoverSize is the smallest board for which a crossover point in [1, N-2] exists.
const MinCrossoverSize = 3

var (
	ErrBoardTooSmall  = errors.New("board too small")
	ErrSizeMismatch   = errors.New("genome size mismatch")
	ErrGeneOutOfRange = errors.New("gene out of range")
)

// Genome is an immutable N-queens placement: genes[file] is the rank of the queen on that
// file. Fitness is computed once at construction, so it always matches the genes.
type Genome struct {
	genes   []int
	fitness float64
	safe    int
}

func newGenome(genes []int) Genome {
	safe := countSafe(genes)
	fitness := 0.0
	if len(genes) > 0 {
		fitness = float64(safe) / float64(len(genes))
	}
	return Genome{genes: genes, fitness: fitness, safe: safe}
}

// NewRandom draws n independent uniform ranks in [0, n-1].
func NewRandom(rng *rand.Rand, n int) (Genome, error) {
	if rng == nil {
		return Genome{}, fmt.Errorf("random source is required")
	}
	if n < 1 {
		return Genome{}, fmt.Errorf("%w: n=%d", ErrBoardTooSmall, n)
	}
	genes := make([]int, n)
	for file := range genes {
		genes[file] = rng.IntN(n)
	}
	return newGenome(genes), nil
}

// FromGenes builds a genome from an explicit placement. Every rank must lie in [0, len(genes)-1].
func FromGenes(genes []int) (Genome, error) {
	n := len(genes)
	if n < 1 {
		return Genome{}, fmt.Errorf("%w: n=%d", ErrBoardTooSmall, n)
	}
	for file, rank := range genes {
		if rank < 0 || rank >= n {
			return Genome{}, fmt.Errorf("%w: file %d has rank %d, want [0, %d]", ErrGeneOutOfRange, file, rank, n-1)
		}
	}
	return newGenome(append([]int(nil), genes...)), nil
}

// Crossover splits both parents at a point drawn uniformly from [1, N-2], so each parent
// contributes at least one gene.
func Crossover(rng *rand.Rand, parent1, parent2 Genome) (Genome, error) {
	if rng == nil {
		return Genome{}, fmt.Errorf("random source is required")
	}
	if err := checkParents(parent1, parent2); err != nil {
		return Genome{}, err
	}
	point := 1 + rng.IntN(parent1.Size()-2)
	return crossoverAt(parent1, parent2, point), nil
}

// CrossoverAt takes files [0, point) from parent1 and [point, N) from parent2.
func CrossoverAt(parent1, parent2 Genome, point int) (Genome, error) {
	if err := checkParents(parent1, parent2); err != nil {
		return Genome{}, err
	}
	if point < 1 || point > parent1.Size()-2 {
		return Genome{}, fmt.Errorf("crossover point %d outside [1, %d]", point, parent1.Size()-2)
	}
	return crossoverAt(parent1, parent2, point), nil
}

func checkParents(parent1, parent2 Genome) error {
	if parent1.Size() != parent2.Size() {
		return fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, parent1.Size(), parent2.Size())
	}
	if parent1.Size() < MinCrossoverSize {
		return fmt.Errorf("%w: crossover needs n >= %d, got %d", ErrBoardTooSmall, MinCrossoverSize, parent1.Size())
	}
	return nil
}

func crossoverAt(parent1, parent2 Genome, point int) Genome {
	genes := make([]int, parent1.Size())
	copy(genes[:point], parent1.genes[:point])
	copy(genes[point:], parent2.genes[point:])
	return newGenome(genes)
}

// Mutate returns a copy with one uniformly chosen file moved to a different, uniformly chosen
// rank. A single-file genome has no other rank and is returned as is.
func (g Genome) Mutate(rng *rand.Rand) Genome {
	n := g.Size()
	if n < 2 || rng == nil {
		return g
	}
	file := rng.IntN(n)
	rank := rng.IntN(n - 1)
	if rank >= g.genes[file] {
		rank++
	}
	return g.WithRank(file, rank)
}

// WithRank returns a copy with the queen on file moved to rank. Out of range arguments
// return g unchanged.
func (g Genome) WithRank(file, rank int) Genome {
	n := g.Size()
	if file < 0 || file >= n || rank < 0 || rank >= n {
		return g
	}
	genes := append([]int(nil), g.genes...)
	genes[file] = rank
	return newGenome(genes)
}

// Size is the board dimension N.
func (g Genome) Size() int {
	return len(g.genes)
}

// Rank returns the rank of the queen on file.
func (g Genome) Rank(file int) int {
	return g.genes[file]
}

// Genes returns a copy of the placement.
func (g Genome) Genes() []int {
	return append([]int(nil), g.genes...)
}

// Fitness is the fraction of queens that share no rank or diagonal with another queen.
func (g Genome) Fitness() float64 {
	return g.fitness
}

// SafeQueens is the number of unattacked queens.
func (g Genome) SafeQueens() int {
	return g.safe
}

// Correct reports whether no two queens attack each other.
func (g Genome) Correct() bool {
	return g.Size() > 0 && g.fitness == 1.0
}

// Equal compares placements.
func (g Genome) Equal(other Genome) bool {
	if g.Size() != other.Size() {
		return false
	}
	for i, rank := range g.genes {
		if other.genes[i] != rank {
			return false
		}
	}
	return true
}

// Key is a compact string form, usable as a map key.
func (g Genome) Key() string {
	var b strings.Builder
	for i, rank := range g.genes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(rank))
	}
	return b.String()
}

func (g Genome) String() string {
	return "[" + g.Key() + "]"
}

// countSafe tallies queens per rank and per diagonal. Major diagonals are rank-file and minor
// diagonals rank+file; both are shifted into [0, 2n-2] to index flat count slices.
func countSafe(genes []int) int {
	n := len(genes)
	if n == 0 {
		return 0
	}
	ranks := make([]int, n)
	major := make([]int, 2*n-1)
	minor := make([]int, 2*n-1)
	for file, rank := range genes {
		ranks[rank]++
		major[rank-file+n-1]++
		minor[rank+file]++
	}

	safe := 0
	for file, rank := range genes {
		if ranks[rank] == 1 && major[rank-file+n-1] == 1 && minor[rank+file] == 1 {
			safe++
		}
	}
	return safe
}
