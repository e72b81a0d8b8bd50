package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genqueens/internal/queens"
)

func TestBoardFourQueens(t *testing.T) {
	want := strings.Join([]string{
		"╔════╗",
		"║▫♕▫▪║",
		"║▪▫▪♕║",
		"║♕▪▫▪║",
		"║▪▫♕▫║",
		"╚════╝",
	}, "\n")
	assert.Equal(t, want, Board([]int{1, 3, 0, 2}, Options{}))
}

func TestBoardOddSize(t *testing.T) {
	out := Board([]int{0, 2, 4, 1, 3}, Options{ASCII: true})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "+-----+", lines[0])
	assert.Equal(t, "|Q#.#.|", lines[1])
	assert.Equal(t, "|#.Q.#|", lines[2])
	assert.Equal(t, "|.#.#Q|", lines[3])
	assert.Equal(t, "+-----+", lines[6])
	for _, line := range lines[1:6] {
		assert.Len(t, line, 7)
		assert.Equal(t, 1, strings.Count(line, "Q"))
	}
}

func TestBoardCoordinates(t *testing.T) {
	genes := make([]int, 12)
	for i := range genes {
		genes[i] = i
	}
	lines := strings.Split(Board(genes, Options{ASCII: true, Coordinates: true}), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, "    012345678901", lines[0])
	assert.Equal(t, "   +------------+", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], " 0 |Q"))
	assert.True(t, strings.HasPrefix(lines[13], "11 |"))
	assert.True(t, strings.HasSuffix(lines[13], "Q|"))
}

func TestBoardColorKeepsQueenGlyph(t *testing.T) {
	out := Board([]int{1, 3, 0, 2}, Options{Color: true})
	assert.Equal(t, 4, strings.Count(out, "♕"))
}

func TestBoardColorEmitsANSIWithoutTerminal(t *testing.T) {
	out := Board([]int{1, 3, 0, 2}, Options{Color: true})
	assert.Contains(t, out, "\x1b[")

	plain := Board([]int{1, 3, 0, 2}, Options{})
	assert.NotContains(t, plain, "\x1b[")

	ascii := Board([]int{1, 3, 0, 2}, Options{Color: true, ASCII: true})
	assert.NotContains(t, ascii, "\x1b[")
}

func TestGenomeIncludesFitness(t *testing.T) {
	g, err := queens.FromGenes([]int{1, 3, 0, 0})
	require.NoError(t, err)
	out := Genome(g, Options{ASCII: true})
	assert.True(t, strings.HasSuffix(out, "\nFitness: 0.500"))
}
