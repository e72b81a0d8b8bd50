// Package render draws a placement as a framed chess board. Row i holds the queen of
// file i, in column genes[i].
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"genqueens/internal/queens"
)

type Options struct {
	// Color paints queens magenta. Ignored in ASCII mode.
	Color bool
	// ASCII replaces the box drawing and chess glyphs with Q, '.' and '#'.
	ASCII bool
	// Coordinates labels rows with the file and columns with the rank (mod 10).
	Coordinates bool
}

type glyphs struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	light, dark, queen                         string
}

var (
	unicodeGlyphs = glyphs{
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		light: "▫", dark: "▪", queen: "♕",
	}
	asciiGlyphs = glyphs{
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		light: ".", dark: "#", queen: "Q",
	}

	queenStyle = ansiRenderer().NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

// ansiRenderer emits ANSI colour whatever the output is; Options.Color decides.
func ansiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

// Board renders genes without validating them; ranks outside [0, len(genes)) leave the row
// without a queen.
func Board(genes []int, opts Options) string {
	n := len(genes)
	g := unicodeGlyphs
	if opts.ASCII {
		g = asciiGlyphs
	}
	queen := g.queen
	if opts.Color && !opts.ASCII {
		queen = queenStyle.Render(queen)
	}

	labelWidth := 0
	margin := ""
	if opts.Coordinates {
		labelWidth = len(strconv.Itoa(max(n-1, 0)))
		margin = strings.Repeat(" ", labelWidth+1)
	}

	var b strings.Builder
	if opts.Coordinates {
		b.WriteString(margin)
		b.WriteString(" ")
		for rank := 0; rank < n; rank++ {
			b.WriteByte(byte('0' + rank%10))
		}
		b.WriteString("\n")
	}

	b.WriteString(margin + g.topLeft + strings.Repeat(g.horizontal, n) + g.topRight + "\n")
	for file := 0; file < n; file++ {
		if opts.Coordinates {
			fmt.Fprintf(&b, "%*d ", labelWidth, file)
		}
		b.WriteString(g.vertical)
		for rank := 0; rank < n; rank++ {
			switch {
			case genes[file] == rank:
				b.WriteString(queen)
			case (file+rank)%2 == 0:
				b.WriteString(g.light)
			default:
				b.WriteString(g.dark)
			}
		}
		b.WriteString(g.vertical + "\n")
	}
	b.WriteString(margin + g.bottomLeft + strings.Repeat(g.horizontal, n) + g.bottomRight)
	return b.String()
}

// Genome renders the board followed by a fitness line.
func Genome(genome queens.Genome, opts Options) string {
	return Board(genome.Genes(), opts) + "\n" + FitnessLine(genome.Fitness())
}

func FitnessLine(fitness float64) string {
	return fmt.Sprintf("Fitness: %.3f", fitness)
}
