package sudoku

import (
	"math/rand/v2"
)

// Generate produces a fully populated, rule-consistent grid for the given
// geometry. Independent diagonal boxes are seeded with random permutations
// first, then the remainder is completed by a backtracking search guided by
// the minimum-remaining-values heuristic. The search backtracks through the
// whole grid, so a bad seeding cannot strand it short of a solution for any
// geometry that passes params validation.
func Generate(params GameParams, rnd *rand.Rand) (Grid, error) {
	if err := params.Validate(); err != nil {
		return Grid{}, err
	}
	g := NewGrid(params.Rows, params.Cols, params.BoxWidth, params.BoxHeight)
	fillDiagonalBoxes(&g, rnd)
	if !solveHeuristic(&g) {
		return Grid{}, ErrGenerationFailed
	}
	return g, nil
}

// fillDiagonalBoxes seeds the boxes along the main diagonal. They share no
// row, column or box with each other, so random permutations cannot
// conflict and need no validation.
func fillDiagonalBoxes(g *Grid, rnd *rand.Rand) {
	numBoxes := min(g.Rows/g.BoxHeight, g.Cols/g.BoxWidth)
	for i := range numBoxes {
		fillBox(g, i*g.BoxHeight, i*g.BoxWidth, rnd)
	}
}

func fillBox(g *Grid, startRow, startCol int, rnd *rand.Rand) {
	digits := rnd.Perm(g.Symbols())
	i := 0
	for r := range g.BoxHeight {
		for c := range g.BoxWidth {
			g.Set(startRow+r, startCol+c, digits[i]+1)
			i++
		}
	}
}

// solveHeuristic completes the grid in place, returning false only when no
// completion exists for the current partial assignment.
func solveHeuristic(g *Grid) bool {
	row, col, ok := findBestCell(g)
	if !ok {
		return true
	}
	for v := 1; v <= g.Symbols(); v++ {
		if g.Conflicts(row, col, v, AllAxes) {
			continue
		}
		g.Set(row, col, v)
		if solveHeuristic(g) {
			return true
		}
		g.Set(row, col, 0)
	}
	return false
}

// findBestCell picks the empty cell with the fewest legal candidates,
// scanning row-major and keeping the first cell seen at each new minimum.
// A cell with one candidate (or none, a dead end) cannot be beaten, so the
// scan stops there.
func findBestCell(g *Grid) (row, col int, ok bool) {
	row, col = -1, -1
	minOptions := g.Symbols() + 1
	for r := range g.Rows {
		for c := range g.Cols {
			if g.At(r, c) != 0 {
				continue
			}
			options := g.candidateCount(r, c)
			if options < minOptions {
				minOptions = options
				row, col = r, c
			}
			if options <= 1 {
				return row, col, true
			}
		}
	}
	return row, col, row != -1
}
