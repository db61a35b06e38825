package sudoku

// HasUniqueSolution reports whether the puzzle has exactly one completion.
// It enumerates solutions by exhaustive backtracking over a private copy of
// the grid, cutting every branch as soon as a second solution is found, so
// the worst case is "prove uniqueness or find a counterexample quickly"
// rather than a full enumeration. Cell selection is naive first-empty:
// heuristics buy nothing for a correctness check.
func HasUniqueSolution(g Grid) bool {
	work := g.Clone()
	count := 0
	countSolutions(&work, &count)
	return count == 1
}

func countSolutions(g *Grid, count *int) {
	if *count > 1 {
		return
	}
	row, col, ok := g.firstEmpty()
	if !ok {
		*count++
		return
	}
	for v := 1; v <= g.Symbols(); v++ {
		if g.Conflicts(row, col, v, AllAxes) {
			continue
		}
		g.Set(row, col, v)
		countSolutions(g, count)
		g.Set(row, col, 0)
	}
}
