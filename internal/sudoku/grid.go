package sudoku

import "strings"

// Axes selects which constraint groups Conflicts inspects.
type Axes uint8

const (
	AxisRow Axes = 1 << iota
	AxisColumn
	AxisBox

	AllAxes = AxisRow | AxisColumn | AxisBox
)

// Grid is a rectangular board of cells. Cells are stored row-major in a
// flat slice; a value of 0 means the cell is empty, values 1..Symbols()
// are placed digits.
type Grid struct {
	Rows, Cols          int
	BoxWidth, BoxHeight int
	Cells               []int
}

func NewGrid(rows, cols, boxWidth, boxHeight int) Grid {
	return Grid{
		Rows:      rows,
		Cols:      cols,
		BoxWidth:  boxWidth,
		BoxHeight: boxHeight,
		Cells:     make([]int, rows*cols),
	}
}

// Symbols is the number of distinct digits on the board, equal to the
// row/column cardinality.
func (g Grid) Symbols() int {
	return max(g.Rows, g.Cols)
}

func (g Grid) At(row, col int) int {
	return g.Cells[row*g.Cols+col]
}

func (g *Grid) Set(row, col, value int) {
	g.Cells[row*g.Cols+col] = value
}

func (g Grid) Clone() Grid {
	c := g
	c.Cells = make([]int, len(g.Cells))
	copy(c.Cells, g.Cells)
	return c
}

// FilledCells counts non-empty cells with a full scan.
func (g Grid) FilledCells() (n int) {
	for _, v := range g.Cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// Conflicts reports whether placing value at (row, col) would collide with
// an equal value elsewhere in the selected axes. The cell itself is always
// excluded, so re-asserting a placed value is not a conflict with itself.
func (g Grid) Conflicts(row, col, value int, axes Axes) bool {
	if axes&AxisRow != 0 {
		for c := range g.Cols {
			if c != col && g.At(row, c) == value {
				return true
			}
		}
	}
	if axes&AxisColumn != 0 {
		for r := range g.Rows {
			if r != row && g.At(r, col) == value {
				return true
			}
		}
	}
	if axes&AxisBox != 0 {
		startRow := row - row%g.BoxHeight
		startCol := col - col%g.BoxWidth
		for r := startRow; r < startRow+g.BoxHeight; r++ {
			for c := startCol; c < startCol+g.BoxWidth; c++ {
				if (r != row || c != col) && g.At(r, c) == value {
					return true
				}
			}
		}
	}
	return false
}

// candidateCount is the number of digits legal at an empty (row, col).
func (g Grid) candidateCount(row, col int) (n int) {
	for v := 1; v <= g.Symbols(); v++ {
		if !g.Conflicts(row, col, v, AllAxes) {
			n++
		}
	}
	return n
}

// firstEmpty scans row-major for an empty cell.
func (g Grid) firstEmpty() (row, col int, ok bool) {
	for i, v := range g.Cells {
		if v == 0 {
			return i / g.Cols, i % g.Cols, true
		}
	}
	return -1, -1, false
}

// Equal compares cell contents; geometry is assumed to match.
func (g Grid) Equal(other Grid) bool {
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

func (g Grid) String() string {
	var sb strings.Builder
	for r := range g.Rows {
		for c := range g.Cols {
			if c > 0 {
				sb.WriteByte(' ')
			}
			v := g.At(r, c)
			if v == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + v))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
