package sudoku

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration means the box dimensions do not partition the
	// grid. Construction fails fast instead of risking out-of-bounds access
	// deep inside the solvers.
	ErrInvalidConfiguration = errors.New("box dimensions do not partition the grid")

	// ErrGenerationFailed means the backtracking search exhausted every
	// branch without completing a grid. Unreachable for valid geometries.
	ErrGenerationFailed = errors.New("could not generate a full grid")

	// ErrInvalidMove means a move's coordinates or value are out of range.
	ErrInvalidMove = errors.New("move out of range")
)

// GameParams fixes the geometry of one game: total rows and columns plus
// the dimensions of the sub-grid boxes. The standard game is 9:9:3:3, the
// easy variant 6:6:3:2.
type GameParams struct {
	Rows, Cols          int
	BoxWidth, BoxHeight int
}

func (p GameParams) Unpack() (rows, cols, boxWidth, boxHeight int) {
	return p.Rows, p.Cols, p.BoxWidth, p.BoxHeight
}

// Symbols is the count of distinct digits, shared by rows, columns and
// boxes.
func (p GameParams) Symbols() int {
	return max(p.Rows, p.Cols)
}

// Validate checks the box-partition invariant: boxes tile the grid exactly
// and each box holds one full set of symbols.
func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 || p.BoxWidth <= 0 || p.BoxHeight <= 0 {
		return fmt.Errorf("%w: non-positive dimension in %s", ErrInvalidConfiguration, p.Seed())
	}
	if p.Rows%p.BoxHeight != 0 || p.Cols%p.BoxWidth != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, p.Seed())
	}
	if p.BoxWidth*p.BoxHeight != p.Symbols() {
		return fmt.Errorf("%w: box holds %d cells, want %d in %s",
			ErrInvalidConfiguration, p.BoxWidth*p.BoxHeight, p.Symbols(), p.Seed())
	}
	return nil
}

// ValidatePosition reports whether (row, col) addresses a cell.
func (p GameParams) ValidatePosition(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

// Seed renders the geometry as "rows:cols:boxWidth:boxHeight".
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d:%d", p.Rows, p.Cols, p.BoxWidth, p.BoxHeight)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d", &p.Rows, &p.Cols, &p.BoxWidth, &p.BoxHeight,
	)
	if n != 4 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}
