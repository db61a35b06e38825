package sudoku

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// requireValidFullGrid asserts every row, column and box holds each symbol
// exactly once.
func requireValidFullGrid(t *testing.T, g Grid) {
	t.Helper()
	n := g.Symbols()

	for r := range g.Rows {
		seen := make([]bool, n+1)
		for c := range g.Cols {
			v := g.At(r, c)
			require.True(t, 1 <= v && v <= n, "row %d col %d holds %d", r, c, v)
			require.False(t, seen[v], "row %d repeats %d\n%s", r, v, g)
			seen[v] = true
		}
	}
	for c := range g.Cols {
		seen := make([]bool, n+1)
		for r := range g.Rows {
			v := g.At(r, c)
			require.False(t, seen[v], "col %d repeats %d\n%s", c, v, g)
			seen[v] = true
		}
	}
	for br := 0; br < g.Rows; br += g.BoxHeight {
		for bc := 0; bc < g.Cols; bc += g.BoxWidth {
			seen := make([]bool, n+1)
			for r := br; r < br+g.BoxHeight; r++ {
				for c := bc; c < bc+g.BoxWidth; c++ {
					v := g.At(r, c)
					require.False(t, seen[v], "box %d:%d repeats %d\n%s", br, bc, v, g)
					seen[v] = true
				}
			}
		}
	}
}

func TestGenerateFullGrids(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{
			name:   "9x9",
			params: GameParams{Rows: 9, Cols: 9, BoxWidth: 3, BoxHeight: 3},
		},
		{
			name:   "6x6",
			params: GameParams{Rows: 6, Cols: 6, BoxWidth: 3, BoxHeight: 2},
		},
		{
			name:   "4x4",
			params: GameParams{Rows: 4, Cols: 4, BoxWidth: 2, BoxHeight: 2},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for range 20 {
				g, err := Generate(test.params, r)
				require.NoError(t, err)
				requireValidFullGrid(t, g)
			}
		})
	}
}

func TestGenerateRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name   string
		params GameParams
	}{
		{"box too small", GameParams{Rows: 9, Cols: 9, BoxWidth: 2, BoxHeight: 2}},
		{"box does not fill a symbol set", GameParams{Rows: 6, Cols: 6, BoxWidth: 2, BoxHeight: 2}},
		{"zero box", GameParams{Rows: 9, Cols: 9}},
		{"negative rows", GameParams{Rows: -9, Cols: 9, BoxWidth: 3, BoxHeight: 3}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			_, err := Generate(test.params, r)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestGenerateRejectsBadTiling(t *testing.T) {
	// 9x9 with 1x9 boxes tiles the grid and holds 9 cells per box but
	// degenerates rows into boxes; still a legal partition, so it must
	// generate. A 3x2 box on 9x9 must not.
	r := rand.New(rand.NewPCG(3, 4))

	g, err := Generate(GameParams{Rows: 9, Cols: 9, BoxWidth: 9, BoxHeight: 1}, r)
	require.NoError(t, err)
	requireValidFullGrid(t, g)

	_, err = Generate(GameParams{Rows: 9, Cols: 9, BoxWidth: 3, BoxHeight: 2}, r)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestFindBestCellPrefersMostConstrained(t *testing.T) {
	g := NewGrid(4, 4, 2, 2)
	// Leave (0,3) with a single candidate: row has 1 2 3, so only 4 fits.
	g.Set(0, 0, 1)
	g.Set(0, 1, 2)
	g.Set(0, 2, 3)

	row, col, ok := g.firstEmpty()
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 3, col)

	bestRow, bestCol, ok := findBestCell(&g)
	require.True(t, ok)
	assert.Equal(t, 0, bestRow)
	assert.Equal(t, 3, bestCol)
	assert.Equal(t, 1, g.candidateCount(bestRow, bestCol))
}
