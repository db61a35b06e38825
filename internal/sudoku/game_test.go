package sudoku

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standard = GameParams{Rows: 9, Cols: 9, BoxWidth: 3, BoxHeight: 3}

func newTestGame(t *testing.T, seed1, seed2 uint64) (*GameState, *rand.Rand) {
	t.Helper()
	r := rand.New(rand.NewPCG(seed1, seed2))
	game, err := NewGame(&standard, r)
	require.NoError(t, err)
	return game, r
}

func TestNewGameRejectsBadGeometry(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	_, err := NewGame(&GameParams{Rows: 9, Cols: 9, BoxWidth: 4, BoxHeight: 2}, r)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPrepareBoard(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	t.Parallel()

	tests := []struct {
		name        string
		params      GameParams
		targetClues int
	}{
		{"9x9(30)", standard, 30},
		{"9x9(45)", standard, 45},
		{"6x6(16)", GameParams{Rows: 6, Cols: 6, BoxWidth: 3, BoxHeight: 2}, 16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			game, err := NewGame(&test.params, r)
			require.NoError(t, err)

			requireValidFullGrid(t, game.Answer)

			game.PrepareBoard(test.targetClues, r)

			totalCells := test.params.Rows * test.params.Cols
			assert.GreaterOrEqual(t, game.Filled, test.targetClues,
				"greedy digging must never remove past the target")
			assert.LessOrEqual(t, game.Filled, totalCells)
			assert.Equal(t, game.Board.FilledCells(), game.Filled,
				"incremental count must match a full rescan")
			assert.Equal(t, game.Filled, game.Clues)

			assert.True(t, HasUniqueSolution(game.Board),
				"digging must preserve uniqueness")

			// every surviving clue matches the answer key
			for r := range test.params.Rows {
				for c := range test.params.Cols {
					if v := game.CurrentAt(r, c); v != 0 {
						assert.Equal(t, game.AnswerAt(r, c), v)
					}
				}
			}
		})
	}
}

func TestPrepareBoardWithoutDigging(t *testing.T) {
	game, r := newTestGame(t, 3, 4)
	// target >= total cells means nothing gets removed
	game.PrepareBoard(81, r)
	assert.Equal(t, 81, game.Filled)
	assert.True(t, game.Board.Equal(game.Answer))
}

func TestMakeMoveConflictPriority(t *testing.T) {
	game, _ := newTestGame(t, 1, 2)
	// Hand-build a board where (4,4) sees both a row and a column
	// conflict for 5; row must win.
	game.Board = NewGrid(9, 9, 3, 3)
	game.Board.Set(4, 8, 5)
	game.Board.Set(8, 4, 5)
	game.Filled = 2

	outcome, err := game.MakeMove(4, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, MoveConflictRow, outcome)

	// remove the row conflict; column is next in line
	game.Board.Set(4, 8, 0)
	outcome, err = game.MakeMove(4, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, MoveConflictColumn, outcome)

	// box conflict reported last
	game.Board.Set(8, 4, 0)
	game.Board.Set(3, 3, 5)
	outcome, err = game.MakeMove(4, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, MoveConflictBox, outcome)
}

func TestMakeMoveRowConflictScenario(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	game, r := newTestGame(t, 7, 8)
	game.PrepareBoard(30, r)

	v := game.AnswerAt(0, 0)
	if game.CurrentAt(0, 0) == 0 {
		outcome, err := game.MakeMove(0, 0, v)
		require.NoError(t, err)
		assert.Equal(t, MoveValid, outcome)
	}

	if game.CurrentAt(0, 1) == 0 {
		outcome, err := game.MakeMove(0, 1, v)
		require.NoError(t, err)
		assert.Equal(t, MoveConflictRow, outcome)
	}
}

func TestMakeMoveWinDetection(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	game, r := newTestGame(t, 11, 12)
	game.PrepareBoard(70, r)

	type cell struct{ row, col int }
	var holes []cell
	for row := range game.Rows {
		for col := range game.Cols {
			if game.CurrentAt(row, col) == 0 {
				holes = append(holes, cell{row, col})
			}
		}
	}
	require.NotEmpty(t, holes)

	for i, h := range holes {
		outcome, err := game.MakeMove(h.row, h.col, game.AnswerAt(h.row, h.col))
		require.NoError(t, err)
		if i < len(holes)-1 {
			assert.Equal(t, MoveValid, outcome)
			assert.False(t, game.Won)
		} else {
			assert.Equal(t, MoveWon, outcome)
			assert.True(t, game.Won)
			assert.True(t, game.Over())
		}
	}
}

func TestMakeMoveClearIsIdempotent(t *testing.T) {
	game, r := newTestGame(t, 13, 14)
	game.PrepareBoard(75, r)

	var row, col int
	for r := range game.Rows {
		for c := range game.Cols {
			if game.CurrentAt(r, c) == 0 {
				row, col = r, c
			}
		}
	}

	before := game.Filled
	outcome, err := game.MakeMove(row, col, 0)
	require.NoError(t, err)
	assert.Equal(t, MoveValid, outcome)
	assert.Equal(t, before, game.Filled)

	// clearing a filled cell decrements exactly once
	outcome, err = game.MakeMove(row, col, game.AnswerAt(row, col))
	require.NoError(t, err)
	assert.Equal(t, MoveValid, outcome)
	assert.Equal(t, before+1, game.Filled)

	_, err = game.MakeMove(row, col, 0)
	require.NoError(t, err)
	assert.Equal(t, before, game.Filled)
}

func TestMakeMoveRejectsOutOfRange(t *testing.T) {
	game, r := newTestGame(t, 15, 16)
	game.PrepareBoard(75, r)

	for _, move := range []struct{ row, col, value int }{
		{-1, 0, 1},
		{0, -1, 1},
		{9, 0, 1},
		{0, 9, 1},
		{0, 0, -1},
		{0, 0, 10},
	} {
		_, err := game.MakeMove(move.row, move.col, move.value)
		assert.ErrorIs(t, err, ErrInvalidMove,
			"move %+v must be rejected", move)
	}
}

func TestIsCorrectNeverMutates(t *testing.T) {
	game, r := newTestGame(t, 17, 18)
	game.PrepareBoard(75, r)

	snapshot := game.Board.Clone()
	filled := game.Filled
	for range 3 {
		for row := range game.Rows {
			for col := range game.Cols {
				game.IsCorrect(row, col)
			}
		}
	}
	assert.True(t, game.Board.Equal(snapshot))
	assert.Equal(t, filled, game.Filled)
}

func TestRevealCell(t *testing.T) {
	game, r := newTestGame(t, 19, 20)
	game.PrepareBoard(75, r)

	var row, col int
	found := false
	for r := range game.Rows {
		for c := range game.Cols {
			if game.CurrentAt(r, c) == 0 && !found {
				row, col = r, c
				found = true
			}
		}
	}
	require.True(t, found)

	before := game.Filled
	_, err := game.RevealCell(row, col)
	require.NoError(t, err)
	assert.Equal(t, game.AnswerAt(row, col), game.CurrentAt(row, col))
	assert.Equal(t, before+1, game.Filled)

	_, err = game.RevealCell(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestForfeitRevealsAnswer(t *testing.T) {
	game, r := newTestGame(t, 21, 22)
	game.PrepareBoard(75, r)

	game.Forfeit()
	assert.True(t, game.Forfeited)
	assert.True(t, game.Over())
	assert.False(t, game.Won)
	assert.True(t, game.Board.Equal(game.Answer))
	assert.Equal(t, 81, game.Filled)
}

func TestGameStateRoundTripsThroughGob(t *testing.T) {
	game, r := newTestGame(t, 23, 24)
	game.PrepareBoard(75, r)

	buf, err := game.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)

	assert.Equal(t, game.GameParams, decoded.GameParams)
	assert.Equal(t, game.Filled, decoded.Filled)
	assert.True(t, decoded.Board.Equal(game.Board))
	assert.True(t, decoded.Answer.Equal(game.Answer))

	// decoded state must stay playable
	_, err = decoded.MakeMove(0, 0, 0)
	assert.NoError(t, err)
}

func TestSeedRoundTrip(t *testing.T) {
	p, err := ParseSeed(standard.Seed())
	require.NoError(t, err)
	assert.Equal(t, standard, *p)

	_, err = ParseSeed("9x9x3x3")
	assert.Error(t, err)
}
