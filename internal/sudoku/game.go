package sudoku

import (
	"bytes"
	"encoding/gob"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// MoveOutcome is the transient result of one move application.
type MoveOutcome int

const (
	MoveValid MoveOutcome = iota
	MoveConflictRow
	MoveConflictColumn
	MoveConflictBox
	MoveWon
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveValid:
		return "valid"
	case MoveConflictRow:
		return "conflict_row"
	case MoveConflictColumn:
		return "conflict_column"
	case MoveConflictBox:
		return "conflict_box"
	case MoveWon:
		return "won"
	}
	return "unknown"
}

func (o MoveOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// GameState owns one game: the immutable answer key generated up front and
// the live board the player mutates. Filled tracks the board's non-empty
// cell count incrementally so win detection never rescans.
type GameState struct {
	GameParams
	TargetClues int
	Clues       int // clues actually left after digging, >= TargetClues
	Won         bool
	Forfeited   bool
	Filled      int
	Answer      Grid
	Board       Grid
}

// NewGame generates a fresh answer key for the given geometry. The board
// starts empty; call PrepareBoard to dig the playable puzzle.
func NewGame(params *GameParams, rnd *rand.Rand) (*GameState, error) {
	answer, err := Generate(*params, rnd)
	if err != nil {
		return nil, err
	}
	return &GameState{
		GameParams: *params,
		Answer:     answer,
		Board:      NewGrid(params.Rows, params.Cols, params.BoxWidth, params.BoxHeight),
	}, nil
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrepareBoard copies the answer key onto the board and digs holes in a
// uniformly shuffled cell order, keeping each removal only if the remaining
// puzzle still has exactly one solution. The walk is greedy and
// order-dependent: it may leave more than targetClues clues when every
// further removal would break uniqueness, which is accepted behavior
// (a guaranteed-minimal puzzle costs far more search).
func (s *GameState) PrepareBoard(targetClues int, rnd *rand.Rand) {
	copy(s.Board.Cells, s.Answer.Cells)

	totalCells := s.Rows * s.Cols
	cellsToRemove := totalCells - targetClues

	for _, pos := range rnd.Perm(totalCells) {
		if cellsToRemove <= 0 {
			break
		}
		row, col := pos/s.Cols, pos%s.Cols

		backup := s.Board.At(row, col)
		s.Board.Set(row, col, 0)

		if HasUniqueSolution(s.Board) {
			cellsToRemove--
		} else {
			s.Board.Set(row, col, backup)
		}
	}

	s.Filled = s.Board.FilledCells()
	s.TargetClues = targetClues
	s.Clues = s.Filled

	if s.Clues > targetClues {
		Log.WithFields(logrus.Fields{
			"seed":        s.Seed(),
			"targetClues": targetClues,
			"clues":       s.Clues,
		}).Debug("digging stopped short of target")
	}
}

// MakeMove places value at (row, col), or clears the cell when value is 0.
// Conflicts are reported with row taking priority over column over box;
// that ordering is part of the contract. Filling the last cell compares the
// whole board against the answer key: a full board that is rule-consistent
// yet differs from the key stays in play, which can only happen if a weak
// uniqueness proof let multiple completions survive digging.
func (s *GameState) MakeMove(row, col, value int) (MoveOutcome, error) {
	if !s.ValidatePosition(row, col) || value < 0 || value > s.Symbols() {
		return MoveValid, ErrInvalidMove
	}

	if value == 0 {
		if s.Board.At(row, col) != 0 {
			s.Filled--
		}
		s.Board.Set(row, col, 0)
		return MoveValid, nil
	}

	if s.Board.Conflicts(row, col, value, AxisRow) {
		return MoveConflictRow, nil
	}
	if s.Board.Conflicts(row, col, value, AxisColumn) {
		return MoveConflictColumn, nil
	}
	if s.Board.Conflicts(row, col, value, AxisBox) {
		return MoveConflictBox, nil
	}

	if s.Board.At(row, col) == 0 {
		s.Filled++
	}
	s.Board.Set(row, col, value)

	if s.Filled == s.Rows*s.Cols && s.Board.Equal(s.Answer) {
		s.Won = true
		return MoveWon, nil
	}
	return MoveValid, nil
}

// IsCorrect reports whether the board cell matches the answer key. Pure
// query, never mutates state.
func (s *GameState) IsCorrect(row, col int) bool {
	return s.Board.At(row, col) == s.Answer.At(row, col)
}

func (s GameState) AnswerAt(row, col int) int {
	return s.Answer.At(row, col)
}

func (s GameState) CurrentAt(row, col int) int {
	return s.Board.At(row, col)
}

// RevealCell copies the answer into one board cell (the hint feature). It
// maintains Filled and performs the same win check as MakeMove, since a
// hint can legitimately complete the board.
func (s *GameState) RevealCell(row, col int) (MoveOutcome, error) {
	if !s.ValidatePosition(row, col) {
		return MoveValid, ErrInvalidMove
	}
	if s.Board.At(row, col) == 0 {
		s.Filled++
	}
	s.Board.Set(row, col, s.Answer.At(row, col))

	if s.Filled == s.Rows*s.Cols && s.Board.Equal(s.Answer) {
		s.Won = true
		return MoveWon, nil
	}
	return MoveValid, nil
}

// Forfeit abandons the game and exposes the full answer on the board.
func (s *GameState) Forfeit() {
	if s.Won {
		return
	}
	s.Forfeited = true
	copy(s.Board.Cells, s.Answer.Cells)
	s.Filled = s.Rows * s.Cols
}

// Over reports whether the game reached a terminal state.
func (s GameState) Over() bool {
	return s.Won || s.Forfeited
}
