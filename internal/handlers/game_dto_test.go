package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/sudoku-server/internal/repository"
	"github.com/avoronov/sudoku-server/internal/sudoku"
)

func TestParseCreateNewGameDTO(t *testing.T) {
	query, err := url.ParseQuery("rows=9&cols=9&box_width=3&box_height=3&clues=30&extra=1")
	require.NoError(t, err)

	dto, err := ParseCreateNewGameDTO(query)
	require.NoError(t, err)
	assert.Equal(t, CreateNewGameDTO{
		Rows: 9, Cols: 9, BoxWidth: 3, BoxHeight: 3, Clues: 30,
	}, dto)
	assert.Equal(t, sudoku.GameParams{
		Rows: 9, Cols: 9, BoxWidth: 3, BoxHeight: 3,
	}, dto.GameParams())

	_, err = ParseCreateNewGameDTO(url.Values{"rows": {"9"}})
	assert.Error(t, err, "missing required params must fail")
}

func TestParseMoveDTO(t *testing.T) {
	query, err := url.ParseQuery("row=4&col=5&value=7")
	require.NoError(t, err)

	move, err := ParseMoveDTO(query)
	require.NoError(t, err)
	assert.Equal(t, MoveDTO{Row: 4, Col: 5, Value: 7}, move)

	// value omitted means clear
	move, err = ParseMoveDTO(url.Values{"row": {"4"}, "col": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 0, move.Value)
}

func TestNewGameSessionDTOHidesAnswer(t *testing.T) {
	params := sudoku.GameParams{Rows: 4, Cols: 4, BoxWidth: 2, BoxHeight: 2}
	game := &sudoku.GameState{
		GameParams: params,
		Answer:     sudoku.NewGrid(4, 4, 2, 2),
		Board:      sudoku.NewGrid(4, 4, 2, 2),
	}
	game.Answer.Set(0, 0, 1)
	game.Board.Set(0, 0, 3)

	endedAt := time.Now().UTC()
	session := &repository.GameSession{
		GameSessionID: 42,
		StartedAt:     endedAt.Add(-time.Minute),
		EndedAt:       &endedAt,
	}

	dto := NewGameSessionDTO(session, game, "valid")
	assert.Equal(t, "42", dto.GameSessionID)
	assert.Equal(t, "valid", dto.Outcome)
	assert.Equal(t, 3, dto.Board[0], "DTO must carry the live board")
	require.NotNil(t, dto.EndedAt)
	assert.Equal(t, endedAt.UnixMilli(), *dto.EndedAt)
}
