package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/avoronov/sudoku-server/internal/repository"
	"github.com/avoronov/sudoku-server/internal/sudoku"
)

type CreateNewGameDTO struct {
	Rows      int `schema:"rows,required"`
	Cols      int `schema:"cols,required"`
	BoxWidth  int `schema:"box_width,required"`
	BoxHeight int `schema:"box_height,required"`
	Clues     int `schema:"clues,required"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateNewGameDTO) GameParams() sudoku.GameParams {
	return sudoku.GameParams{
		Rows:      dto.Rows,
		Cols:      dto.Cols,
		BoxWidth:  dto.BoxWidth,
		BoxHeight: dto.BoxHeight,
	}
}

type CellDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParseCellDTO(src map[string][]string) (CellDTO, error) {
	var dto CellDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type MoveDTO struct {
	Row   int `schema:"row,required"`
	Col   int `schema:"col,required"`
	Value int `schema:"value"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, error) {
	var dto MoveDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

// GameSessionDTO is what clients see of a session. It carries the live
// board only; the answer key stays server-side.
type GameSessionDTO struct {
	GameSessionID string  `json:"game_session_id"`
	Board         []int   `json:"board"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	BoxWidth      int     `json:"box_width"`
	BoxHeight     int     `json:"box_height"`
	TargetClues   int     `json:"target_clues"`
	Clues         int     `json:"clues"`
	Filled        int     `json:"filled"`
	Won           bool    `json:"won"`
	Forfeited     bool    `json:"forfeited"`
	Outcome       string  `json:"outcome,omitempty"`
	StartedAt     int64   `json:"started_at"`
	EndedAt       *int64  `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(
	session *repository.GameSession,
	game *sudoku.GameState,
	outcome string,
) *GameSessionDTO {
	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionID: strconv.FormatInt(session.GameSessionID, 10),
		Board:         game.Board.Cells,
		Rows:          game.Rows,
		Cols:          game.Cols,
		BoxWidth:      game.BoxWidth,
		BoxHeight:     game.BoxHeight,
		TargetClues:   game.TargetClues,
		Clues:         game.Clues,
		Filled:        game.Filled,
		Won:           game.Won,
		Forfeited:     game.Forfeited,
		Outcome:       outcome,
		StartedAt:     session.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}
