package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/avoronov/sudoku-server/internal/sudoku"
)

type GameSession struct {
	GameSessionID int64
	PlayerID      *int64
	Rows          int
	Cols          int
	BoxWidth      int
	BoxHeight     int
	TargetClues   int
	Clues         int
	Won           bool
	Forfeited     bool
	StartedAt     time.Time
	EndedAt       *time.Time
	State         []byte
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CreateGameSessionParams struct {
	PlayerID *int64
}

func (p CreateGameSessionParams) UpdateArgs(args *pgx.NamedArgs) *pgx.NamedArgs {
	if p.PlayerID != nil {
		(*args)["player_id"] = *p.PlayerID
	}
	return args
}

func (q *Queries) CreateGameSession(
	ctx context.Context, state *sudoku.GameState, params CreateGameSessionParams,
) (*GameSession, error) {
	buf, err := state.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"rows":         state.Rows,
		"cols":         state.Cols,
		"box_width":    state.BoxWidth,
		"box_height":   state.BoxHeight,
		"target_clues": state.TargetClues,
		"clues":        state.Clues,
		"won":          state.Won,
		"forfeited":    state.Forfeited,
		"state":        buf,
	}
	params.UpdateArgs(&args)

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, "rows", cols, box_width, box_height,
			target_clues, clues, won, forfeited, state
		)
		VALUES (
			@player_id, @rows, @cols, @box_width, @box_height,
			@target_clues, @clues, @won, @forfeited, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q *Queries) FetchGameSession(ctx context.Context, gameSessionID int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionID,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Won       *bool
	Forfeited *bool
	EndedAt   *time.Time
	State     *[]byte
}

func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.Forfeited != nil {
		parts = append(parts, "forfeited = @forfeited")
		args["forfeited"] = *p.Forfeited
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateGameSession(
	ctx context.Context, gameSessionID int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionID
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+
			" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}
