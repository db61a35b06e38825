package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avoronov/sudoku-server/internal/sudoku"
)

type Highscore struct {
	GameSessionID int64   `json:"game_session_id"`
	Username      *string `json:"username"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	BoxWidth      int     `json:"box_width"`
	BoxHeight     int     `json:"box_height"`
	TargetClues   int     `json:"target_clues"`
	Clues         int     `json:"clues"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username    *string
	GameParams  *sudoku.GameParams
	TargetClues *int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			`"rows" = @rows`,
			"cols = @cols",
			"box_width = @boxWidth",
			"box_height = @boxHeight",
		)
		args["rows"] = f.GameParams.Rows
		args["cols"] = f.GameParams.Cols
		args["boxWidth"] = f.GameParams.BoxWidth
		args["boxHeight"] = f.GameParams.BoxHeight
	}
	if f.TargetClues != nil {
		clauses = append(clauses, "target_clues = @targetClues")
		args["targetClues"] = *f.TargetClues
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists completed games ordered by solve time. Forfeited
// games never make the board.
func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		"rows",
		cols,
		box_width,
		box_height,
		target_clues,
		clues,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
		AND forfeited = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
