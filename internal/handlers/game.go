package handlers

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/avoronov/sudoku-server/internal/config"
	"github.com/avoronov/sudoku-server/internal/middleware"
	"github.com/avoronov/sudoku-server/internal/repository"
	"github.com/avoronov/sudoku-server/internal/sudoku"
)

type GameHandler struct {
	log     *logrus.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	ws      *config.WebSocket
	rnd     *rand.Rand
}

func NewGameHandler(
	log *logrus.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:     log,
		repo:    repository.New(db),
		cookies: cookies,
		ws:      ws,
		rnd:     rnd,
	}
}

// NewGame generates an answer key, digs the playable board down toward the
// requested clue count and persists the session.
func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	params := dto.GameParams()
	game, err := sudoku.NewGame(&params, g.rnd)
	if errors.Is(err, sudoku.ErrInvalidConfiguration) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("unable to generate a new game")
		return
	}

	game.PrepareBoard(dto.Clues, g.rnd)

	g.log.WithFields(logrus.Fields{
		"seed":  params.Seed(),
		"clues": game.Clues,
	}).Debug("prepared new board")

	var createParams repository.CreateGameSessionParams
	claims, loggedIn := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if loggedIn {
		createParams.PlayerID = &claims.PlayerId
	}

	session, err := g.repo.CreateGameSession(r.Context(), game, createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("unable to create game session")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, game, ""))
}

// fetchSession loads a session and decodes its game state, writing the
// appropriate status on failure.
func (g *GameHandler) fetchSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *sudoku.GameState, bool) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := g.repo.FetchGameSession(r.Context(), sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("unable to fetch session from db")
		return nil, nil, false
	}

	game, err := sudoku.DecodeGameState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("db returned invalid game_session.state")
		return nil, nil, false
	}

	return session, game, true
}

// saveSession persists updated game state and responds with the session
// DTO.
func (g *GameHandler) saveSession(
	w http.ResponseWriter, r *http.Request,
	session *repository.GameSession, game *sudoku.GameState, outcome string,
) {
	if game.Over() && session.EndedAt == nil {
		now := time.Now().UTC()
		session.EndedAt = &now
	}

	buf, err := game.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("unable to serialize game state")
		return
	}

	session, err = g.repo.UpdateGameSession(
		r.Context(), session.GameSessionID, repository.UpdateGameSessionParams{
			Won:       &game.Won,
			Forfeited: &game.Forfeited,
			EndedAt:   session.EndedAt,
			State:     &buf,
		},
	)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithField("error", err).Error("unable to update session in db")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, game, outcome))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, game, ""))
}

// MakeMove applies one cell placement (or clear, when value is 0) and
// reports the outcome: valid, the first conflict found, or a win.
func (g *GameHandler) MakeMove(w http.ResponseWriter, r *http.Request) {
	move, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	session, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	if game.Over() {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.log, wrapError(errors.New("game is over")))
		return
	}

	outcome, err := game.MakeMove(move.Row, move.Col, move.Value)
	if errors.Is(err, sudoku.ErrInvalidMove) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	g.saveSession(w, r, session, game, outcome.String())
}

// Check reports whether one cell matches the answer key, without revealing
// the key itself.
func (g *GameHandler) Check(w http.ResponseWriter, r *http.Request) {
	cell, err := ParseCellDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	_, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	if !game.ValidatePosition(cell.Row, cell.Col) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sendJSONOrLog(w, g.log, map[string]bool{
		"correct": game.IsCorrect(cell.Row, cell.Col),
	})
}

// Hint reveals the answer for one cell into the live board.
func (g *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	cell, err := ParseCellDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	session, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	if game.Over() {
		w.WriteHeader(http.StatusConflict)
		return
	}

	outcome, err := game.RevealCell(cell.Row, cell.Col)
	if errors.Is(err, sudoku.ErrInvalidMove) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	g.saveSession(w, r, session, game, outcome.String())
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	game.Forfeit()

	g.saveSession(w, r, session, game, "")
}
