package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avoronov/sudoku-server/internal/repository"
	"github.com/avoronov/sudoku-server/internal/sudoku"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsMove    wsCommand = "m"
	wsCheck   wsCommand = "c"
	wsHint    wsCommand = "h"
	wsForfeit wsCommand = "f"
)

func parseCell(args []string) (row int, col int, err error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected row and col arguments")
	}
	row, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row: %w", err)
	}
	col, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col: %w", err)
	}
	return row, col, nil
}

type gameExecutor struct {
	*GameHandler
	game *sudoku.GameState
}

func (e *gameExecutor) move(args []string) (string, error) {
	row, col, err := parseCell(args)
	if err != nil {
		return "", err
	}
	if len(args) < 3 {
		return "", fmt.Errorf("expected a value argument")
	}
	value, err := strconv.Atoi(args[2])
	if err != nil {
		return "", fmt.Errorf("invalid value: %w", err)
	}
	outcome, err := e.game.MakeMove(row, col, value)
	if err != nil {
		return "", err
	}
	return outcome.String(), nil
}

func (e *gameExecutor) check(args []string) (string, error) {
	row, col, err := parseCell(args)
	if err != nil {
		return "", err
	}
	if !e.game.ValidatePosition(row, col) {
		return "", sudoku.ErrInvalidMove
	}
	if e.game.IsCorrect(row, col) {
		return "correct", nil
	}
	return "incorrect", nil
}

func (e *gameExecutor) hint(args []string) (string, error) {
	row, col, err := parseCell(args)
	if err != nil {
		return "", err
	}
	outcome, err := e.game.RevealCell(row, col)
	if err != nil {
		return "", err
	}
	return outcome.String(), nil
}

// execute runs one newline-delimited text command: "m row col value",
// "c row col", "h row col", "f" or "g".
func (e *gameExecutor) execute(query string) (string, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return "", nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return "", nil
	case wsMove:
		return e.move(args)
	case wsCheck:
		return e.check(args)
	case wsHint:
		return e.hint(args)
	case wsForfeit:
		e.game.Forfeit()
		return "", nil
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

func (e *gameExecutor) runGameLoop(
	ctx context.Context, conn *websocket.Conn, session *repository.GameSession,
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		var outcome string
		message := strings.TrimSpace(string(buf))
	LINES:
		for _, line := range strings.Split(message, "\n") {
			outcome, err = e.execute(strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if e.game.Over() {
				if session.EndedAt == nil {
					now := time.Now().UTC()
					session.EndedAt = &now
				}
				break LINES
			}
		}

		stateBuf, err := e.game.Bytes()
		if err != nil {
			return fmt.Errorf("unable to serialize game state: %w", err)
		}

		session, err = e.repo.UpdateGameSession(
			ctx, session.GameSessionID, repository.UpdateGameSessionParams{
				Won:       &e.game.Won,
				Forfeited: &e.game.Forfeited,
				EndedAt:   session.EndedAt,
				State:     &stateBuf,
			},
		)
		if err != nil {
			return fmt.Errorf("unable to update session in db: %w", err)
		}

		if err := conn.WriteJSON(NewGameSessionDTO(session, e.game, outcome)); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

// ConnectWS upgrades the request and plays the session over a text
// protocol, persisting state after every message.
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, game, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithField("error", err).Error("unable to upgrade connection")
		return
	}
	defer conn.Close()

	executor := &gameExecutor{g, game}
	err = executor.runGameLoop(r.Context(), conn, session)
	if err != nil &&
		!errors.Is(err, context.Canceled) &&
		!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		g.log.WithField("error", err).Debug("game loop ended")
	}
}
