package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/avoronov/sudoku-server/internal/repository"
	"github.com/avoronov/sudoku-server/internal/sudoku"
)

// Highscores lists won games ordered by solve time, optionally filtered by
// username and board geometry.
func (g *GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	var filter repository.HighscoreFilter

	query := r.URL.Query()
	if query.Has("username") {
		username := query.Get("username")
		filter.Username = &username
	}
	if query.Has("rows") {
		dto, err := ParseCreateNewGameDTO(query)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, g.log, wrapError(err))
			return
		}
		params := dto.GameParams()
		filter.GameParams = &params
		filter.TargetClues = &dto.Clues
	}
	if query.Has("seed") {
		params, err := sudoku.ParseSeed(query.Get("seed"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, g.log, wrapError(err))
			return
		}
		filter.GameParams = params
	}
	if query.Has("clues") && filter.TargetClues == nil {
		clues, err := strconv.Atoi(query.Get("clues"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.TargetClues = &clues
	}

	highscores, err := g.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithFields(logrus.Fields{
			"error":  err,
			"filter": filter,
		}).Error("failed to fetch highscores")
		return
	}

	sendJSONOrLog(w, g.log, highscores)
}
