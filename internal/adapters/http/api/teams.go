// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/rotobot/bracketbuilder/internal/adapters/repository"
	"github.com/rotobot/bracketbuilder/internal/domain/compare"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// TeamsHandler handles reference data queries.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleListTeams handles GET /api/teams requests. Teams come back sorted
// by id so the listing is stable across calls.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	byID := h.deps.Teams(r.Context())

	teams := make([]*model.Team, 0, len(byID))
	for _, t := range byID {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })

	writeJSON(w, http.StatusOK, teams)
}

// HandleListPlayers handles GET /api/teams/{teamID}/players requests.
func (h *TeamsHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.deps.Players(r.Context(), r.PathValue("teamID"))
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "team_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type compareResponse struct {
	Team1      *model.Team          `json:"team1"`
	Team2      *model.Team          `json:"team2"`
	Categories []compare.Comparison `json:"categories"`
}

// HandleCompare handles GET /api/compare?team1=&team2= requests.
func (h *TeamsHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	id1 := r.URL.Query().Get("team1")
	id2 := r.URL.Query().Get("team2")
	if id1 == "" || id2 == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("team1 and team2 are required"))
		return
	}

	t1, err := h.deps.Team(r.Context(), id1)
	if err != nil {
		writeError(w, http.StatusNotFound, "team_not_found", err)
		return
	}
	t2, err := h.deps.Team(r.Context(), id2)
	if err != nil {
		writeError(w, http.StatusNotFound, "team_not_found", err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Team1:      t1,
		Team2:      t2,
		Categories: compare.Matchup(t1, t2),
	})
}

// HandleLogos handles GET /api/logos requests. The manifest may be empty
// until the background fetch lands.
func (h *TeamsHandler) HandleLogos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Logos(r.Context()))
}
