// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/rotobot/bracketbuilder/internal/app"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	CreateSession(ctx context.Context, token string, mode model.ViewMode) (*service.Session, error)
	Session(id string) (*service.Session, bool)

	// Narrative pipeline.
	RequestNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (service.NarrativeStatus, error)
	Narrative(ctx context.Context, team1Slug, team2Slug string) (model.Narrative, bool)
	NarrativeLoading(ctx context.Context, team1Slug, team2Slug string) bool

	// Reference data.
	Team(ctx context.Context, id string) (*model.Team, error)
	Teams(ctx context.Context) map[string]*model.Team
	Players(ctx context.Context, teamID string) ([]*model.Player, error)
	Logos(ctx context.Context) map[string]string

	// Operational.
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	sessionsHandler   *SessionsHandler
	bracketsHandler   *BracketsHandler
	picksHandler      *PicksHandler
	narrativesHandler *NarrativesHandler
	teamsHandler      *TeamsHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		sessionsHandler:   NewSessionsHandler(deps),
		bracketsHandler:   NewBracketsHandler(deps),
		picksHandler:      NewPicksHandler(deps),
		narrativesHandler: NewNarrativesHandler(deps),
		teamsHandler:      NewTeamsHandler(deps),
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, "sessions"))

	mux.HandleFunc("GET /api/sessions/{sessionID}/regions/{region}", MetricsMiddleware(s.bracketsHandler.HandleGetRegion, "region"))
	mux.HandleFunc("GET /api/sessions/{sessionID}/finalfour", MetricsMiddleware(s.bracketsHandler.HandleGetFinalFour, "finalfour"))
	mux.HandleFunc("GET /api/sessions/{sessionID}/games/{gameID}", MetricsMiddleware(s.bracketsHandler.HandleGetGame, "game"))

	mux.HandleFunc("POST /api/sessions/{sessionID}/picks", MetricsMiddleware(s.picksHandler.HandleMakePick, "picks"))
	mux.HandleFunc("DELETE /api/sessions/{sessionID}/picks", MetricsMiddleware(s.picksHandler.HandleClearPicks, "picks"))
	mux.HandleFunc("PUT /api/sessions/{sessionID}/mode", MetricsMiddleware(s.picksHandler.HandleSetMode, "mode"))
	mux.HandleFunc("GET /api/sessions/{sessionID}/share", MetricsMiddleware(s.picksHandler.HandleShare, "share"))

	mux.HandleFunc("POST /api/matchup", MetricsMiddleware(s.narrativesHandler.HandleGenerateNarrative, "matchup"))
	mux.HandleFunc("GET /api/narratives", MetricsMiddleware(s.narrativesHandler.HandleGetNarrative, "narratives"))

	mux.HandleFunc("GET /api/teams", MetricsMiddleware(s.teamsHandler.HandleListTeams, "teams"))
	mux.HandleFunc("GET /api/teams/{teamID}/players", MetricsMiddleware(s.teamsHandler.HandleListPlayers, "players"))
	mux.HandleFunc("GET /api/compare", MetricsMiddleware(s.teamsHandler.HandleCompare, "compare"))
	mux.HandleFunc("GET /api/logos", MetricsMiddleware(s.teamsHandler.HandleLogos, "logos"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

// sessionFromPath resolves the {sessionID} path value, writing a 404 on
// failure. Returns nil when the response has already been written.
func sessionFromPath(w http.ResponseWriter, r *http.Request, deps Dependencies) *service.Session {
	id := r.PathValue("sessionID")
	sess, ok := deps.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session_not_found", ErrSessionNotFound)
		return nil
	}
	return sess
}
