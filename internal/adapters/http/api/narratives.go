// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/rotobot/bracketbuilder/internal/app"
)

// NarrativesHandler handles narrative generation and retrieval.
type NarrativesHandler struct {
	deps Dependencies
}

// NewNarrativesHandler creates a new narratives handler.
func NewNarrativesHandler(deps Dependencies) *NarrativesHandler {
	return &NarrativesHandler{deps: deps}
}

// matchupRequest mirrors the OpenAPI schema for POST /api/matchup.
type matchupRequest struct {
	Team1Slug string `json:"team1Slug"`
	Team2Slug string `json:"team2Slug"`
	Round     int    `json:"round"`
	Region    string `json:"region"`
}

func (m matchupRequest) validate() error {
	switch {
	case strings.TrimSpace(m.Team1Slug) == "":
		return errors.New("missing team1Slug")
	case strings.TrimSpace(m.Team2Slug) == "":
		return errors.New("missing team2Slug")
	case m.Round < 1 || m.Round > 6:
		return errors.New("round must be between 1 and 6")
	}
	return nil
}

type narrativeStatusResponse struct {
	Status string `json:"status"`
}

// HandleGenerateNarrative handles POST /api/matchup requests. Generation
// is asynchronous: the 202 means the job is queued (or already running,
// or already done), and the narrative shows up on subsequent bracket and
// narrative queries.
func (h *NarrativesHandler) HandleGenerateNarrative(w http.ResponseWriter, r *http.Request) {
	var req matchupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	status, err := h.deps.RequestNarrative(r.Context(), req.Team1Slug, req.Team2Slug, req.Round, req.Region)
	if err != nil {
		if errors.Is(err, service.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	code := http.StatusAccepted
	if status == service.NarrativeCached {
		code = http.StatusOK
	}
	writeJSON(w, code, narrativeStatusResponse{Status: string(status)})
}

// HandleGetNarrative handles GET /api/narratives?team1=&team2= requests.
// 200 with the narrative when cached, 202 while one is generating, 404
// otherwise.
func (h *NarrativesHandler) HandleGetNarrative(w http.ResponseWriter, r *http.Request) {
	team1 := r.URL.Query().Get("team1")
	team2 := r.URL.Query().Get("team2")
	if team1 == "" || team2 == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("team1 and team2 are required"))
		return
	}

	if n, ok := h.deps.Narrative(r.Context(), team1, team2); ok {
		writeJSON(w, http.StatusOK, n)
		return
	}
	if h.deps.NarrativeLoading(r.Context(), team1, team2) {
		writeJSON(w, http.StatusAccepted, narrativeStatusResponse{Status: string(service.NarrativePending)})
		return
	}
	writeError(w, http.StatusNotFound, "narrative_not_found", errors.New("no narrative for pair"))
}
