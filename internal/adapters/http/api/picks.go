// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// PicksHandler handles pick, mode, and share requests for a session.
type PicksHandler struct {
	deps Dependencies
}

// NewPicksHandler creates a new picks handler.
func NewPicksHandler(deps Dependencies) *PicksHandler {
	return &PicksHandler{deps: deps}
}

// pickRequest mirrors the OpenAPI schema for POST .../picks.
type pickRequest struct {
	GameID string `json:"gameId"`
	TeamID string `json:"teamId"`
}

func (p pickRequest) validate() error {
	switch {
	case strings.TrimSpace(p.GameID) == "":
		return errors.New("missing gameId")
	case strings.TrimSpace(p.TeamID) == "":
		return errors.New("missing teamId")
	}
	return nil
}

type picksResponse struct {
	Picks int    `json:"picks"`
	Mode  string `json:"mode"`
}

// HandleMakePick handles POST /api/sessions/{sessionID}/picks.
func (h *PicksHandler) HandleMakePick(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	var req pickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sess.MakePick(req.GameID, req.TeamID)
	writeJSON(w, http.StatusOK, picksResponse{Picks: sess.PickCount(), Mode: string(sess.Mode())})
}

// HandleClearPicks handles DELETE /api/sessions/{sessionID}/picks.
func (h *PicksHandler) HandleClearPicks(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	sess.ClearPicks()
	writeJSON(w, http.StatusOK, picksResponse{Picks: 0, Mode: string(sess.Mode())})
}

// modeRequest mirrors the OpenAPI schema for PUT .../mode.
type modeRequest struct {
	Mode string `json:"mode"`
}

// HandleSetMode handles PUT /api/sessions/{sessionID}/mode.
func (h *PicksHandler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := sess.SetMode(model.ViewMode(req.Mode)); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	writeJSON(w, http.StatusOK, picksResponse{Picks: sess.PickCount(), Mode: string(sess.Mode())})
}

type shareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// HandleShare handles GET /api/sessions/{sessionID}/share.
func (h *PicksHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{Token: sess.Token(), URL: sess.ShareURL()})
}
