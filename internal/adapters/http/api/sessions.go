// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// createSessionRequest mirrors the OpenAPI schema for POST /api/sessions.
// Both fields are optional: an empty body yields a fresh machine-mode
// session.
type createSessionRequest struct {
	Token string `json:"token"`
	Mode  string `json:"mode"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
	Picks     int    `json:"picks"`
	ShareURL  string `json:"shareUrl"`
}

// HandleCreateSession handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
	}

	sess, err := h.deps.CreateSession(r.Context(), req.Token, model.ViewMode(req.Mode))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID(),
		Mode:      string(sess.Mode()),
		Picks:     sess.PickCount(),
		ShareURL:  sess.ShareURL(),
	})
}
