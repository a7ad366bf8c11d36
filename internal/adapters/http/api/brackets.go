// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rotobot/bracketbuilder/internal/adapters/repository"
	service "github.com/rotobot/bracketbuilder/internal/app"
	"github.com/rotobot/bracketbuilder/internal/domain/bracket"
)

// BracketsHandler handles derived bracket queries.
type BracketsHandler struct {
	deps Dependencies
}

// NewBracketsHandler creates a new brackets handler.
func NewBracketsHandler(deps Dependencies) *BracketsHandler {
	return &BracketsHandler{deps: deps}
}

// canonicalRegion maps a case-insensitive path value to the stored region
// name, so /regions/east and /regions/East both work.
func canonicalRegion(raw string) (string, bool) {
	for _, region := range bracket.RegionOrder {
		if strings.EqualFold(raw, region) {
			return region, true
		}
	}
	return "", false
}

// HandleGetRegion handles GET /api/sessions/{sessionID}/regions/{region}.
func (h *BracketsHandler) HandleGetRegion(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	region, ok := canonicalRegion(r.PathValue("region"))
	if !ok {
		writeError(w, http.StatusNotFound, "region_not_found", ErrRegionNotFound)
		return
	}

	rb, err := sess.RegionGames(r.Context(), region)
	if err != nil {
		if errors.Is(err, repository.ErrRegionNotFound) {
			writeError(w, http.StatusNotFound, "region_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, rb)
}

// HandleGetFinalFour handles GET /api/sessions/{sessionID}/finalfour.
func (h *BracketsHandler) HandleGetFinalFour(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	ffb, err := sess.FinalFour(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, ffb)
}

// HandleGetGame handles GET /api/sessions/{sessionID}/games/{gameID}.
func (h *BracketsHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromPath(w, r, h.deps)
	if sess == nil {
		return
	}

	g, err := sess.FindGame(r.Context(), r.PathValue("gameID"))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
