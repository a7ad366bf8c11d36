// Package fakeupstream is a stand-in for the BracketBuilder data API. It
// serves a deterministic generated tournament field over the same wire
// shapes, for local development and integration tests.
package fakeupstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Server serves the fake data API.
type Server struct {
	data           *Dataset
	narrativeDelay time.Duration
	mux            *http.ServeMux
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithSeed regenerates the dataset from the given seed.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.data = Generate(seed)
	}
}

// WithNarrativeDelay simulates generation latency on POST /api/matchup.
func WithNarrativeDelay(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.narrativeDelay = d
		}
	}
}

// NewServer creates a fake data API with a default dataset.
func NewServer(opts ...Option) *Server {
	s := &Server{
		data: Generate(1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /api/teams", s.handleTeams)
	s.mux.HandleFunc("GET /api/bracket", s.handleBracket)
	s.mux.HandleFunc("GET /api/players", s.handlePlayers)
	s.mux.HandleFunc("GET /api/espn/logos", s.handleLogos)
	s.mux.HandleFunc("POST /api/matchup", s.handleMatchup)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Data exposes the generated dataset, mainly for test assertions.
func (s *Server) Data() *Dataset {
	return s.data
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.data.Teams)
}

func (s *Server) handleBracket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"matchups": s.data.Matchups})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.data.Players)
}

func (s *Server) handleLogos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.data.Logos)
}

func (s *Server) handleMatchup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team1Slug string `json:"team1Slug"`
		Team2Slug string `json:"team2Slug"`
		Round     int    `json:"round"`
		Region    string `json:"region"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	t1, ok1 := s.data.Teams[req.Team1Slug]
	t2, ok2 := s.data.Teams[req.Team2Slug]
	if !ok1 || !ok2 {
		http.Error(w, "unknown team", http.StatusNotFound)
		return
	}

	if s.narrativeDelay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.narrativeDelay):
		}
	}

	pick := t1
	if t2.RotoBotScore > t1.RotoBotScore {
		pick = t2
	}
	writeJSON(w, map[string]any{
		"analysis": fmt.Sprintf("%s meets %s in a clash of contrasting tempos.", t1.Name, t2.Name),
		"proTeam1": []string{
			fmt.Sprintf("%s shoots %.1f%% effective from the field.", t1.Name, t1.EFGPct*100),
			fmt.Sprintf("Scoring margin of %.1f per game.", t1.Stats.Scoring.ScoringMargin),
		},
		"proTeam2": []string{
			fmt.Sprintf("%s forces %.1f turnovers per game.", t2.Name, t2.Stats.BallControl.TurnoversForced),
			fmt.Sprintf("Holding opponents to %.1f points.", t2.OPPG),
		},
		"rotobotPick":       pick.ID,
		"rotobotConfidence": 60 + int(pick.RotoBotScore-min(t1.RotoBotScore, t2.RotoBotScore))/2,
		"pickReasoning":     fmt.Sprintf("%s grades out higher on the season-long numbers.", pick.Name),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
