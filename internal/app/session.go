package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rotobot/bracketbuilder/internal/domain/bracket"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/internal/domain/picks"
	"github.com/rotobot/bracketbuilder/pkg/logger"
	"github.com/rotobot/bracketbuilder/pkg/metrics"
)

// Session is one viewer's bracket: their pick ledger and view mode. The
// derived rounds are never stored; every query recomputes them from the
// Round-of-64 games and the ledger.
type Session struct {
	id        string
	createdAt time.Time

	mu     sync.RWMutex
	ledger *picks.Ledger
	mode   model.ViewMode

	svc *Service
}

// CreateSession creates a session, optionally hydrated from a share
// token. A malformed token yields an empty ledger rather than an error.
// Hydrating from a token forces user mode, since the token carries a
// person's picks.
func (s *Service) CreateSession(ctx context.Context, token string, mode model.ViewMode) (*Session, error) {
	if mode == "" {
		mode = model.ViewModeMachine
	}
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	m, err := picks.Decode(token)
	if err != nil {
		metrics.RecordTokenDecodeError()
		s.logger.Warn(ctx, "share token rejected, starting empty",
			logger.Int("tokenLength", len(token)),
			logger.Error(err),
		)
	}
	if len(m) > 0 {
		mode = model.ViewModeUser
	}

	sess := &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		ledger:    picks.FromMap(m),
		mode:      mode,
		svc:       s,
	}

	s.sessionsMu.Lock()
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.sessionsMu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(active)

	s.logger.Debug(ctx, "session created",
		logger.String("sessionID", sess.id),
		logger.String("mode", string(mode)),
		logger.Int("hydratedPicks", len(m)),
	)
	return sess, nil
}

// Session returns a session by id.
func (s *Service) Session(id string) (*Session, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// RemoveSession drops a session. Unknown ids are a no-op.
func (s *Service) RemoveSession(id string) {
	s.sessionsMu.Lock()
	delete(s.sessions, id)
	active := len(s.sessions)
	s.sessionsMu.Unlock()
	metrics.UpdateActiveSessions(active)
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Mode returns the current view mode.
func (s *Session) Mode() model.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches between machine and user view. Picks survive the
// switch; only winner resolution changes.
func (s *Session) SetMode(mode model.ViewMode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

// MakePick records the viewer's winner for a game, overwriting any
// earlier pick for that game.
func (s *Session) MakePick(gameID, teamID string) {
	s.mu.RLock()
	s.ledger.MakePick(gameID, teamID)
	s.mu.RUnlock()
	metrics.RecordPick()
}

// ClearPicks removes every pick.
func (s *Session) ClearPicks() {
	s.mu.RLock()
	s.ledger.Clear()
	s.mu.RUnlock()
	metrics.RecordPicksCleared()
}

// Pick returns the viewer's pick for a game, if any.
func (s *Session) Pick(gameID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Pick(gameID)
}

// PickCount returns how many games have a pick.
func (s *Session) PickCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Len()
}

// Token encodes the ledger as a URL-safe share token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Encode()
}

// ShareURL builds the full shareable link for this session's bracket.
// The token rides in the fragment so it never reaches server logs.
func (s *Session) ShareURL() string {
	return s.svc.publicBaseURL + "/bracket#" + s.Token()
}

// RegionGames derives the full view of one region under this session's
// ledger and mode.
func (s *Session) RegionGames(ctx context.Context, region string) (bracket.RegionBracket, error) {
	r1, err := s.svc.store.RegionGames(ctx, region)
	if err != nil {
		return bracket.RegionBracket{}, err
	}

	s.mu.RLock()
	ledger, mode := s.ledger, s.mode
	s.mu.RUnlock()

	start := time.Now()
	rb := s.svc.deriver.DeriveRegion(region, s.svc.overlayRound1(r1), ledger, mode)
	metrics.RecordDerivation()
	metrics.RecordDerivationLatency(float64(time.Since(start).Milliseconds()))
	return rb, nil
}

// FinalFour derives the cross-region view: regional winners in canonical
// order, the national semifinals, and the championship.
func (s *Session) FinalFour(ctx context.Context) (bracket.FinalFourBracket, error) {
	s.mu.RLock()
	ledger, mode := s.ledger, s.mode
	s.mu.RUnlock()

	start := time.Now()
	winners := make([]*model.Team, len(bracket.RegionOrder))
	for i, region := range bracket.RegionOrder {
		r1, err := s.svc.store.RegionGames(ctx, region)
		if err != nil {
			return bracket.FinalFourBracket{}, err
		}
		winners[i] = s.svc.deriver.RegionWinner(region, r1, ledger, mode)
	}

	ffb := s.svc.deriver.DeriveFinalFour(winners, ledger, mode)
	metrics.RecordDerivation()
	metrics.RecordDerivationLatency(float64(time.Since(start).Milliseconds()))
	return ffb, nil
}

// FindGame locates a game by id anywhere in the session's bracket,
// including derived rounds and the Final Four.
func (s *Session) FindGame(ctx context.Context, gameID string) (*model.Game, error) {
	for _, region := range bracket.RegionOrder {
		rb, err := s.RegionGames(ctx, region)
		if err != nil {
			return nil, err
		}
		for _, round := range [][]*model.Game{rb.R1, rb.R2, rb.S16, rb.E8} {
			for _, g := range round {
				if g != nil && g.ID == gameID {
					return g, nil
				}
			}
		}
	}

	ffb, err := s.FinalFour(ctx)
	if err != nil {
		return nil, err
	}
	for _, round := range [][]*model.Game{ffb.FF, ffb.Championship} {
		for _, g := range round {
			if g != nil && g.ID == gameID {
				return g, nil
			}
		}
	}

	return nil, ErrGameNotFound
}

// overlayRound1 applies cached narratives to Round-of-64 games that have
// no analysis yet. Stored games are shared across sessions, so any game
// that gains an overlay is copied first.
func (s *Service) overlayRound1(r1 []*model.Game) []*model.Game {
	out := make([]*model.Game, len(r1))
	for i, g := range r1 {
		if g == nil || g.Analysis != "" || g.Team1 == nil || g.Team2 == nil {
			out[i] = g
			continue
		}
		n, ok := s.narratives.Get(g.Team1.ID, g.Team2.ID)
		if !ok {
			out[i] = g
			continue
		}
		clone := *g
		clone.Analysis = n.Analysis
		clone.ProTeam1 = n.ProTeam1
		clone.ProTeam2 = n.ProTeam2
		clone.PickReasoning = n.PickReasoning
		if n.RotoBotPick != "" {
			clone.RotoBotPick = n.RotoBotPick
			clone.RotoBotConfidence = n.RotoBotConfidence
		}
		out[i] = &clone
	}
	return out
}
