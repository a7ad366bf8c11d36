package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// rosterLimit caps how many players are kept per team: starters plus the
// key bench guys, matching the upstream /api/players trim.
const rosterLimit = 8

// MemStore implements Store with in-memory maps.
type MemStore struct {
	mu          sync.RWMutex
	teams       map[string]*model.Team
	regionGames map[string][]*model.Game
	players     map[string][]*model.Player
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		teams:       make(map[string]*model.Team),
		regionGames: make(map[string][]*model.Game),
		players:     make(map[string][]*model.Player),
	}
}

// Load replaces the store contents. Rosters are sorted by PPG descending
// and trimmed to the top 8 at load time so reads stay copy-free.
func (s *MemStore) Load(ctx context.Context, teams map[string]*model.Team, regionGames map[string][]*model.Game, players map[string][]*model.Player) {
	trimmed := make(map[string][]*model.Player, len(players))
	for slug, roster := range players {
		sorted := make([]*model.Player, len(roster))
		copy(sorted, roster)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Stats.PPG > sorted[j].Stats.PPG
		})
		if len(sorted) > rosterLimit {
			sorted = sorted[:rosterLimit]
		}
		trimmed[slug] = sorted
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = teams
	s.regionGames = regionGames
	s.players = trimmed
}

// Team returns a team by slug.
func (s *MemStore) Team(ctx context.Context, id string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

// Teams returns all teams keyed by slug.
func (s *MemStore) Teams(ctx context.Context) map[string]*model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams
}

// RegionGames returns the ordered Round-of-64 games for a region.
func (s *MemStore) RegionGames(ctx context.Context, region string) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games, ok := s.regionGames[region]
	if !ok {
		return nil, ErrRegionNotFound
	}
	return games, nil
}

// Players returns a team's trimmed roster.
func (s *MemStore) Players(ctx context.Context, teamID string) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.players[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return roster, nil
}

// TeamCount returns the number of loaded teams.
func (s *MemStore) TeamCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}
