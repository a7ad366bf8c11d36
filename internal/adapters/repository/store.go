// Package repository defines the reference-data store interface and errors.
//
// Teams, Round-of-64 games, and rosters are loaded once at bootstrap and
// are read-only for the life of the process.
package repository

import (
	"context"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// Store provides read access to bootstrap reference data.
type Store interface {
	// Load replaces the store contents atomically. Called once at
	// bootstrap before any reads.
	Load(ctx context.Context, teams map[string]*model.Team, regionGames map[string][]*model.Game, players map[string][]*model.Player)

	// Team returns a team by slug. Returns ErrTeamNotFound if unknown.
	Team(ctx context.Context, id string) (*model.Team, error)

	// Teams returns all teams keyed by slug.
	Teams(ctx context.Context) map[string]*model.Team

	// RegionGames returns the ordered Round-of-64 games for a region.
	// Returns ErrRegionNotFound for an unknown region.
	RegionGames(ctx context.Context, region string) ([]*model.Game, error)

	// Players returns the roster for a team, best scorers first.
	// Returns ErrTeamNotFound if the team has no roster.
	Players(ctx context.Context, teamID string) ([]*model.Player, error)

	// TeamCount returns the number of loaded teams.
	TeamCount(ctx context.Context) int
}
