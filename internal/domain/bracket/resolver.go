package bracket

import (
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/internal/domain/picks"
)

// Winner resolves the winning team of g under the given view mode, or nil
// when the game is undecided. Machine mode never returns nil for a
// well-formed game: when the game's own RotoBot pick matches neither team
// (freshly synthesized games), it falls back to comparing RotoBot scores
// with ties going to team1, so a machine-mode bracket is always complete.
func Winner(g *model.Game, ledger *picks.Ledger, mode model.ViewMode) *model.Team {
	if g == nil || g.Team1 == nil || g.Team2 == nil {
		return nil
	}

	if mode == model.ViewModeUser {
		teamID, ok := ledger.Pick(g.ID)
		if !ok {
			return nil
		}
		switch teamID {
		case g.Team1.ID:
			return g.Team1
		case g.Team2.ID:
			return g.Team2
		}
		// Stale or invalid pick: fail soft to undecided.
		return nil
	}

	// Machine mode. Upstream data stores the pick as an id for some games
	// and a display name for others, so match both.
	if pick := g.RotoBotPick; pick != "" {
		switch pick {
		case g.Team1.ID, g.Team1.Name:
			return g.Team1
		case g.Team2.ID, g.Team2.Name:
			return g.Team2
		}
	}
	if g.Team2.RotoBotScore > g.Team1.RotoBotScore {
		return g.Team2
	}
	return g.Team1
}
