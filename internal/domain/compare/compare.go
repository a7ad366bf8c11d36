// Package compare builds head-to-head stat comparisons between two teams.
package compare

import "github.com/rotobot/bracketbuilder/internal/domain/model"

// Edge markers for a single comparison row.
const (
	EdgeTeam1   = "team1"
	EdgeTeam2   = "team2"
	EdgeEven    = "even"
	EdgeNeutral = "neutral"
)

// Comparison is one labeled stat row with the side holding the edge.
type Comparison struct {
	Label      string  `json:"label"`
	Key        string  `json:"key"`
	Team1Value float64 `json:"team1Value"`
	Team2Value float64 `json:"team2Value"`
	Edge       string  `json:"edge"`
}

// category describes how one stat is extracted and judged. higherIsBetter
// is nil for neutral stats like pace where neither direction is an edge.
type category struct {
	label          string
	key            string
	value          func(*model.Team) float64
	higherIsBetter *bool
}

var yes = true
var no = false

var categories = []category{
	{"Points Per Game", "ppg", func(t *model.Team) float64 { return t.PPG }, &yes},
	{"Opp Points Per Game", "oppg", func(t *model.Team) float64 { return t.OPPG }, &no},
	{"eFG%", "eFGPct", func(t *model.Team) float64 { return t.EFGPct }, &yes},
	{"Opp FG%", "fgPctDefense", func(t *model.Team) float64 { return t.Stats.Defense.FGPctDefense }, &no},
	{"Pace", "pace", func(t *model.Team) float64 { return t.Pace }, nil},
	{"Turnover %", "tovPct", func(t *model.Team) float64 { return t.TOVPct }, &no},
	{"OREB%", "orebPct", func(t *model.Team) float64 { return t.ORebPct }, &yes},
	{"SOS Rank", "sosRank", func(t *model.Team) float64 { return float64(t.SOSRank) }, &no},
	{"NET Rank", "netRank", func(t *model.Team) float64 { return float64(t.NETRank) }, &no},
	{"RotoBot Score", "rotobotScore", func(t *model.Team) float64 { return t.RotoBotScore }, &yes},
}

// Matchup produces the full comparison table for two teams.
func Matchup(team1, team2 *model.Team) []Comparison {
	out := make([]Comparison, 0, len(categories))
	for _, c := range categories {
		v1, v2 := c.value(team1), c.value(team2)

		edge := EdgeNeutral
		switch {
		case c.higherIsBetter == nil:
			edge = EdgeNeutral
		case v1 == v2:
			edge = EdgeEven
		case (v1 > v2) == *c.higherIsBetter:
			edge = EdgeTeam1
		default:
			edge = EdgeTeam2
		}

		out = append(out, Comparison{
			Label:      c.label,
			Key:        c.key,
			Team1Value: v1,
			Team2Value: v2,
			Edge:       edge,
		})
	}
	return out
}
