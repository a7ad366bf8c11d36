package bracket

import (
	"fmt"
	"math"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/internal/domain/picks"
)

// Confidence clamp bounds for synthesized games. These are contract; the
// gap factor between them is a tuning constant.
const (
	minConfidence = 52
	maxConfidence = 92

	defaultGapFactor = 0.8
)

// NarrativeLookup returns the cached narrative for a pair of team ids, in
// request order, if one exists. The deriver overlays it on synthesized
// games just before returning them, which is how an asynchronously
// completed narrative shows up on the next query without any push.
type NarrativeLookup func(team1ID, team2ID string) (model.Narrative, bool)

// RegionBracket is the derived view of one region. Rounds beyond the first
// contain only realized games; a missing slot means "pick winners to
// advance".
type RegionBracket struct {
	R1  []*model.Game `json:"r1"`
	R2  []*model.Game `json:"r2"`
	S16 []*model.Game `json:"s16"`
	E8  []*model.Game `json:"e8"`
}

// FinalFourBracket is the derived cross-region view: the two national
// semifinals and, once both are decided, the championship game.
type FinalFourBracket struct {
	Teams        []*model.Team `json:"teams"`
	FF           []*model.Game `json:"ff"`
	Championship []*model.Game `json:"ch"`
}

// Deriver synthesizes rounds 2+ from Round-of-64 games and the ledger.
type Deriver struct {
	gapFactor  float64
	narratives NarrativeLookup
}

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithGapFactor sets the score-gap multiplier in the confidence formula.
func WithGapFactor(factor float64) Option {
	return func(d *Deriver) {
		if factor > 0 {
			d.gapFactor = factor
		}
	}
}

// WithNarrativeLookup sets the cache lookup used for narrative injection.
func WithNarrativeLookup(lookup NarrativeLookup) Option {
	return func(d *Deriver) {
		if lookup != nil {
			d.narratives = lookup
		}
	}
}

// NewDeriver creates a Deriver. Without a narrative lookup, synthesized
// games keep their empty narrative fields.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{
		gapFactor:  defaultGapFactor,
		narratives: func(string, string) (model.Narrative, bool) { return model.Narrative{}, false },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeriveRegion computes rounds 2 through Elite 8 for one region from its
// ordered Round-of-64 games. A region with fewer than 8 base games
// degrades to as many pairs as exist; it never errors.
func (d *Deriver) DeriveRegion(region string, r1 []*model.Game, ledger *picks.Ledger, mode model.ViewMode) RegionBracket {
	r2 := d.nextRound(region, RoundOf32, r1, ledger, mode)
	s16 := d.nextRound(region, Sweet16, r2, ledger, mode)
	e8 := d.nextRound(region, Elite8, s16, ledger, mode)

	return RegionBracket{
		R1:  r1,
		R2:  compact(r2),
		S16: compact(s16),
		E8:  compact(e8),
	}
}

// RegionWinner resolves the region's Elite-8 winner, or nil while any game
// on the path to it is undecided.
func (d *Deriver) RegionWinner(region string, r1 []*model.Game, ledger *picks.Ledger, mode model.ViewMode) *model.Team {
	r2 := d.nextRound(region, RoundOf32, r1, ledger, mode)
	s16 := d.nextRound(region, Sweet16, r2, ledger, mode)
	e8 := d.nextRound(region, Elite8, s16, ledger, mode)
	if len(e8) == 0 || e8[0] == nil {
		return nil
	}
	return Winner(e8[0], ledger, mode)
}

// DeriveFinalFour applies the pairing rule across the four regional
// winners, given in RegionOrder (East, West, South, Midwest). Semifinals
// unlock only when both of their feeder regions are decided.
func (d *Deriver) DeriveFinalFour(winners []*model.Team, ledger *picks.Ledger, mode model.ViewMode) FinalFourBracket {
	ff := make([]*model.Game, 2)
	if len(winners) == len(RegionOrder) {
		// East vs West, South vs Midwest.
		if winners[0] != nil && winners[1] != nil {
			ff[0] = d.synthesize(FinalFourRegion, FinalFour, 1, winners[0], winners[1])
		}
		if winners[2] != nil && winners[3] != nil {
			ff[1] = d.synthesize(FinalFourRegion, FinalFour, 2, winners[2], winners[3])
		}
	}

	ch := d.nextRound(FinalFourRegion, Championship, ff, ledger, mode)

	return FinalFourBracket{
		Teams:        winners,
		FF:           compact(ff),
		Championship: compact(ch),
	}
}

// nextRound pairs consecutive slots of the previous round: (0,1), (2,3),
// and so on. A slot is produced only when both feeder games exist and both
// winners are decided; otherwise it stays nil so later rounds keep their
// bracket positions.
func (d *Deriver) nextRound(region string, round int, prev []*model.Game, ledger *picks.Ledger, mode model.ViewMode) []*model.Game {
	out := make([]*model.Game, len(prev)/2)
	for i := range out {
		a, b := prev[2*i], prev[2*i+1]
		if a == nil || b == nil {
			continue
		}
		w1 := Winner(a, ledger, mode)
		w2 := Winner(b, ledger, mode)
		if w1 == nil || w2 == nil {
			continue
		}
		out[i] = d.synthesize(region, round, i+1, w1, w2)
	}
	return out
}

// synthesize constructs a live game for two resolved winners. The machine
// pick favors the higher RotoBot score (ties to team1) and its confidence
// grows with the score gap, clamped to [52, 92]. Narrative fields start
// empty and are overlaid from the cache when available.
func (d *Deriver) synthesize(region string, round, index int, team1, team2 *model.Team) *model.Game {
	pick := team1
	if team2.RotoBotScore > team1.RotoBotScore {
		pick = team2
	}
	gap := math.Abs(team1.RotoBotScore - team2.RotoBotScore)
	confidence := int(math.Min(maxConfidence, math.Max(minConfidence, 50+d.gapFactor*gap)))

	g := &model.Game{
		ID:                fmt.Sprintf("%s-%s-%d", regionSlug(region), RoundTag(round), index),
		Round:             round,
		Region:            region,
		Team1:             team1,
		Team2:             team2,
		Team1Seed:         team1.Seed,
		Team2Seed:         team2.Seed,
		RotoBotPick:       pick.ID,
		RotoBotConfidence: confidence,
		ProTeam1:          []string{},
		ProTeam2:          []string{},
		Live:              true,
	}
	d.injectNarrative(g)
	return g
}

// injectNarrative overlays cached analysis onto a synthesized game that
// has none yet. A cached pick also overrides the score-derived machine
// pick, since the generator saw more than the two scalar scores.
func (d *Deriver) injectNarrative(g *model.Game) {
	if g.Analysis != "" {
		return
	}
	n, ok := d.narratives(g.Team1.ID, g.Team2.ID)
	if !ok {
		return
	}
	g.Analysis = n.Analysis
	// Keep the non-nil empty lists when the cached bundle has none, so the
	// game still serializes bullets as [] rather than null.
	if n.ProTeam1 != nil {
		g.ProTeam1 = n.ProTeam1
	}
	if n.ProTeam2 != nil {
		g.ProTeam2 = n.ProTeam2
	}
	g.PickReasoning = n.PickReasoning
	if n.RotoBotPick != "" {
		g.RotoBotPick = n.RotoBotPick
		g.RotoBotConfidence = n.RotoBotConfidence
	}
}

// compact drops unrealized slots for the outward-facing round lists.
func compact(games []*model.Game) []*model.Game {
	out := make([]*model.Game, 0, len(games))
	for _, g := range games {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}
