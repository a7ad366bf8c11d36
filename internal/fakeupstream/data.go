package fakeupstream

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rotobot/bracketbuilder/internal/domain/bracket"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// Seed pairings for a standard 16-team region in bracket order.
var seedPairs = [8][2]int{
	{1, 16}, {8, 9}, {5, 12}, {4, 13}, {6, 11}, {3, 14}, {7, 10}, {2, 15},
}

var conferences = []string{
	"ACC", "Big Ten", "Big 12", "SEC", "Big East", "Pac-12", "Mountain West", "WCC",
}

var positions = []string{"PG", "SG", "SF", "PF", "C"}

var classes = []string{"Fr", "So", "Jr", "Sr"}

var schools = []string{
	"State", "Tech", "A&M", "University", "College", "Institute", "Valley", "Central",
}

// Dataset is a complete generated tournament field: 64 teams, the
// Round-of-64 matchups, and a roster per team. Generation is
// deterministic for a given seed.
type Dataset struct {
	Teams    map[string]*model.Team
	Matchups []Matchup
	Players  map[string][]*model.Player
	Logos    map[string]string
}

// Matchup mirrors one record in the GET /api/bracket response.
type Matchup struct {
	ID        string `json:"id"`
	Round     int    `json:"round"`
	Region    string `json:"region"`
	Team1Seed int    `json:"team1Seed"`
	Team2Seed int    `json:"team2Seed"`

	Team1 *model.Team `json:"team1"`
	Team2 *model.Team `json:"team2"`

	RotoBotPick       string   `json:"rotobotPick"`
	RotoBotConfidence int      `json:"rotobotConfidence"`
	Analysis          string   `json:"analysis"`
	ProTeam1          []string `json:"proTeam1"`
	ProTeam2          []string `json:"proTeam2"`
	PickReasoning     string   `json:"pickReasoning"`
}

// Generate builds a full deterministic tournament field.
func Generate(seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := &Dataset{
		Teams:   make(map[string]*model.Team),
		Players: make(map[string][]*model.Player),
		Logos:   make(map[string]string),
	}

	for _, region := range bracket.RegionOrder {
		teams := make([]*model.Team, 17) // 1-based by seed
		for s := 1; s <= 16; s++ {
			t := generateTeam(rng, region, s)
			teams[s] = t
			ds.Teams[t.ID] = t
			ds.Players[t.ID] = generateRoster(rng, t)
			ds.Logos[t.ID] = fmt.Sprintf("https://cdn.example.com/logos/%s.png", t.ID)
		}

		for i, pair := range seedPairs {
			t1, t2 := teams[pair[0]], teams[pair[1]]
			pick := t1
			if t2.RotoBotScore > t1.RotoBotScore {
				pick = t2
			}
			ds.Matchups = append(ds.Matchups, Matchup{
				ID:                fmt.Sprintf("%s-r1-%d", regionSlug(region), i+1),
				Round:             bracket.RoundOf64,
				Region:            region,
				Team1:             t1,
				Team2:             t2,
				Team1Seed:         t1.Seed,
				Team2Seed:         t2.Seed,
				RotoBotPick:       pick.ID,
				RotoBotConfidence: 55 + rng.Intn(35),
				ProTeam1:          []string{},
				ProTeam2:          []string{},
			})
		}
	}

	return ds
}

func regionSlug(region string) string {
	return strings.ReplaceAll(strings.ToLower(region), " ", "-")
}

func generateTeam(rng *rand.Rand, region string, seed int) *model.Team {
	name := fmt.Sprintf("%s %s %d", region, schools[rng.Intn(len(schools))], seed)
	slug := regionSlug(name)

	// Better seeds trend toward better numbers, with noise so comparisons
	// are not a foregone conclusion.
	quality := float64(17-seed) / 16.0
	jitter := func(base, spread float64) float64 {
		return base + spread*(quality-0.5) + rng.Float64()*spread/4
	}

	wins := 18 + int(quality*14) + rng.Intn(3)
	losses := 34 - wins

	ppg := jitter(74, 16)
	oppg := jitter(70, -12)
	pace := 64 + rng.Float64()*10
	efg := jitter(0.51, 0.08)
	tov := jitter(0.17, -0.05)
	oreb := jitter(0.29, 0.07)

	t := &model.Team{
		ID:           slug,
		Name:         name,
		ShortName:    fmt.Sprintf("%.3s%d", strings.ToUpper(region), seed),
		Seed:         seed,
		Record:       fmt.Sprintf("%d-%d", wins, losses),
		Conference:   conferences[rng.Intn(len(conferences))],
		PPG:          round1(ppg),
		OPPG:         round1(oppg),
		Pace:         round1(pace),
		EFGPct:       round3(efg),
		TOVPct:       round3(tov),
		ORebPct:      round3(oreb),
		SOSRank:      1 + rng.Intn(150),
		NETRank:      seed*4 + rng.Intn(8),
		RecentForm:   generateForm(rng, quality),
		Color:        fmt.Sprintf("#%06x", rng.Intn(0x1000000)),
		RotoBotScore: round1(50 + quality*40 + rng.Float64()*8),
		RotoBotBlurb: fmt.Sprintf("%s wins with discipline on both ends.", name),
		StyleTags:    []string{"balanced"},
	}

	t.Stats = model.TeamStats{
		Scoring: model.ScoringStats{
			PPG:           t.PPG,
			OPPG:          t.OPPG,
			ScoringMargin: round1(t.PPG - t.OPPG),
			BenchPPG:      round1(t.PPG * 0.3),
			FastbreakPPG:  round1(t.PPG * 0.15),
		},
		Shooting: model.ShootingStats{
			FGPct:             round3(efg - 0.04),
			FGPctDefense:      round3(0.46 - quality*0.05),
			ThreePtPct:        round3(0.32 + quality*0.06),
			ThreePtPctDefense: round3(0.35 - quality*0.04),
			ThreePtAttemptsPG: round1(20 + rng.Float64()*8),
			FTPct:             round3(0.68 + quality*0.1),
			EFGPct:            t.EFGPct,
		},
		Rebounding: model.ReboundingStats{
			RPG:       round1(34 + quality*6),
			RebMargin: round1(quality*8 - 2),
			ORebPG:    round1(9 + quality*3),
			DRebPG:    round1(25 + quality*3),
			ORebPct:   t.ORebPct,
		},
		BallControl: model.BallControlStats{
			APG:             round1(12 + quality*5),
			TOPG:            round1(13 - quality*3),
			AstToRatio:      round1(1.0 + quality*0.6),
			TOVPct:          t.TOVPct,
			TurnoverMargin:  round1(quality*4 - 1),
			TurnoversForced: round1(12 + rng.Float64()*3),
		},
		Defense: model.DefenseStats{
			SPG:               round1(6 + quality*2),
			BPG:               round1(3 + quality*2),
			FPG:               round1(16 + rng.Float64()*3),
			OPPG:              t.OPPG,
			FGPctDefense:      round3(0.46 - quality*0.05),
			ThreePtPctDefense: round3(0.35 - quality*0.04),
		},
		Tempo: model.TempoStats{
			Pace:   t.Pace,
			WinPct: round3(float64(wins) / float64(wins+losses)),
		},
		Rankings: model.RankingStats{
			NETRank:    t.NETRank,
			APRank:     seed * 5,
			SOSRank:    t.SOSRank,
			PowerScore: t.RotoBotScore,
		},
		Schedule: model.ScheduleStats{
			Q1Record: fmt.Sprintf("%d-%d", int(quality*8), 4),
			Q2Record: fmt.Sprintf("%d-%d", 4+int(quality*4), 2),
			Q3Record: "6-1",
			Q4Record: "8-0",
		},
	}

	return t
}

func generateForm(rng *rand.Rand, quality float64) []string {
	form := make([]string, 5)
	for i := range form {
		if rng.Float64() < 0.35+quality*0.5 {
			form[i] = "W"
		} else {
			form[i] = "L"
		}
	}
	return form
}

func generateRoster(rng *rand.Rand, t *model.Team) []*model.Player {
	// Generate more than the service keeps so the roster trim has
	// something to do.
	roster := make([]*model.Player, 0, 12)
	for i := 0; i < 12; i++ {
		p := &model.Player{
			Name:        fmt.Sprintf("Player %d %s", i+1, t.ShortName),
			Team:        t.Name,
			TeamSlug:    t.ID,
			Position:    positions[i%len(positions)],
			Class:       classes[rng.Intn(len(classes))],
			Height:      fmt.Sprintf("6-%d", rng.Intn(10)),
			GamesPlayed: 28 + rng.Intn(7),
			Stats: model.PlayerStats{
				PPG:  round1(rng.Float64() * 22),
				RPG:  round1(rng.Float64() * 10),
				APG:  round1(rng.Float64() * 7),
				SPG:  round1(rng.Float64() * 2.5),
				BPG:  round1(rng.Float64() * 2),
				TOPG: round1(rng.Float64() * 3),
				MPG:  round1(10 + rng.Float64()*25),
			},
		}
		roster = append(roster, p)
	}

	// The top scorer becomes the team's key player.
	best := roster[0]
	for _, p := range roster[1:] {
		if p.Stats.PPG > best.Stats.PPG {
			best = p
		}
	}
	t.KeyPlayer = best.Name
	t.KeyPlayerStat = fmt.Sprintf("%.1f PPG", best.Stats.PPG)

	return roster
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
