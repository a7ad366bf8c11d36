// Package model contains domain models passed between layers.
package model

// ViewMode selects how game winners are resolved.
type ViewMode string

// The two viewing modes. Machine mode resolves every game from RotoBot
// scores; user mode resolves strictly from the pick ledger.
const (
	ViewModeMachine ViewMode = "machine"
	ViewModeUser    ViewMode = "user"
)

// Valid reports whether m is one of the two known modes.
func (m ViewMode) Valid() bool {
	return m == ViewModeMachine || m == ViewModeUser
}

// Team is a tournament entrant. Teams are read-only reference data loaded
// once at bootstrap; fields mirror the upstream teams.json shape.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShortName  string `json:"shortName"`
	Seed       int    `json:"seed"`
	Record     string `json:"record"`
	Conference string `json:"conference"`

	PPG     float64 `json:"ppg"`
	OPPG    float64 `json:"oppg"`
	Pace    float64 `json:"pace"`
	EFGPct  float64 `json:"eFGPct"`
	TOVPct  float64 `json:"tovPct"`
	ORebPct float64 `json:"orebPct"`
	SOSRank int     `json:"sosRank"`
	NETRank int     `json:"netRank"`

	RecentForm []string `json:"recentForm"`
	Color      string   `json:"color"`

	RotoBotScore float64 `json:"rotobotScore"`
	RotoBotBlurb string  `json:"rotobotBlurb"`

	KeyPlayer     string `json:"keyPlayer"`
	KeyPlayerStat string `json:"keyPlayerStat"`

	StyleTags     []string `json:"styleTags"`
	StyleSummary  string   `json:"styleSummary"`
	StyleIdentity string   `json:"styleIdentity"`
	StyleWeakness string   `json:"styleWeakness"`

	Stats TeamStats `json:"stats"`
}

// TeamStats is the extended season-statistics bundle grouped the way the
// upstream export groups it.
type TeamStats struct {
	Scoring     ScoringStats     `json:"scoring"`
	Shooting    ShootingStats    `json:"shooting"`
	Rebounding  ReboundingStats  `json:"rebounding"`
	BallControl BallControlStats `json:"ballControl"`
	Defense     DefenseStats     `json:"defense"`
	Tempo       TempoStats       `json:"tempo"`
	Rankings    RankingStats     `json:"rankings"`
	Schedule    ScheduleStats    `json:"schedule"`
}

// ScoringStats covers points scored and allowed.
type ScoringStats struct {
	PPG           float64 `json:"ppg"`
	OPPG          float64 `json:"oppg"`
	ScoringMargin float64 `json:"scoringMargin"`
	BenchPPG      float64 `json:"benchPPG"`
	FastbreakPPG  float64 `json:"fastbreakPPG"`
}

// ShootingStats covers field goal efficiency both ways.
type ShootingStats struct {
	FGPct             float64 `json:"fgPct"`
	FGPctDefense      float64 `json:"fgPctDefense"`
	ThreePtPct        float64 `json:"threePtPct"`
	ThreePtPctDefense float64 `json:"threePtPctDefense"`
	ThreePtAttemptsPG float64 `json:"threePtAttemptsPG"`
	FTPct             float64 `json:"ftPct"`
	EFGPct            float64 `json:"eFGPct"`
}

// ReboundingStats covers the glass.
type ReboundingStats struct {
	RPG       float64 `json:"rpg"`
	RebMargin float64 `json:"rebMargin"`
	ORebPG    float64 `json:"orebPG"`
	DRebPG    float64 `json:"drebPG"`
	ORebPct   float64 `json:"orebPct"`
}

// BallControlStats covers assists and turnovers.
type BallControlStats struct {
	APG             float64 `json:"apg"`
	TOPG            float64 `json:"topg"`
	AstToRatio      float64 `json:"astToRatio"`
	TOVPct          float64 `json:"tovPct"`
	TurnoverMargin  float64 `json:"turnoverMargin"`
	TurnoversForced float64 `json:"turnoversForcedPG"`
}

// DefenseStats covers stocks and opponent efficiency.
type DefenseStats struct {
	SPG               float64 `json:"spg"`
	BPG               float64 `json:"bpg"`
	FPG               float64 `json:"fpg"`
	OPPG              float64 `json:"oppg"`
	FGPctDefense      float64 `json:"fgPctDefense"`
	ThreePtPctDefense float64 `json:"threePtPctDefense"`
}

// TempoStats covers pace of play.
type TempoStats struct {
	Pace   float64 `json:"pace"`
	WinPct float64 `json:"winPct"`
}

// RankingStats covers national rankings and the blended power score.
type RankingStats struct {
	NETRank    int     `json:"netRank"`
	APRank     int     `json:"apRank"`
	SOSRank    int     `json:"sosRank"`
	PowerScore float64 `json:"powerScore"`
}

// ScheduleStats covers quadrant records (schedule quality).
type ScheduleStats struct {
	Q1Record string `json:"q1Record"`
	Q2Record string `json:"q2Record"`
	Q3Record string `json:"q3Record"`
	Q4Record string `json:"q4Record"`
}

// Game is a single matchup. Round-of-64 games come from upstream; games for
// round >= 2 are synthesized on demand and carry Live=true until their own
// narrative has been generated.
type Game struct {
	ID     string `json:"id"`
	Round  int    `json:"round"`
	Region string `json:"region"`

	Team1 *Team `json:"team1"`
	Team2 *Team `json:"team2"`

	Team1Seed int `json:"team1Seed"`
	Team2Seed int `json:"team2Seed"`

	RotoBotPick       string `json:"rotobotPick"`
	RotoBotConfidence int    `json:"rotobotConfidence"`

	Analysis      string   `json:"analysis"`
	ProTeam1      []string `json:"proTeam1"`
	ProTeam2      []string `json:"proTeam2"`
	PickReasoning string   `json:"pickReasoning"`

	Live bool `json:"isLive,omitempty"`
}

// Narrative is the AI-generated analysis bundle for one team pair.
type Narrative struct {
	Analysis          string   `json:"analysis"`
	ProTeam1          []string `json:"proTeam1"`
	ProTeam2          []string `json:"proTeam2"`
	RotoBotPick       string   `json:"rotobotPick"`
	RotoBotConfidence int      `json:"rotobotConfidence"`
	PickReasoning     string   `json:"pickReasoning"`
}

// Player is one roster entry, trimmed to the fields the bootstrap keeps.
type Player struct {
	Name        string      `json:"name"`
	Team        string      `json:"team"`
	TeamSlug    string      `json:"teamSlug"`
	Position    string      `json:"position"`
	Class       string      `json:"class"`
	Height      string      `json:"height"`
	GamesPlayed int         `json:"gamesPlayed"`
	Stats       PlayerStats `json:"stats"`
}

// PlayerStats is the per-game line for a player.
type PlayerStats struct {
	PPG  float64 `json:"ppg"`
	RPG  float64 `json:"rpg"`
	APG  float64 `json:"apg"`
	SPG  float64 `json:"spg"`
	BPG  float64 `json:"bpg"`
	TOPG float64 `json:"topg"`
	MPG  float64 `json:"mpg"`
}
