// Package upstream is the HTTP client for the BracketBuilder data API: the
// collaborator that supplies teams, the Round-of-64 bracket, rosters, the
// logo manifest, and AI narrative generation.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/pkg/metrics"
)

const defaultRequestTimeout = 30 * time.Second

// Client talks to the upstream data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestTimeout sets the per-request timeout of the default client.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a Client for the given base URL, e.g.
// "https://api.bracketbuilder.example.com".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BootstrapData is everything the three required bootstrap fetches return,
// already normalized.
type BootstrapData struct {
	Teams       map[string]*model.Team
	RegionGames map[string][]*model.Game
	Players     map[string][]*model.Player
}

// Bootstrap runs the three required fetches in parallel. Any failure fails
// the whole bootstrap; there is no partial result.
func (c *Client) Bootstrap(ctx context.Context) (*BootstrapData, error) {
	var (
		teams    map[string]*model.Team
		matchups []bracketMatchup
		players  map[string][]*model.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = c.FetchTeams(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matchups, err = c.fetchMatchups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = c.FetchPlayers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &BootstrapData{
		Teams:       teams,
		RegionGames: normalizeMatchups(matchups, teams),
		Players:     players,
	}, nil
}

// FetchTeams retrieves the full team map from GET /api/teams.
func (c *Client) FetchTeams(ctx context.Context) (map[string]*model.Team, error) {
	var teams map[string]*model.Team
	if err := c.getJSON(ctx, "/api/teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// FetchPlayers retrieves rosters grouped by team slug from GET /api/players.
func (c *Client) FetchPlayers(ctx context.Context) (map[string][]*model.Player, error) {
	var players map[string][]*model.Player
	if err := c.getJSON(ctx, "/api/players", &players); err != nil {
		return nil, err
	}
	return players, nil
}

// FetchLogoManifest retrieves the slug-to-URL logo map. Cosmetic only;
// callers treat a failure as "no logos".
func (c *Client) FetchLogoManifest(ctx context.Context) (map[string]string, error) {
	var logos map[string]string
	if err := c.getJSON(ctx, "/api/espn/logos", &logos); err != nil {
		return nil, err
	}
	return logos, nil
}

// GenerateNarrative asks the upstream AI proxy for a matchup analysis via
// POST /api/matchup. This is the one expensive call the service issues;
// de-duplication lives in the narrative cache, not here.
func (c *Client) GenerateNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (model.Narrative, error) {
	const endpoint = "/api/matchup"

	body, err := json.Marshal(map[string]any{
		"team1Slug": team1Slug,
		"team2Slug": team2Slug,
		"round":     round,
		"region":    region,
	})
	if err != nil {
		return model.Narrative{}, fmt.Errorf("encode matchup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Narrative{}, fmt.Errorf("build matchup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamLatency(endpoint, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamError(endpoint)
		return model.Narrative{}, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(endpoint, resp.Status)
	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamError(endpoint)
		return model.Narrative{}, fmt.Errorf("POST %s: %w: %s", endpoint, ErrBadStatus, resp.Status)
	}

	var n model.Narrative
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		metrics.RecordUpstreamError(endpoint)
		return model.Narrative{}, fmt.Errorf("POST %s: %w: %v", endpoint, ErrDecode, err)
	}
	return n, nil
}

// bracketMatchup mirrors one raw Round-of-64 record in GET /api/bracket.
// Team objects are embedded whole, with seed/pick metadata duplicated at
// the matchup level.
type bracketMatchup struct {
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

type bracketResponse struct {
	Matchups []bracketMatchup `json:"matchups"`
}

func (c *Client) fetchMatchups(ctx context.Context) ([]bracketMatchup, error) {
	var bracket bracketResponse
	if err := c.getJSON(ctx, "/api/bracket", &bracket); err != nil {
		return nil, err
	}
	return bracket.Matchups, nil
}

// normalizeMatchups turns raw matchup records into Games grouped by region,
// resolving embedded teams against the canonical team map so every Game
// shares one Team instance per slug, and preferring the matchup-level seed
// over the one embedded in the team object.
func normalizeMatchups(matchups []bracketMatchup, teams map[string]*model.Team) map[string][]*model.Game {
	resolve := func(embedded *model.Team, seed int) *model.Team {
		if embedded == nil {
			return nil
		}
		t := embedded
		if canonical, ok := teams[embedded.ID]; ok {
			t = canonical
		}
		if seed > 0 {
			t.Seed = seed
		}
		return t
	}

	out := make(map[string][]*model.Game)
	for _, m := range matchups {
		if m.Round != 1 {
			continue
		}
		g := &model.Game{
			ID:                m.ID,
			Round:             m.Round,
			Region:            m.Region,
			Team1:             resolve(m.Team1, m.Team1Seed),
			Team2:             resolve(m.Team2, m.Team2Seed),
			Team1Seed:         m.Team1Seed,
			Team2Seed:         m.Team2Seed,
			RotoBotPick:       m.RotoBotPick,
			RotoBotConfidence: m.RotoBotConfidence,
			Analysis:          m.Analysis,
			ProTeam1:          m.ProTeam1,
			ProTeam2:          m.ProTeam2,
			PickReasoning:     m.PickReasoning,
		}
		if g.Team1 == nil || g.Team2 == nil {
			continue
		}
		out[m.Region] = append(out[m.Region], g)
	}
	return out
}

// getJSON performs a GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamLatency(endpoint, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordUpstreamError(endpoint)
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(endpoint, resp.Status)
	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamError(endpoint)
		return fmt.Errorf("GET %s: %w: %s", endpoint, ErrBadStatus, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.RecordUpstreamError(endpoint)
		return fmt.Errorf("GET %s: %w: %v", endpoint, ErrDecode, err)
	}
	return nil
}
