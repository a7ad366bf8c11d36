// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	jobqueue "github.com/rotobot/bracketbuilder/internal/adapters/mq/queue"
	workerpool "github.com/rotobot/bracketbuilder/internal/adapters/mq/worker"
	"github.com/rotobot/bracketbuilder/internal/adapters/repository"
	"github.com/rotobot/bracketbuilder/internal/adapters/upstream"
	"github.com/rotobot/bracketbuilder/internal/domain/bracket"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/internal/domain/narrative"
	"github.com/rotobot/bracketbuilder/pkg/logger"
	"github.com/rotobot/bracketbuilder/pkg/metrics"
)

// Upstream covers what the service needs from the BracketBuilder data API.
// Satisfied by *upstream.Client; tests substitute fakes.
type Upstream interface {
	Bootstrap(ctx context.Context) (*upstream.BootstrapData, error)
	FetchLogoManifest(ctx context.Context) (map[string]string, error)
	GenerateNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (model.Narrative, error)
}

// NarrativeStatus reports what happened to a narrative request.
type NarrativeStatus string

const (
	// NarrativeCached means the pair already has a generated narrative.
	NarrativeCached NarrativeStatus = "cached"
	// NarrativePending means a generation for the pair is already running.
	NarrativePending NarrativeStatus = "pending"
	// NarrativeQueued means this request started a new generation.
	NarrativeQueued NarrativeStatus = "queued"
)

// Service owns the reference data, the narrative pipeline, and the live
// bracket sessions.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	upstream   Upstream
	narratives *narrative.Cache
	queue      jobqueue.Queue
	pool       *workerpool.Pool
	deriver    *bracket.Deriver

	// Sessions are kept separately from the component lock so bracket
	// queries never contend with start/stop.
	sessionsMu sync.RWMutex
	sessions   map[string]*Session

	// Configuration
	queueSize        int
	workerCount      int
	ratePerSecond    float64
	narrativeTimeout time.Duration
	gapFactor        float64
	publicBaseURL    string

	// Logo manifest, fetched best-effort after bootstrap.
	logosMu sync.RWMutex
	logos   map[string]string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstream sets the data API client.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		if u != nil {
			s.upstream = u
		}
	}
}

// WithStore sets the reference data store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueueSize sets the narrative job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of narrative workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithRatePerSecond caps upstream narrative generation calls across all
// workers.
func WithRatePerSecond(rate float64) Option {
	return func(s *Service) {
		if rate > 0 {
			s.ratePerSecond = rate
		}
	}
}

// WithNarrativeTimeout bounds a single upstream generation call.
func WithNarrativeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.narrativeTimeout = d
		}
	}
}

// WithGapFactor sets the score-gap multiplier used when synthesizing
// machine confidence for derived games.
func WithGapFactor(factor float64) Option {
	return func(s *Service) {
		if factor > 0 {
			s.gapFactor = factor
		}
	}
}

// WithPublicBaseURL sets the origin used when building share URLs.
func WithPublicBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.publicBaseURL = base
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:            repository.NewMemStore(),
		narratives:       narrative.NewCache(),
		sessions:         make(map[string]*Session),
		queueSize:        1024,
		workerCount:      4,
		ratePerSecond:    2,
		narrativeTimeout: 30 * time.Second,
		gapFactor:        0, // deriver default applies unless overridden
		publicBaseURL:    "http://localhost:9080",
		logos:            make(map[string]string),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start bootstraps reference data from the upstream API and spins up the
// narrative pipeline. It fails if the required bootstrap fetches fail;
// the logo manifest alone is best-effort.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.upstream == nil {
		return ErrNoUpstream
	}

	s.logger.Info(ctx, "starting bracket service...")

	data, err := s.upstream.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	s.store.Load(ctx, data.Teams, data.RegionGames, data.Players)

	derOpts := []bracket.Option{bracket.WithNarrativeLookup(s.narratives.Get)}
	if s.gapFactor > 0 {
		derOpts = append(derOpts, bracket.WithGapFactor(s.gapFactor))
	}
	s.deriver = bracket.NewDeriver(derOpts...)

	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.upstream, s, s.ratePerSecond,
		workerpool.WithGenerateTimeout(s.narrativeTimeout),
	)
	// The start context may carry a bootstrap deadline; the pipeline must
	// outlive it. Workers stop via Stop, not via the caller's context.
	s.pool.Start(context.WithoutCancel(ctx))

	// The UI degrades fine without logos, so this never blocks startup.
	go s.fetchLogos(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "bracket service started",
		logger.Int("teams", s.store.TeamCount(ctx)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping bracket service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "bracket service stopped")
}

func (s *Service) fetchLogos(ctx context.Context) {
	logos, err := s.upstream.FetchLogoManifest(ctx)
	if err != nil {
		s.logger.Warn(ctx, "logo manifest fetch failed", logger.Error(err))
		return
	}

	s.logosMu.Lock()
	s.logos = logos
	s.logosMu.Unlock()

	s.logger.Info(ctx, "logo manifest loaded", logger.Int("logos", len(logos)))
}

// Logos returns the logo manifest, which may be empty before the
// background fetch completes or if it failed.
func (s *Service) Logos(ctx context.Context) map[string]string {
	s.logosMu.RLock()
	defer s.logosMu.RUnlock()

	out := make(map[string]string, len(s.logos))
	for k, v := range s.logos {
		out[k] = v
	}
	return out
}

// RequestNarrative triggers asynchronous narrative generation for a pair
// of teams. At most one generation runs per ordered pair: repeats while
// one is in flight report pending, and pairs already generated report
// cached without touching the queue.
func (s *Service) RequestNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (NarrativeStatus, error) {
	metrics.RecordNarrativeRequest()

	s.mu.RLock()
	queue := s.queue
	s.mu.RUnlock()
	if queue == nil {
		return "", ErrNotStarted
	}

	if s.narratives.Has(team1Slug, team2Slug) {
		metrics.RecordNarrativeCacheHit()
		return NarrativeCached, nil
	}

	if !s.narratives.BeginGeneration(ctx, team1Slug, team2Slug) {
		// Lost the race to either a finished generation or a running one.
		if s.narratives.Has(team1Slug, team2Slug) {
			metrics.RecordNarrativeCacheHit()
			return NarrativeCached, nil
		}
		metrics.RecordNarrativeDuplicate()
		return NarrativePending, nil
	}
	metrics.UpdateNarrativesInFlight(int(s.narratives.InFlight()))

	job := jobqueue.Job{
		Team1Slug: team1Slug,
		Team2Slug: team2Slug,
		Round:     round,
		Region:    region,
	}
	if !queue.Enqueue(ctx, job) {
		// Roll back the claim so a later request can retry.
		s.narratives.EndGeneration(ctx, team1Slug, team2Slug)
		metrics.UpdateNarrativesInFlight(int(s.narratives.InFlight()))
		return "", ErrQueueFull
	}

	s.logger.Debug(ctx, "narrative generation queued",
		logger.String("team1", team1Slug),
		logger.String("team2", team2Slug),
		logger.Int("round", round),
	)
	return NarrativeQueued, nil
}

// Narrative returns the cached narrative for the ordered pair, if any.
func (s *Service) Narrative(ctx context.Context, team1Slug, team2Slug string) (model.Narrative, bool) {
	return s.narratives.Get(team1Slug, team2Slug)
}

// NarrativeLoading reports whether a generation for the pair is running.
func (s *Service) NarrativeLoading(ctx context.Context, team1Slug, team2Slug string) bool {
	return s.narratives.Loading(ctx, team1Slug, team2Slug)
}

// Store publishes a completed narrative. It implements the worker sink.
func (s *Service) Store(team1Slug, team2Slug string, n model.Narrative) {
	s.narratives.Put(team1Slug, team2Slug, n)
	metrics.UpdateNarrativesCached(s.narratives.Len())
}

// Release clears the in-flight marker for a pair. The worker calls it on
// success and failure alike; after a failure the next request starts a
// fresh generation.
func (s *Service) Release(team1Slug, team2Slug string) {
	s.narratives.EndGeneration(context.Background(), team1Slug, team2Slug)
	metrics.UpdateNarrativesInFlight(int(s.narratives.InFlight()))
}

// Team returns one team by id.
func (s *Service) Team(ctx context.Context, id string) (*model.Team, error) {
	return s.store.Team(ctx, id)
}

// Teams returns all teams keyed by id.
func (s *Service) Teams(ctx context.Context) map[string]*model.Team {
	return s.store.Teams(ctx)
}

// Players returns a team's roster, best scorers first.
func (s *Service) Players(ctx context.Context, teamID string) ([]*model.Player, error) {
	return s.store.Players(ctx, teamID)
}

// Stats is a point-in-time snapshot of service internals.
type Stats struct {
	Teams              int   `json:"teams"`
	Sessions           int   `json:"sessions"`
	NarrativesCached   int   `json:"narrativesCached"`
	NarrativesInFlight int64 `json:"narrativesInFlight"`
	QueueDepth         int   `json:"queueDepth"`
}

// GetStats returns current service statistics.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.sessionsMu.RLock()
	sessions := len(s.sessions)
	s.sessionsMu.RUnlock()

	st := Stats{
		Teams:              s.store.TeamCount(ctx),
		Sessions:           sessions,
		NarrativesCached:   s.narratives.Len(),
		NarrativesInFlight: s.narratives.InFlight(),
	}
	if s.queue != nil {
		st.QueueDepth = s.queue.Len(ctx)
	}
	return st
}
