package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	upstreamapi "github.com/rotobot/bracketbuilder/internal/adapters/upstream"
	service "github.com/rotobot/bracketbuilder/internal/app"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/internal/fakeupstream"
	"github.com/rotobot/bracketbuilder/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// startService boots a service against an in-process fake data API and
// returns it with its dataset and a combined cleanup.
func startService(t *testing.T, opts ...service.Option) (*service.Service, *fakeupstream.Dataset) {
	t.Helper()

	fake := fakeupstream.NewServer(fakeupstream.WithSeed(3))
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	opts = append([]service.Option{
		service.WithUpstream(upstreamapi.NewClient(srv.URL)),
		service.WithRatePerSecond(1000),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	return svc, fake.Data()
}

// waitNarrative polls the cache until the pair's narrative lands.
func waitNarrative(svc *service.Service, team1, team2 string) (model.Narrative, bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n, ok := svc.Narrative(context.Background(), team1, team2); ok {
			return n, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return model.Narrative{}, false
}

func TestServiceStart(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with no upstream", t, func() {
		svc := service.New()

		Convey("When starting", func() {
			err := svc.Start(ctx)

			Convey("Then it refuses to start", func() {
				So(err, ShouldWrap, service.ErrNoUpstream)
			})
		})
	})

	Convey("Given an upstream that fails bootstrap", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc := service.New(service.WithUpstream(upstreamapi.NewClient(srv.URL)))

		Convey("When starting", func() {
			err := svc.Start(ctx)

			Convey("Then the bootstrap error surfaces", func() {
				So(err, ShouldWrap, service.ErrBootstrap)
			})
		})
	})

	Convey("Given a healthy upstream", t, func() {
		svc, _ := startService(t)

		Convey("Then the field is loaded", func() {
			So(svc.Teams(ctx), ShouldHaveLength, 64)
		})

		Convey("Then the logo manifest arrives in the background", func() {
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) && len(svc.Logos(ctx)) == 0 {
				time.Sleep(10 * time.Millisecond)
			}
			So(svc.Logos(ctx), ShouldHaveLength, 64)
		})

		Convey("And starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})
	})
}

func TestStartContextIndependence(t *testing.T) {
	Convey("Given a service started under a bootstrap deadline", t, func() {
		fake := fakeupstream.NewServer(fakeupstream.WithSeed(3))
		srv := httptest.NewServer(fake)
		defer srv.Close()

		svc := service.New(
			service.WithUpstream(upstreamapi.NewClient(srv.URL)),
			service.WithRatePerSecond(1000),
		)

		startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
		err := svc.Start(startCtx)
		cancelStart() // the deadline is released the moment startup finishes
		So(err, ShouldBeNil)
		defer svc.Stop()

		m := fake.Data().Matchups[0]

		Convey("When requesting a narrative after the start context is gone", func() {
			status, err := svc.RequestNarrative(context.Background(), m.Team1.ID, m.Team2.ID, 1, m.Region)

			Convey("Then the workers are still running and the narrative lands", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.NarrativeQueued)
				n, ok := waitNarrative(svc, m.Team1.ID, m.Team2.ID)
				So(ok, ShouldBeTrue)
				So(n.Analysis, ShouldNotBeBlank)
			})
		})
	})
}

func TestRequestNarrative(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When requesting a narrative", func() {
			status, err := svc.RequestNarrative(ctx, "duke", "gonzaga", 1, "East")

			Convey("Then it fails cleanly without claiming the pair", func() {
				So(err, ShouldWrap, service.ErrNotStarted)
				So(status, ShouldBeEmpty)
				So(svc.NarrativeLoading(ctx, "duke", "gonzaga"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a started service", t, func() {
		svc, data := startService(t)
		m := data.Matchups[0]

		Convey("When requesting a narrative for a fresh pair", func() {
			status, err := svc.RequestNarrative(ctx, m.Team1.ID, m.Team2.ID, 1, m.Region)

			Convey("Then the request is queued", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.NarrativeQueued)
			})

			Convey("Then the narrative eventually lands in the cache", func() {
				So(err, ShouldBeNil)
				n, ok := waitNarrative(svc, m.Team1.ID, m.Team2.ID)
				So(ok, ShouldBeTrue)
				So(n.Analysis, ShouldNotBeBlank)
				So(n.RotoBotPick, ShouldBeIn, m.Team1.ID, m.Team2.ID)
			})
		})

		Convey("When requesting a pair that is already cached", func() {
			_, err := svc.RequestNarrative(ctx, m.Team1.ID, m.Team2.ID, 1, m.Region)
			So(err, ShouldBeNil)
			_, ok := waitNarrative(svc, m.Team1.ID, m.Team2.ID)
			So(ok, ShouldBeTrue)

			status, err := svc.RequestNarrative(ctx, m.Team1.ID, m.Team2.ID, 1, m.Region)

			Convey("Then it reports cached without re-queueing", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.NarrativeCached)
			})

			Convey("And the reversed pair is a distinct entry", func() {
				_, ok := svc.Narrative(ctx, m.Team2.ID, m.Team1.ID)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

// blockingUpstream bootstraps through the real client but parks narrative
// generation until the test releases it.
type blockingUpstream struct {
	*upstreamapi.Client
	started chan string
	release chan struct{}
}

func (b *blockingUpstream) GenerateNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (model.Narrative, error) {
	b.started <- team1Slug
	select {
	case <-b.release:
		return model.Narrative{Analysis: "generated", RotoBotPick: team1Slug}, nil
	case <-ctx.Done():
		return model.Narrative{}, ctx.Err()
	}
}

func TestNarrativeBackpressure(t *testing.T) {
	ctx := context.Background()

	Convey("Given one slow worker and a single-slot queue", t, func() {
		fake := fakeupstream.NewServer(fakeupstream.WithSeed(3))
		srv := httptest.NewServer(fake)
		defer srv.Close()

		bu := &blockingUpstream{
			Client:  upstreamapi.NewClient(srv.URL),
			started: make(chan string, 8),
			release: make(chan struct{}),
		}
		svc := service.New(
			service.WithUpstream(bu),
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithRatePerSecond(1000),
		)
		So(svc.Start(ctx), ShouldBeNil)
		release := sync.OnceFunc(func() { close(bu.release) })
		defer func() {
			release() // unblock the worker so Stop does not wait out its timeout
			svc.Stop()
		}()

		pairs := fake.Data().Matchups

		Convey("When the worker is busy and the queue is full", func() {
			statusA, err := svc.RequestNarrative(ctx, pairs[0].Team1.ID, pairs[0].Team2.ID, 1, pairs[0].Region)
			So(err, ShouldBeNil)
			So(statusA, ShouldEqual, service.NarrativeQueued)
			<-bu.started // worker now holds job A, queue is empty

			statusB, err := svc.RequestNarrative(ctx, pairs[1].Team1.ID, pairs[1].Team2.ID, 1, pairs[1].Region)
			So(err, ShouldBeNil)
			So(statusB, ShouldEqual, service.NarrativeQueued)

			statusC, errC := svc.RequestNarrative(ctx, pairs[2].Team1.ID, pairs[2].Team2.ID, 1, pairs[2].Region)

			Convey("Then the overflow request is rejected", func() {
				So(errC, ShouldWrap, service.ErrQueueFull)
				So(statusC, ShouldBeEmpty)
			})

			Convey("Then the rejected pair's claim is rolled back", func() {
				So(errC, ShouldNotBeNil)
				So(svc.NarrativeLoading(ctx, pairs[2].Team1.ID, pairs[2].Team2.ID), ShouldBeFalse)
			})

			Convey("Then a repeat of the running pair reports pending", func() {
				status, err := svc.RequestNarrative(ctx, pairs[0].Team1.ID, pairs[0].Team2.ID, 1, pairs[0].Region)
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.NarrativePending)
			})

			Convey("Then releasing the worker drains everything", func() {
				release()
				_, ok := waitNarrative(svc, pairs[0].Team1.ID, pairs[0].Team2.ID)
				So(ok, ShouldBeTrue)
				_, ok = waitNarrative(svc, pairs[1].Team1.ID, pairs[1].Team2.ID)
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc, _ := startService(t)

		Convey("When reading stats", func() {
			st := svc.GetStats(ctx)

			Convey("Then the snapshot reflects the loaded field", func() {
				So(st.Teams, ShouldEqual, 64)
				So(st.Sessions, ShouldEqual, 0)
				So(st.NarrativesCached, ShouldEqual, 0)
			})
		})

		Convey("When sessions exist", func() {
			_, err := svc.CreateSession(ctx, "", "")
			So(err, ShouldBeNil)
			_, err = svc.CreateSession(ctx, "", "")
			So(err, ShouldBeNil)

			Convey("Then they show up in the count", func() {
				So(svc.GetStats(ctx).Sessions, ShouldEqual, 2)
			})
		})
	})
}
