package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording bracket metrics", func() {
			Convey("Then it should record picks", func() {
				So(func() {
					RecordPick()
					RecordPick()
					RecordPicksCleared()
				}, ShouldNotPanic)
			})

			Convey("And it should record derivations", func() {
				So(func() {
					RecordDerivation()
					RecordDerivationLatency(1.0)
					RecordDerivationLatency(5.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record session activity", func() {
				So(func() {
					RecordSessionCreated()
					UpdateActiveSessions(3)
					RecordTokenDecodeError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording narrative metrics", func() {
			Convey("Then it should record the request lifecycle", func() {
				So(func() {
					RecordNarrativeRequest()
					RecordNarrativeCacheHit()
					RecordNarrativeDuplicate()
					RecordNarrativeError()
					RecordNarrativeLatency(250.0)
				}, ShouldNotPanic)
			})

			Convey("And it should track cache and in-flight gauges", func() {
				So(func() {
					UpdateNarrativesInFlight(2)
					UpdateNarrativesCached(10)
					UpdateNarrativesInFlight(0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			So(func() {
				UpdateQueueSize(100)
				UpdateQueueCapacity(1024)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() {
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(50.0)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/sessions", "POST", "201")
				RecordHTTPRequestDuration("/api/sessions", "POST", "201", 5.0)
				RecordHTTPError("/api/matchup", "POST", "backpressure")
			}, ShouldNotPanic)
		})

		Convey("When recording upstream metrics", func() {
			So(func() {
				RecordUpstreamRequest("/api/matchup", "200 OK")
				RecordUpstreamLatency("/api/matchup", 1200.0)
				RecordUpstreamError("/api/bracket")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(50)
				RecordSystemGCPauseTime(1.5)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When using zero values", func() {
			So(func() {
				UpdateQueueSize(0)
				UpdateWorkerCount(0)
				UpdateActiveSessions(0)
				RecordDerivationLatency(0.0)
				RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
			}, ShouldNotPanic)
		})

		Convey("When using negative values", func() {
			So(func() {
				UpdateQueueSize(-100)
				UpdateNarrativesInFlight(-1)
			}, ShouldNotPanic)
		})

		Convey("When using very large values", func() {
			So(func() {
				UpdateQueueSize(1000000)
				RecordNarrativeLatency(600000.0)
				RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
			}, ShouldNotPanic)
		})

		Convey("When using empty strings in labels", func() {
			So(func() {
				RecordHTTPRequest("", "", "200")
				RecordHTTPError("", "", "")
				RecordUpstreamRequest("", "")
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordNarrativeRequest()
						UpdateQueueSize(j)
						RecordDerivationLatency(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordSessionCreated()
			families, err := GetRegistry().Gather()

			Convey("Then namespaced families are present", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["bracketbuilder_core_sessions_created_total"], ShouldBeTrue)
			})
		})
	})
}
