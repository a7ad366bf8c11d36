// Command fake-upstream runs a stand-in BracketBuilder data API with a
// generated tournament field. Point the service at it with
// BRACKET_UPSTREAM_BASE_URL for local development.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rotobot/bracketbuilder/internal/fakeupstream"
)

func main() {
	addr := flag.String("addr", ":8002", "listen address")
	seed := flag.Int64("seed", 1, "dataset generation seed")
	delay := flag.Duration("delay", 2*time.Second, "simulated narrative generation latency")
	flag.Parse()

	srv := fakeupstream.NewServer(
		fakeupstream.WithSeed(*seed),
		fakeupstream.WithNarrativeDelay(*delay),
	)

	os.Stdout.WriteString("fake upstream listening on " + *addr + "\n")
	if err := http.ListenAndServe(*addr, srv); err != nil {
		os.Stderr.WriteString("fake upstream failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
