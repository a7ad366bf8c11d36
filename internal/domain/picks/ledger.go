// Package picks holds the user-authored pick ledger and its shareable
// token codec. The ledger is the only durable, user-owned state in a
// session; everything else is derived from it.
package picks

import "sync"

// Ledger maps game identifiers to chosen team identifiers. Writes are
// overwrite-only; there is no per-game delete, just Clear.
type Ledger struct {
	mu    sync.RWMutex
	picks map[string]string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{picks: make(map[string]string)}
}

// FromMap creates a ledger seeded with m. The map is copied.
func FromMap(m map[string]string) *Ledger {
	l := NewLedger()
	for k, v := range m {
		l.picks[k] = v
	}
	return l
}

// MakePick unconditionally sets the pick for gameID. A pick naming a team
// that is not in the game is not rejected here; the winner resolver treats
// it as undecided.
func (l *Ledger) MakePick(gameID, teamID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.picks[gameID] = teamID
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.picks = make(map[string]string)
}

// Pick returns the chosen team for gameID, if any.
func (l *Ledger) Pick(gameID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	teamID, ok := l.picks[gameID]
	return teamID, ok
}

// Len returns the number of decided games.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.picks)
}

// Snapshot returns a copy of the underlying mapping.
func (l *Ledger) Snapshot() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.picks))
	for k, v := range l.picks {
		out[k] = v
	}
	return out
}

// Encode serializes the ledger to a URL-safe share token.
func (l *Ledger) Encode() string {
	return Encode(l.Snapshot())
}
