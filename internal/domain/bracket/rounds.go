// Package bracket implements winner resolution and on-demand derivation of
// tournament rounds from Round-of-64 data plus the pick ledger. Derivation
// is pure: nothing here caches or mutates shared state, so repeated queries
// with the same inputs return the same games.
package bracket

import "strings"

// Tournament round numbers.
const (
	RoundOf64    = 1
	RoundOf32    = 2
	Sweet16      = 3
	Elite8       = 4
	FinalFour    = 5
	Championship = 6
)

// FinalFourRegion is the cross-region pseudo-region for rounds 5 and 6.
const FinalFourRegion = "Final Four"

// RegionOrder is the fixed region order used for Final Four pairing:
// East plays West, South plays Midwest.
var RegionOrder = [4]string{"East", "West", "South", "Midwest"}

// GamesPerRegion is the expected Round-of-64 game count for one region.
const GamesPerRegion = 8

// RoundTag returns the short round code used in synthetic game identifiers.
func RoundTag(round int) string {
	switch round {
	case RoundOf64:
		return "r1"
	case RoundOf32:
		return "r2"
	case Sweet16:
		return "s16"
	case Elite8:
		return "e8"
	case FinalFour:
		return "ff"
	case Championship:
		return "ch"
	default:
		return "r?"
	}
}

// regionSlug lowercases a region name for use in game identifiers,
// e.g. "Final Four" -> "final-four".
func regionSlug(region string) string {
	return strings.ReplaceAll(strings.ToLower(region), " ", "-")
}
