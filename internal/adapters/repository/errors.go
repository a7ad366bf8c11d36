package repository

import "errors"

// Sentinel kinds for reference-data errors.
var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrRegionNotFound = errors.New("region not found")
)
