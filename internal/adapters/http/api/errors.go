// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrSessionNotFound = errors.New("session not found")
	ErrRegionNotFound  = errors.New("region not found")
	ErrBackpressure    = errors.New("narrative queue full, try again later")
)
