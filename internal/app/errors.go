package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoUpstream   = errors.New("no upstream client configured")
	ErrNotStarted   = errors.New("service not started")
	ErrBootstrap    = errors.New("bootstrap failed")
	ErrQueueFull    = errors.New("narrative queue full")
	ErrInvalidMode  = errors.New("invalid view mode")
	ErrGameNotFound = errors.New("game not found")
)
