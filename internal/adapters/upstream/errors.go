package upstream

import "errors"

// Sentinel kinds for upstream collaborator errors.
var (
	ErrBadStatus = errors.New("unexpected upstream status")
	ErrDecode    = errors.New("upstream response decode failed")
)
