package sampler

import "errors"

// Sentinel kinds for sampler errors.
var (
	ErrInvalidTable = errors.New("invalid appearances table")
)
