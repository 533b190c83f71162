package pool

import "errors"

// Sentinel kinds for pool errors.
var (
	ErrInsufficientPool = errors.New("insufficient eligible athletes")
	ErrUnknownAthlete   = errors.New("athlete not in pool")
)
