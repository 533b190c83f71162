package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound = errors.New("athlete not ranked")
)
