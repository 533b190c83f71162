package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrUnknownStat     = errors.New("unknown statistic")
)
