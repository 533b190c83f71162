package tournament

import "errors"

// Sentinel kinds for tournament errors.
var (
	ErrMalformedTrial = errors.New("malformed trial")
	ErrInvalidRoster  = errors.New("invalid roster size")
	ErrInvalidEpsilon = errors.New("invalid epsilon")
)
