package skewnorm

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fitting errors. ErrEmptySample is also an ErrFitFailure.
var (
	ErrFitFailure  = errors.New("distribution fit failed")
	ErrEmptySample = fmt.Errorf("%w: empty sample", ErrFitFailure)
)
