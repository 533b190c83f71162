package pool

import (
	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/pkg/logger"
)

// Fitter estimates distribution parameters for one athlete's history.
type Fitter func(samples []float64) (model.Params, error)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithMinutesThreshold sets the participation an athlete needs to be eligible.
func WithMinutesThreshold(minutes float64) Option {
	return func(p *Pool) {
		p.minutesThreshold = minutes
	}
}

// WithFitWorkers bounds the number of concurrent fits during ingest.
func WithFitWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.fitWorkers = n
		}
	}
}

// WithFitter replaces the distribution fitter.
func WithFitter(f Fitter) Option {
	return func(p *Pool) {
		if f != nil {
			p.fit = f
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
