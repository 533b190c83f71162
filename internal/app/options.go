package service

import (
	"time"

	"github.com/okian/rostersim/internal/adapters/report"
	"github.com/okian/rostersim/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithIterations sets the number of trials in a full run.
func WithIterations(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.iterations = n
		}
	}
}

// WithMaxTrials stops the run early after n trials. Zero means no cap.
func WithMaxTrials(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxTrials = n
		}
	}
}

// WithReportInterval overrides the derived report interval.
func WithReportInterval(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.reportInterval = n
		}
	}
}

// WithTopN sets how many leaders each report carries.
func WithTopN(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithVerbose reports every trial and traces each draw at debug level.
func WithVerbose(v bool) Option {
	return func(r *Runner) {
		r.verbose = v
	}
}

// WithEmitter sets where reports go.
func WithEmitter(e report.Emitter) Option {
	return func(r *Runner) {
		if e != nil {
			r.emitter = e
		}
	}
}

// WithClock replaces the wall clock used for elapsed times.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
