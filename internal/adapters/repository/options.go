package repository

import "github.com/okian/rostersim/pkg/logger"

type options struct {
	logger   logger.Logger
	maxConns int32
	seed     int64
	athletes int
	games    int
}

// Option applies a configuration option to a repository.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxConns caps the Postgres pool size.
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithSeed seeds the synthetic generator.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithAthletes sets how many synthetic athletes are generated.
func WithAthletes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.athletes = n
		}
	}
}

// WithGames sets how many games each synthetic athlete plays.
func WithGames(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.games = n
		}
	}
}
