package config

import (
	"fmt"
	"strings"
)

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch c.Source {
	case SourceSynthetic:
		if c.SyntheticAthletes <= 0 || c.SyntheticGames <= 0 {
			return invalid("synthetic_athletes and synthetic_games must be positive")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return invalid("database_url is required for source %q", c.Source)
		}
	default:
		return invalid("source %q is not one of %s, %s", c.Source, SourcePostgres, SourceSynthetic)
	}
	if c.Stat == "" {
		return invalid("stat must not be empty")
	}
	if c.MinutesThreshold < 0 {
		return invalid("minutes_threshold must not be negative, got %v", c.MinutesThreshold)
	}
	if !(c.Epsilon > 0) {
		return invalid("epsilon must be positive, got %v", c.Epsilon)
	}
	if c.Iterations <= 0 {
		return invalid("iterations must be positive, got %d", c.Iterations)
	}
	if c.RosterSize <= 0 {
		return invalid("roster_size must be positive, got %d", c.RosterSize)
	}
	if err := c.Table().Validate(); err != nil {
		return fmt.Errorf("%w: appearances_table: %w", ErrInvalidConfig, err)
	}
	if c.MaxTrials < 0 || c.ReportInterval < 0 || c.FitWorkers < 0 {
		return invalid("max_trials, report_interval and fit_workers must not be negative")
	}
	if c.TopN <= 0 {
		return invalid("top_n must be positive, got %d", c.TopN)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return invalid("max_leaderboard_limit must be positive, got %d", c.MaxLeaderboardLimit)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
