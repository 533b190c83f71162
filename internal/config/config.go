// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config with defaults; Load layers file and env on top.
// - Validate is called by Load; callers building a Config by hand call it too.
// - Errors wrap this package's sentinels.
package config

import (
	"runtime"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/sampler"
)

// Data sources.
const (
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the admin HTTP listen address, e.g. ":9080". Empty disables it.
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Source selects where game lines come from: postgres or synthetic.
	Source string `koanf:"source"`

	// DatabaseURL is the Postgres DSN used when Source is postgres.
	DatabaseURL string `koanf:"database_url"`

	// Stat names the per-game statistic to model.
	Stat string `koanf:"stat"`

	// IncludePlayoffs adds playoff games to each athlete's history.
	IncludePlayoffs bool `koanf:"include_playoffs"`

	// MinutesThreshold is the total minutes an athlete needs to be eligible.
	MinutesThreshold float64 `koanf:"minutes_threshold"`

	// Epsilon is the per-trial weight step.
	Epsilon float64 `koanf:"epsilon"`

	// Iterations is the number of trials in a full run.
	Iterations int `koanf:"iterations"`

	// RosterSize is the number of athletes per roster.
	RosterSize int `koanf:"roster_size"`

	// AppearancesTable maps a uniform draw in [1, DrawRange] to games played.
	AppearancesTable []sampler.Bucket `koanf:"appearances_table"`
	DrawRange        int              `koanf:"draw_range"`

	// Verbose reports every trial and traces each draw.
	Verbose bool `koanf:"verbose"`

	// MaxTrials stops the run early. Zero means no cap.
	MaxTrials int `koanf:"max_trials"`

	// ReportInterval overrides the derived cadence. Zero derives it.
	ReportInterval int `koanf:"report_interval"`

	// ReportLog also writes each report as structured log lines.
	ReportLog bool `koanf:"report_log"`

	// TopN is the number of leaders per report.
	TopN int `koanf:"top_n"`

	// Seed drives the simulation's random source. Zero picks a time-based seed.
	Seed int64 `koanf:"seed"`

	// FitWorkers bounds concurrent distribution fits.
	FitWorkers int `koanf:"fit_workers"`

	// SyntheticAthletes and SyntheticGames size the generated league.
	SyntheticAthletes int `koanf:"synthetic_athletes"`
	SyntheticGames    int `koanf:"synthetic_games"`
}

// New creates a Config with defaults.
func New() *Config {
	table := sampler.DefaultAppearancesTable()
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
		Source:              SourceSynthetic,
		Stat:                "blocks",
		MinutesThreshold:    500,
		Epsilon:             1,
		Iterations:          1_000_001,
		RosterSize:          10,
		AppearancesTable:    table.Buckets,
		DrawRange:           table.Range,
		TopN:                10,
		FitWorkers:          runtime.NumCPU(),
		SyntheticAthletes:   60,
		SyntheticGames:      82,
	}
}

// Table returns the configured appearances table.
func (c *Config) Table() sampler.AppearancesTable {
	return sampler.AppearancesTable{Range: c.DrawRange, Buckets: c.AppearancesTable}
}

// Scope returns the repository scope the config selects.
func (c *Config) Scope() model.Scope {
	return model.Scope{Stat: c.Stat, IncludePlayoffs: c.IncludePlayoffs}
}
