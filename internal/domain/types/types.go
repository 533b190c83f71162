// Package types contains common types used across the application
package types

import "time"

// Leader is one row of a weight leaderboard.
type Leader struct {
	Rank      int     `json:"rank"`
	AthleteID int64   `json:"athlete_id"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
}

// Report is the periodic summary handed to a report emitter.
type Report struct {
	TrialIndex     int      `json:"trial_index"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Accuracy       float64  `json:"accuracy_percentage"`
	Leaders        []Leader `json:"leaders"`
}

// Progress is a point-in-time view of a running simulation.
type Progress struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	PoolSize   int       `json:"pool_size"`
	Iterations int       `json:"iterations"`
	Trials     int       `json:"trials"`
	Reports    int       `json:"reports"`
	Done       bool      `json:"done"`
	Last       *Report   `json:"last_report,omitempty"`
}
