// Package model contains domain models passed between layers.
package model

// AthleteID identifies an athlete in the stat repository.
type AthleteID int64

// Scope selects which games a repository query returns.
type Scope struct {
	Stat            string // statistic column, e.g. "blocks"
	IncludePlayoffs bool
}

// GameLine is one row of the repository stream: a single athlete's
// statistic and minutes for one game.
type GameLine struct {
	AthleteID AthleteID
	Name      string
	Value     float64
	Minutes   float64
}

// AthleteRecord is an athlete's full history grouped from GameLines.
type AthleteRecord struct {
	ID      AthleteID
	Name    string
	Samples []float64 // per-game statistic values in stream order
	Minutes float64   // cumulative participation
}

// Params are skew-normal distribution parameters.
type Params struct {
	A     float64 `json:"a"`
	Loc   float64 `json:"loc"`
	Scale float64 `json:"scale"`
}

// FittedAthlete is an eligible athlete with its fitted distribution and
// learned weight. Only the pool mutates Weight.
type FittedAthlete struct {
	ID      AthleteID
	Name    string
	Params  Params
	Weight  float64
	Minutes float64
	Seq     int // ingest order
}
