// Package tournament runs single two-roster trials and applies the
// fixed-step weight update.
package tournament

import (
	"fmt"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/sampler"
)

// Side identifies a roster, or no roster for ties.
type Side int

// Sides.
const (
	NoSide Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	default:
		return "none"
	}
}

// Totals are a roster's prediction (sum of weights before this trial's
// update) and reality (sum of sampled contributions).
type Totals struct {
	Prediction float64
	Reality    float64
}

// Roster is one side of a trial.
type Roster struct {
	Members []model.AthleteID
	Draws   []sampler.Draw // parallel to Members
	Totals  Totals
}

// Trial is one simulated contest. It is discarded after the update.
type Trial struct {
	Index   int
	Rosters [2]Roster
}

// A returns roster A.
func (t *Trial) A() *Roster { return &t.Rosters[0] }

// B returns roster B.
func (t *Trial) B() *Roster { return &t.Rosters[1] }

// PredictedWinner is the roster with strictly greater prediction.
func (t *Trial) PredictedWinner() Side {
	return winner(t.Rosters[0].Totals.Prediction, t.Rosters[1].Totals.Prediction)
}

// ActualWinner is the roster with strictly greater reality.
func (t *Trial) ActualWinner() Side {
	return winner(t.Rosters[0].Totals.Reality, t.Rosters[1].Totals.Reality)
}

func winner(a, b float64) Side {
	switch {
	case a > b:
		return SideA
	case b > a:
		return SideB
	default:
		return NoSide
	}
}

// Validate checks that both rosters hold size distinct members and share
// none.
func (t *Trial) Validate(size int) error {
	seen := make(map[model.AthleteID]Side, 2*size)
	for i := range t.Rosters {
		side := Side(i + 1)
		r := &t.Rosters[i]
		if len(r.Members) != size {
			return fmt.Errorf("%w: trial %d roster %s has %d members, want %d",
				ErrMalformedTrial, t.Index, side, len(r.Members), size)
		}
		for _, id := range r.Members {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: trial %d athlete %d in roster %s and %s",
					ErrMalformedTrial, t.Index, id, prev, side)
			}
			seen[id] = side
		}
	}
	return nil
}
