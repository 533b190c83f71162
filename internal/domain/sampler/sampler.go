package sampler

import (
	"math"
	"math/rand"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/skewnorm"
)

// Draw is one athlete's sampled contribution for one trial.
type Draw struct {
	Appearances int
	Games       []float64 // rounded per-game values
	Total       float64
}

// Sampler draws trial contributions from fitted athletes.
type Sampler interface {
	Sample(a model.FittedAthlete) Draw
}

// TrialSampler draws the appearances count, then that many rounded
// skew-normal samples, and sums them. Contributions are not clamped.
type TrialSampler struct {
	rng   *rand.Rand
	table AppearancesTable
}

// New returns a TrialSampler reading from rng. The table must be valid.
func New(rng *rand.Rand, table AppearancesTable) *TrialSampler {
	return &TrialSampler{rng: rng, table: table}
}

// Sample implements Sampler.
func (s *TrialSampler) Sample(a model.FittedAthlete) Draw {
	n := s.table.Draw(s.rng)
	d := skewnorm.New(a.Params)
	games := make([]float64, n)
	var total float64
	for i := range games {
		games[i] = math.Round(d.Rand(s.rng))
		total += games[i]
	}
	return Draw{Appearances: n, Games: games, Total: total}
}
