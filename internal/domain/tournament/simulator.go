package tournament

import (
	"fmt"
	"math/rand"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/sampler"
)

// DefaultRosterSize is the number of athletes per roster.
const DefaultRosterSize = 10

// Pool is the athlete store a Simulator reads from.
type Pool interface {
	EligibleIDs() []model.AthleteID
	Athlete(id model.AthleteID) (model.FittedAthlete, bool)
	RequireAtLeast(n int) error
}

// Simulator builds trials: a random permutation of the pool split into
// roster A = positions [0, n) and roster B = positions [n, 2n). Athletes at
// 2n and beyond sit the trial out.
//
// Draw order for a seeded rng is fixed: the shuffle, then roster A athlete
// by athlete, then roster B.
type Simulator struct {
	pool       Pool
	sampler    sampler.Sampler
	rng        *rand.Rand
	rosterSize int
	ids        []model.AthleteID
}

// NewSimulator checks the pool can fill two rosters and returns a simulator.
func NewSimulator(p Pool, s sampler.Sampler, rng *rand.Rand, rosterSize int) (*Simulator, error) {
	if rosterSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRoster, rosterSize)
	}
	if err := p.RequireAtLeast(2 * rosterSize); err != nil {
		return nil, err
	}
	return &Simulator{
		pool:       p,
		sampler:    s,
		rng:        rng,
		rosterSize: rosterSize,
		ids:        p.EligibleIDs(),
	}, nil
}

// RosterSize returns the configured roster size.
func (s *Simulator) RosterSize() int { return s.rosterSize }

// Run simulates trial index. The id buffer is reshuffled in place each
// call, which is still a uniform permutation.
func (s *Simulator) Run(index int) (Trial, error) {
	s.rng.Shuffle(len(s.ids), func(i, j int) { s.ids[i], s.ids[j] = s.ids[j], s.ids[i] })

	t := Trial{Index: index}
	for side := range t.Rosters {
		lo := side * s.rosterSize
		members := make([]model.AthleteID, s.rosterSize)
		copy(members, s.ids[lo:lo+s.rosterSize])

		r := Roster{Members: members, Draws: make([]sampler.Draw, len(members))}
		for i, id := range members {
			a, ok := s.pool.Athlete(id)
			if !ok {
				return Trial{}, fmt.Errorf("%w: trial %d athlete %d not in pool", ErrMalformedTrial, index, id)
			}
			r.Totals.Prediction += a.Weight
			r.Draws[i] = s.sampler.Sample(a)
			r.Totals.Reality += r.Draws[i].Total
		}
		t.Rosters[side] = r
	}

	if err := t.Validate(s.rosterSize); err != nil {
		return Trial{}, err
	}
	return t, nil
}
