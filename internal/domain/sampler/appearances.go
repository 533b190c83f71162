// Package sampler draws one athlete's contribution for one trial.
package sampler

import (
	"fmt"
	"math/rand"
)

// DefaultDrawRange is the upper bound of the uniform appearances draw.
const DefaultDrawRange = 100

// Bucket maps draws up to and including Upper to Games appearances.
type Bucket struct {
	Upper int `koanf:"upper" json:"upper"`
	Games int `koanf:"games" json:"games"`
}

// AppearancesTable is a categorical distribution over appearance counts,
// expressed as cumulative thresholds over a uniform draw in [1, Range].
type AppearancesTable struct {
	Range   int
	Buckets []Bucket
}

// DefaultAppearancesTable is APPEARANCES_TABLE: 2 games 15%, 3 games 47%,
// 4 games 37%, 5 games 1%.
func DefaultAppearancesTable() AppearancesTable {
	return AppearancesTable{
		Range: DefaultDrawRange,
		Buckets: []Bucket{
			{Upper: 15, Games: 2},
			{Upper: 62, Games: 3},
			{Upper: 99, Games: 4},
			{Upper: 100, Games: 5},
		},
	}
}

// Validate checks thresholds are strictly increasing, end at Range, and map
// to positive game counts.
func (t AppearancesTable) Validate() error {
	if t.Range <= 0 {
		return fmt.Errorf("%w: range must be positive, got %d", ErrInvalidTable, t.Range)
	}
	if len(t.Buckets) == 0 {
		return fmt.Errorf("%w: no buckets", ErrInvalidTable)
	}
	prev := 0
	for i, b := range t.Buckets {
		if b.Upper <= prev {
			return fmt.Errorf("%w: bucket %d upper %d not above %d", ErrInvalidTable, i, b.Upper, prev)
		}
		if b.Games <= 0 {
			return fmt.Errorf("%w: bucket %d has %d games", ErrInvalidTable, i, b.Games)
		}
		prev = b.Upper
	}
	if prev != t.Range {
		return fmt.Errorf("%w: last upper %d must equal range %d", ErrInvalidTable, prev, t.Range)
	}
	return nil
}

// Lookup maps a draw in [1, Range] to its appearance count.
func (t AppearancesTable) Lookup(u int) int {
	for _, b := range t.Buckets {
		if u <= b.Upper {
			return b.Games
		}
	}
	return t.Buckets[len(t.Buckets)-1].Games
}

// Draw takes one uniform integer in [1, Range] from rng and maps it.
func (t AppearancesTable) Draw(rng *rand.Rand) int {
	return t.Lookup(rng.Intn(t.Range) + 1)
}

// Probabilities returns the probability of each bucket, in table order.
func (t AppearancesTable) Probabilities() []float64 {
	out := make([]float64, len(t.Buckets))
	prev := 0
	for i, b := range t.Buckets {
		out[i] = float64(b.Upper-prev) / float64(t.Range)
		prev = b.Upper
	}
	return out
}
