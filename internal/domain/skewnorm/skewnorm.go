// Package skewnorm implements the skew-normal distribution: density, CDF,
// sampling, and maximum-likelihood fitting.
package skewnorm

import (
	"math"
	"math/rand"

	"github.com/okian/rostersim/internal/domain/model"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// owenNodes is the Legendre rule size used for Owen's T integral.
	owenNodes = 128
	// tailCutoff is where logNormCDF switches to the asymptotic expansion.
	tailCutoff = -30.0
)

// Dist is a skew-normal distribution with shape A, location Loc and scale
// Scale. A zero Scale is a point mass at Loc.
type Dist struct {
	model.Params
}

// New returns the distribution described by p.
func New(p model.Params) Dist {
	return Dist{Params: p}
}

func (d Dist) degenerate() bool { return d.Scale <= 0 }

// delta is a/sqrt(1+a^2), the correlation in the stochastic representation.
func (d Dist) delta() float64 {
	return d.A / math.Sqrt(1+d.A*d.A)
}

// LogProb returns the log density at x.
func (d Dist) LogProb(x float64) float64 {
	if d.degenerate() {
		if x == d.Loc {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	z := (x - d.Loc) / d.Scale
	return math.Ln2 - math.Log(d.Scale) + distuv.UnitNormal.LogProb(z) + logNormCDF(d.A*z)
}

// Prob returns the density at x.
func (d Dist) Prob(x float64) float64 {
	return math.Exp(d.LogProb(x))
}

// CDF returns P(X <= x) = Phi(z) - 2 T(z, a).
func (d Dist) CDF(x float64) float64 {
	if d.degenerate() {
		if x < d.Loc {
			return 0
		}
		return 1
	}
	z := (x - d.Loc) / d.Scale
	p := distuv.UnitNormal.CDF(z) - 2*owensT(z, d.A)
	return math.Max(0, math.Min(1, p))
}

// Mean returns the expected value.
func (d Dist) Mean() float64 {
	if d.degenerate() {
		return d.Loc
	}
	return d.Loc + d.Scale*d.delta()*math.Sqrt(2/math.Pi)
}

// Rand draws one sample. A non-degenerate draw consumes exactly two normal
// variates from rng, so the draw order is fixed for a seeded source.
func (d Dist) Rand(rng *rand.Rand) float64 {
	if d.degenerate() {
		return d.Loc
	}
	delta := d.delta()
	u0 := rng.NormFloat64()
	u1 := rng.NormFloat64()
	z := delta*math.Abs(u0) + math.Sqrt(1-delta*delta)*u1
	return d.Loc + d.Scale*z
}

// logNormCDF is log(Phi(t)) without underflow in the far left tail.
func logNormCDF(t float64) float64 {
	if t > tailCutoff {
		return math.Log(distuv.UnitNormal.CDF(t))
	}
	t2 := t * t
	return -0.5*t2 - math.Log(-t) - 0.5*math.Log(2*math.Pi) + math.Log1p(-1/t2+3/(t2*t2))
}

// owensT is T(h, a) = 1/(2pi) * integral_0^a exp(-h^2(1+x^2)/2) / (1+x^2) dx.
func owensT(h, a float64) float64 {
	switch {
	case a == 0:
		return 0
	case a < 0:
		return -owensT(h, -a)
	}
	hh := h * h
	f := func(x float64) float64 {
		s := 1 + x*x
		return math.Exp(-0.5*hh*s) / s
	}
	return quad.Fixed(f, 0, a, owenNodes, nil, 0) / (2 * math.Pi)
}
