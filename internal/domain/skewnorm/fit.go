package skewnorm

import (
	"fmt"
	"math"

	"github.com/okian/rostersim/internal/domain/model"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Fitting constants.
const (
	maxShape        = 50.0 // |a| is bounded smoothly to this value
	maxMomentSkew   = 0.99 // skew-normal skewness is below ~0.9953
	maxMomentDelta  = 0.995
	fitEvaluations  = 20_000
	fitConvergeIter = 100
	nllPenalty      = 1e300
)

// Fit estimates skew-normal parameters for samples by maximum likelihood.
//
// A sample with no spread (including a single value) yields a point mass
// {A: 0, Loc: value, Scale: 0}. Fit is deterministic for a given input.
func Fit(samples []float64) (model.Params, error) {
	if len(samples) == 0 {
		return model.Params{}, ErrEmptySample
	}
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.Params{}, fmt.Errorf("%w: non-finite sample %v", ErrFitFailure, v)
		}
	}
	if constant(samples) {
		return model.Params{A: 0, Loc: samples[0], Scale: 0}, nil
	}

	x0 := pack(momentStart(samples))
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			d := New(unpack(x))
			var nll float64
			for _, v := range samples {
				nll -= d.LogProb(v)
			}
			if math.IsNaN(nll) || math.IsInf(nll, 0) {
				return nllPenalty
			}
			return nll
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: fitEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Relative:   1e-10,
			Iterations: fitConvergeIter,
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return model.Params{}, fmt.Errorf("%w: %v", ErrFitFailure, err)
	}
	switch res.Status {
	case optimize.FunctionEvaluationLimit, optimize.IterationLimit, optimize.RuntimeLimit, optimize.Failure:
		return model.Params{}, fmt.Errorf("%w: optimizer stopped with status %v", ErrFitFailure, res.Status)
	}

	p := unpack(res.X)
	if !finite(p.A) || !finite(p.Loc) || !finite(p.Scale) || p.Scale <= 0 || res.F >= nllPenalty {
		return model.Params{}, fmt.Errorf("%w: degenerate estimate %+v", ErrFitFailure, p)
	}
	return p, nil
}

// momentStart is the method-of-moments estimate used to seed the optimizer.
func momentStart(samples []float64) model.Params {
	mean, std := stat.MeanStdDev(samples, nil)
	skew := 0.0
	if len(samples) > 2 {
		skew = stat.Skew(samples, nil)
	}
	if !finite(skew) {
		skew = 0
	}
	skew = math.Max(-maxMomentSkew, math.Min(maxMomentSkew, skew))

	// gamma = (4-pi)/2 * m^3 / (1-m^2)^(3/2), with m = delta*sqrt(2/pi).
	r := math.Cbrt(2 * skew / (4 - math.Pi))
	m := r / math.Sqrt(1+r*r)
	delta := m * math.Sqrt(math.Pi/2)
	delta = math.Max(-maxMomentDelta, math.Min(maxMomentDelta, delta))
	m = delta * math.Sqrt(2/math.Pi)

	scale := std / math.Sqrt(1-m*m)
	return model.Params{
		A:     delta / math.Sqrt(1-delta*delta),
		Loc:   mean - scale*m,
		Scale: scale,
	}
}

// pack maps parameters into the unconstrained optimizer space.
func pack(p model.Params) []float64 {
	return []float64{maxShape * math.Atanh(p.A/maxShape), p.Loc, math.Log(p.Scale)}
}

func unpack(x []float64) model.Params {
	return model.Params{
		A:     maxShape * math.Tanh(x[0]/maxShape),
		Loc:   x[1],
		Scale: math.Exp(x[2]),
	}
}

func constant(samples []float64) bool {
	for _, v := range samples[1:] {
		if v != samples[0] {
			return false
		}
	}
	return true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
