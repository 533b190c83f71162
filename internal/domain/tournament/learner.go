package tournament

import (
	"fmt"

	"github.com/okian/rostersim/internal/domain/model"
)

// DefaultEpsilon is the per-trial weight step.
const DefaultEpsilon = 1

// WeightAdjuster mutates athlete weights.
type WeightAdjuster interface {
	AdjustWeight(id model.AthleteID, delta float64) error
}

// Verdict is the outcome of applying the update rule to one trial.
type Verdict struct {
	Predicted Side
	Actual    Side
	Correct   bool
	Boosted   Side // NoSide when weights were left unchanged
}

// Learner applies the fixed-step update rule:
//   - predicted and actual winners agree: no change, correct;
//   - roster A actually won: A members +epsilon, B members -epsilon;
//   - roster B actually won: the inverse;
//   - reality tied: no change.
//
// Weights are neither normalised nor clipped.
type Learner struct {
	epsilon float64
}

// NewLearner returns a learner with step epsilon.
func NewLearner(epsilon float64) (*Learner, error) {
	if !(epsilon > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEpsilon, epsilon)
	}
	return &Learner{epsilon: epsilon}, nil
}

// Epsilon returns the step size.
func (l *Learner) Epsilon() float64 { return l.epsilon }

// Apply updates weights for trial t and reports the verdict.
func (l *Learner) Apply(w WeightAdjuster, t *Trial) (Verdict, error) {
	v := Verdict{Predicted: t.PredictedWinner(), Actual: t.ActualWinner()}

	switch {
	case v.Predicted != NoSide && v.Predicted == v.Actual:
		v.Correct = true
		return v, nil
	case v.Actual == NoSide:
		return v, nil
	}

	winners, losers := t.A(), t.B()
	if v.Actual == SideB {
		winners, losers = losers, winners
	}
	for _, id := range winners.Members {
		if err := w.AdjustWeight(id, l.epsilon); err != nil {
			return v, err
		}
	}
	for _, id := range losers.Members {
		if err := w.AdjustWeight(id, -l.epsilon); err != nil {
			return v, err
		}
	}
	v.Boosted = v.Actual
	return v, nil
}
