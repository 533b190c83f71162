package tournament_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/pool"
	"github.com/okian/rostersim/internal/domain/sampler"
	"github.com/okian/rostersim/internal/domain/skewnorm"
	"github.com/okian/rostersim/internal/domain/tournament"
	"github.com/okian/rostersim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// newPool returns a pool of n athletes with ids 1..n whose fitted location
// equals their id.
func newPool(n int) *pool.Pool {
	p := pool.New(pool.WithFitter(func(samples []float64) (model.Params, error) {
		return model.Params{A: 1, Loc: samples[0], Scale: 1}, nil
	}))
	records := make([]model.AthleteRecord, n)
	for i := range records {
		id := int64(i + 1)
		records[i] = model.AthleteRecord{
			ID:      model.AthleteID(id),
			Name:    fmt.Sprintf("athlete-%d", id),
			Samples: []float64{float64(id)},
			Minutes: 1000,
		}
	}
	if _, err := p.Ingest(context.Background(), records); err != nil {
		panic(err)
	}
	return p
}

// fixedSampler returns the athlete id as its contribution.
type fixedSampler struct{}

func (fixedSampler) Sample(a model.FittedAthlete) sampler.Draw {
	return sampler.Draw{Appearances: 1, Games: []float64{float64(a.ID)}, Total: float64(a.ID)}
}

func ids(from, to int) []model.AthleteID {
	out := make([]model.AthleteID, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, model.AthleteID(i))
	}
	return out
}

func weights(p *pool.Pool, members []model.AthleteID) []float64 {
	out := make([]float64, len(members))
	for i, id := range members {
		out[i], _ = p.WeightOf(id)
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func trial(predA, realA, predB, realB float64) *tournament.Trial {
	return &tournament.Trial{Rosters: [2]tournament.Roster{
		{Members: ids(1, 10), Totals: tournament.Totals{Prediction: predA, Reality: realA}},
		{Members: ids(11, 20), Totals: tournament.Totals{Prediction: predB, Reality: realB}},
	}}
}

func TestLearner(t *testing.T) {
	Convey("Given a pool of exactly 20 athletes and epsilon 1", t, func() {
		p := newPool(20)
		learner, err := tournament.NewLearner(1)
		So(err, ShouldBeNil)

		Convey("When roster A wins 50-40 but roster B was predicted", func() {
			for _, id := range ids(11, 20) {
				So(p.AdjustWeight(id, 1), ShouldBeNil)
			}
			tr := trial(0, 50, 10, 40)
			v, err := learner.Apply(p, tr)

			Convey("Then A members gain 1 and B members lose 1", func() {
				So(err, ShouldBeNil)
				So(v.Correct, ShouldBeFalse)
				So(v.Predicted, ShouldEqual, tournament.SideB)
				So(v.Actual, ShouldEqual, tournament.SideA)
				So(v.Boosted, ShouldEqual, tournament.SideA)
				So(weights(p, ids(1, 10)), ShouldResemble, constant(10, 1))
				So(weights(p, ids(11, 20)), ShouldResemble, constant(10, 0))
			})
		})

		Convey("When the predicted winner matches the actual winner", func() {
			So(p.AdjustWeight(3, 2), ShouldBeNil)
			before := p.TotalWeight()
			v, err := learner.Apply(p, trial(2, 50, 0, 40))

			Convey("Then no weight changes and the prediction is correct", func() {
				So(err, ShouldBeNil)
				So(v.Correct, ShouldBeTrue)
				So(v.Boosted, ShouldEqual, tournament.NoSide)
				So(p.TotalWeight(), ShouldEqual, before)
				w, _ := p.WeightOf(3)
				So(w, ShouldEqual, 2)
			})
		})

		Convey("When reality is tied", func() {
			for _, preds := range [][2]float64{{5, 0}, {0, 5}, {0, 0}} {
				v, err := learner.Apply(p, trial(preds[0], 45, preds[1], 45))
				So(err, ShouldBeNil)
				So(v.Correct, ShouldBeFalse)
				So(v.Actual, ShouldEqual, tournament.NoSide)
				So(v.Boosted, ShouldEqual, tournament.NoSide)
			}

			Convey("Then no weight changes regardless of prediction", func() {
				So(weights(p, ids(1, 20)), ShouldResemble, constant(20, 0))
			})
		})

		Convey("When predictions tie but roster B wins", func() {
			v, err := learner.Apply(p, trial(0, 10, 0, 12))

			Convey("Then the prediction counts as wrong and B is boosted", func() {
				So(err, ShouldBeNil)
				So(v.Correct, ShouldBeFalse)
				So(v.Boosted, ShouldEqual, tournament.SideB)
				So(weights(p, ids(1, 10)), ShouldResemble, constant(10, -1))
				So(weights(p, ids(11, 20)), ShouldResemble, constant(10, 1))
				So(p.TotalWeight(), ShouldEqual, 0)
			})
		})

		Convey("When a roster holds an athlete the pool does not know", func() {
			tr := trial(0, 1, 0, 2)
			tr.B().Members[0] = 999
			_, err := learner.Apply(p, tr)

			Convey("Then the error surfaces", func() {
				So(errors.Is(err, pool.ErrUnknownAthlete), ShouldBeTrue)
			})
		})
	})

	Convey("Given an invalid epsilon", t, func() {
		for _, eps := range []float64{0, -1, math.NaN()} {
			_, err := tournament.NewLearner(eps)
			So(errors.Is(err, tournament.ErrInvalidEpsilon), ShouldBeTrue)
		}
	})
}

func TestSimulator(t *testing.T) {
	Convey("Given a pool of 25 athletes", t, func() {
		p := newPool(25)

		Convey("When a trial is run", func() {
			So(p.AdjustWeight(7, 3), ShouldBeNil)
			sim, err := tournament.NewSimulator(p, fixedSampler{}, rand.New(rand.NewSource(3)), 10) //nolint:gosec // deterministic test source
			So(err, ShouldBeNil)

			for i := 0; i < 50; i++ {
				tr, err := sim.Run(i)
				So(err, ShouldBeNil)
				So(tr.Index, ShouldEqual, i)

				seen := map[model.AthleteID]bool{}
				for _, r := range tr.Rosters {
					So(r.Members, ShouldHaveLength, 10)
					var pred, reality float64
					for _, id := range r.Members {
						So(seen[id], ShouldBeFalse)
						So(int64(id), ShouldBeBetweenOrEqual, int64(1), int64(25))
						seen[id] = true
						w, _ := p.WeightOf(id)
						pred += w
						reality += float64(id)
					}
					So(r.Totals.Prediction, ShouldEqual, pred)
					So(r.Totals.Reality, ShouldEqual, reality)
				}
			}
		})

		Convey("When two simulators share a seed", func() {
			other := newPool(25)
			table := sampler.DefaultAppearancesTable()
			s1, err1 := tournament.NewSimulator(p, sampler.New(rand.New(rand.NewSource(8)), table), rand.New(rand.NewSource(8)), 10)     //nolint:gosec // deterministic test source
			s2, err2 := tournament.NewSimulator(other, sampler.New(rand.New(rand.NewSource(8)), table), rand.New(rand.NewSource(8)), 10) //nolint:gosec // deterministic test source
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then they produce identical trials", func() {
				for i := 0; i < 20; i++ {
					t1, _ := s1.Run(i)
					t2, _ := s2.Run(i)
					So(t1, ShouldResemble, t2)
				}
			})
		})

		Convey("When one random source drives shuffle and sampling", func() {
			table := sampler.DefaultAppearancesTable()
			rng := rand.New(rand.NewSource(21)) //nolint:gosec // deterministic test source
			sim, err := tournament.NewSimulator(p, sampler.New(rng, table), rng, 10)
			So(err, ShouldBeNil)
			tr, err := sim.Run(0)
			So(err, ShouldBeNil)

			Convey("Then draws follow shuffle, roster A, roster B order", func() {
				replay := rand.New(rand.NewSource(21)) //nolint:gosec // deterministic test source
				order := p.EligibleIDs()
				replay.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
				So(tr.A().Members, ShouldResemble, order[:10])
				So(tr.B().Members, ShouldResemble, order[10:20])

				for _, r := range tr.Rosters {
					var reality float64
					for i, id := range r.Members {
						a, _ := p.Athlete(id)
						n := table.Draw(replay)
						So(r.Draws[i].Appearances, ShouldEqual, n)
						d := skewnorm.New(a.Params)
						var sum float64
						for g := 0; g < n; g++ {
							sum += math.Round(d.Rand(replay))
						}
						So(r.Draws[i].Total, ShouldEqual, sum)
						reality += sum
					}
					So(r.Totals.Reality, ShouldEqual, reality)
				}
			})
		})
	})

	Convey("Given a pool smaller than two rosters", t, func() {
		p := newPool(19)
		_, err := tournament.NewSimulator(p, fixedSampler{}, rand.New(rand.NewSource(1)), 10) //nolint:gosec // deterministic test source

		Convey("Then the simulator refuses to start", func() {
			So(errors.Is(err, pool.ErrInsufficientPool), ShouldBeTrue)
		})
	})

	Convey("Given a non-positive roster size", t, func() {
		_, err := tournament.NewSimulator(newPool(20), fixedSampler{}, rand.New(rand.NewSource(1)), 0) //nolint:gosec // deterministic test source
		So(errors.Is(err, tournament.ErrInvalidRoster), ShouldBeTrue)
	})
}

func TestTrialValidate(t *testing.T) {
	Convey("Given trials with broken rosters", t, func() {
		short := trial(0, 0, 0, 0)
		short.A().Members = short.A().Members[:9]

		overlap := trial(0, 0, 0, 0)
		overlap.B().Members[4] = overlap.A().Members[0]

		Convey("Then validation fails loudly", func() {
			So(errors.Is(short.Validate(10), tournament.ErrMalformedTrial), ShouldBeTrue)
			So(errors.Is(overlap.Validate(10), tournament.ErrMalformedTrial), ShouldBeTrue)
			So(trial(0, 0, 0, 0).Validate(10), ShouldBeNil)
		})
	})
}
