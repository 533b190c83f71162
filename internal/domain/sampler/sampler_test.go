package sampler_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/sampler"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAppearancesTable(t *testing.T) {
	Convey("Given the default appearances table", t, func() {
		table := sampler.DefaultAppearancesTable()

		Convey("Then it is valid", func() {
			So(table.Validate(), ShouldBeNil)
		})

		Convey("Then draws map onto the documented thresholds", func() {
			cases := map[int]int{1: 2, 15: 2, 16: 3, 62: 3, 63: 4, 99: 4, 100: 5}
			for u, games := range cases {
				So(table.Lookup(u), ShouldEqual, games)
			}
		})

		Convey("Then the bucket probabilities are 0.15, 0.47, 0.37, 0.01", func() {
			probs := table.Probabilities()
			So(probs, ShouldHaveLength, 4)
			want := []float64{0.15, 0.47, 0.37, 0.01}
			for i := range want {
				So(probs[i], ShouldAlmostEqual, want[i], 1e-12)
			}
		})

		Convey("When drawing many times", func() {
			rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test source
			const n = 200_000
			counts := map[int]int{}
			for i := 0; i < n; i++ {
				counts[table.Draw(rng)]++
			}

			Convey("Then frequencies match the categorical distribution", func() {
				So(len(counts), ShouldEqual, 4)
				So(float64(counts[2])/n, ShouldAlmostEqual, 0.15, 0.005)
				So(float64(counts[3])/n, ShouldAlmostEqual, 0.47, 0.005)
				So(float64(counts[4])/n, ShouldAlmostEqual, 0.37, 0.005)
				So(float64(counts[5])/n, ShouldAlmostEqual, 0.01, 0.002)
			})
		})
	})

	Convey("Given malformed tables", t, func() {
		bad := []sampler.AppearancesTable{
			{Range: 0, Buckets: []sampler.Bucket{{Upper: 1, Games: 1}}},
			{Range: 100},
			{Range: 100, Buckets: []sampler.Bucket{{Upper: 50, Games: 2}, {Upper: 50, Games: 3}}},
			{Range: 100, Buckets: []sampler.Bucket{{Upper: 100, Games: 0}}},
			{Range: 100, Buckets: []sampler.Bucket{{Upper: 99, Games: 2}}},
		}

		Convey("Then each is rejected", func() {
			for _, tb := range bad {
				So(errors.Is(tb.Validate(), sampler.ErrInvalidTable), ShouldBeTrue)
			}
		})
	})
}

func TestTrialSampler(t *testing.T) {
	Convey("Given a trial sampler", t, func() {
		table := sampler.DefaultAppearancesTable()

		Convey("When sampling a point-mass athlete", func() {
			s := sampler.New(rand.New(rand.NewSource(1)), table) //nolint:gosec // deterministic test source
			d := s.Sample(model.FittedAthlete{Params: model.Params{Loc: 2.4}})

			Convey("Then the total is appearances times the rounded value", func() {
				So(d.Appearances, ShouldBeBetweenOrEqual, 2, 5)
				So(d.Games, ShouldHaveLength, d.Appearances)
				So(d.Total, ShouldEqual, float64(2*d.Appearances))
			})
		})

		Convey("When sampling a spread distribution", func() {
			s := sampler.New(rand.New(rand.NewSource(9)), table) //nolint:gosec // deterministic test source
			a := model.FittedAthlete{Params: model.Params{A: -2, Loc: 0, Scale: 3}}
			negative := false
			for i := 0; i < 500; i++ {
				d := s.Sample(a)
				var sum float64
				for _, g := range d.Games {
					So(g, ShouldEqual, math.Round(g))
					sum += g
				}
				So(d.Total, ShouldEqual, sum)
				if d.Total < 0 {
					negative = true
				}
			}

			Convey("Then negative contributions are kept", func() {
				So(negative, ShouldBeTrue)
			})
		})

		Convey("When two samplers share a seed", func() {
			a := model.FittedAthlete{Params: model.Params{A: 3, Loc: 1, Scale: 1.5}}
			s1 := sampler.New(rand.New(rand.NewSource(77)), table) //nolint:gosec // deterministic test source
			s2 := sampler.New(rand.New(rand.NewSource(77)), table) //nolint:gosec // deterministic test source

			Convey("Then they produce identical draws", func() {
				for i := 0; i < 50; i++ {
					So(s1.Sample(a), ShouldResemble, s2.Sample(a))
				}
			})
		})
	})
}
