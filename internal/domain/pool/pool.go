// Package pool holds the eligible athletes, their fitted distributions and
// their learned weights.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/internal/domain/ranking"
	"github.com/okian/rostersim/internal/domain/skewnorm"
	"github.com/okian/rostersim/internal/domain/types"
	"github.com/okian/rostersim/pkg/logger"
	"github.com/okian/rostersim/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Default pool configuration constants.
const (
	DefaultMinutesThreshold = 500
)

// Exclusion reasons.
const (
	ReasonMinutes   = "minutes"
	ReasonFit       = "fit_failure"
	ReasonDuplicate = "duplicate"
)

// Exclusion describes an athlete left out of the pool during ingest.
type Exclusion struct {
	ID     model.AthleteID
	Name   string
	Reason string
	Err    error
}

// IngestResult summarises one Ingest call.
type IngestResult struct {
	Accepted   int
	Excluded   []Exclusion
	FitFailure int
}

// Pool owns the fitted athletes. After Ingest, only weights change.
// It is not safe for concurrent use.
type Pool struct {
	minutesThreshold float64
	fitWorkers       int
	fit              Fitter
	logger           logger.Logger

	athletes map[model.AthleteID]*model.FittedAthlete
	order    []model.AthleteID
	ranking  *ranking.Index
}

// New constructs an empty pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		minutesThreshold: DefaultMinutesThreshold,
		fitWorkers:       runtime.NumCPU(),
		fit:              skewnorm.Fit,
		athletes:         make(map[model.AthleteID]*model.FittedAthlete),
		ranking:          ranking.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("pool")
	}
	return p
}

type fitResult struct {
	params model.Params
	err    error
}

// Ingest filters records by participation, fits the survivors and adds them
// with weight 0. Fits run concurrently; athletes are added in record order.
// A failed fit excludes that athlete only. The returned error is non-nil
// only when ctx is cancelled.
func (p *Pool) Ingest(ctx context.Context, records []model.AthleteRecord) (IngestResult, error) {
	var res IngestResult

	eligible := make([]bool, len(records))
	for i, r := range records {
		eligible[i] = r.Minutes >= p.minutesThreshold
	}

	fits := make([]fitResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fitWorkers)
	for i := range records {
		if !eligible[i] {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			params, err := p.fit(records[i].Samples)
			metrics.RecordFitLatency(float64(time.Since(start).Milliseconds()))
			fits[i] = fitResult{params: params, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("ingest cancelled: %w", err)
	}

	for i, r := range records {
		switch {
		case !eligible[i]:
			p.exclude(ctx, &res, Exclusion{ID: r.ID, Name: r.Name, Reason: ReasonMinutes})
		case p.athletes[r.ID] != nil:
			p.exclude(ctx, &res, Exclusion{ID: r.ID, Name: r.Name, Reason: ReasonDuplicate})
		case fits[i].err != nil:
			res.FitFailure++
			metrics.RecordFitFailure()
			p.exclude(ctx, &res, Exclusion{ID: r.ID, Name: r.Name, Reason: ReasonFit, Err: fits[i].err})
		default:
			a := &model.FittedAthlete{
				ID:      r.ID,
				Name:    r.Name,
				Params:  fits[i].params,
				Minutes: r.Minutes,
				Seq:     len(p.order),
			}
			p.athletes[r.ID] = a
			p.order = append(p.order, r.ID)
			p.ranking.Set(a.ID, a.Seq, 0)
			res.Accepted++
		}
	}

	metrics.UpdatePoolSize(len(p.order))
	p.logger.Info(ctx, "pool ingest complete",
		logger.Int("records", len(records)),
		logger.Int("accepted", res.Accepted),
		logger.Int("excluded", len(res.Excluded)),
		logger.Int("fitFailures", res.FitFailure),
		logger.Int("poolSize", len(p.order)),
	)
	return res, nil
}

func (p *Pool) exclude(ctx context.Context, res *IngestResult, e Exclusion) {
	res.Excluded = append(res.Excluded, e)
	metrics.RecordAthleteExcluded(e.Reason)
	if e.Err != nil {
		p.logger.Warn(ctx, "athlete excluded",
			logger.Int64("athlete", int64(e.ID)),
			logger.String("name", e.Name),
			logger.String("reason", e.Reason),
			logger.Error(e.Err),
		)
		return
	}
	p.logger.Debug(ctx, "athlete excluded",
		logger.Int64("athlete", int64(e.ID)),
		logger.String("name", e.Name),
		logger.String("reason", e.Reason),
	)
}

// EligibleIDs returns a fresh copy of the pool's ids in ingest order.
func (p *Pool) EligibleIDs() []model.AthleteID {
	out := make([]model.AthleteID, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of eligible athletes.
func (p *Pool) Len() int { return len(p.order) }

// Athlete returns a copy of the athlete with id.
func (p *Pool) Athlete(id model.AthleteID) (model.FittedAthlete, bool) {
	a, ok := p.athletes[id]
	if !ok {
		return model.FittedAthlete{}, false
	}
	return *a, true
}

// WeightOf returns the current weight of id.
func (p *Pool) WeightOf(id model.AthleteID) (float64, error) {
	a, ok := p.athletes[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAthlete, id)
	}
	return a.Weight, nil
}

// AdjustWeight adds delta to the weight of id.
func (p *Pool) AdjustWeight(id model.AthleteID, delta float64) error {
	a, ok := p.athletes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAthlete, id)
	}
	a.Weight += delta
	p.ranking.Set(id, a.Seq, a.Weight)
	return nil
}

// TotalWeight returns the sum of all weights.
func (p *Pool) TotalWeight() float64 {
	var sum float64
	for _, id := range p.order {
		sum += p.athletes[id].Weight
	}
	return sum
}

// TopN returns the n heaviest athletes; ties keep ingest order.
func (p *Pool) TopN(n int) []types.Leader {
	entries := p.ranking.TopN(n)
	out := make([]types.Leader, len(entries))
	for i, e := range entries {
		out[i] = types.Leader{
			Rank:      e.Rank,
			AthleteID: int64(e.ID),
			Name:      p.athletes[e.ID].Name,
			Weight:    e.Weight,
		}
	}
	return out
}

// RequireAtLeast fails with ErrInsufficientPool when fewer than n athletes
// are eligible.
func (p *Pool) RequireAtLeast(n int) error {
	if len(p.order) < n {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPool, len(p.order), n)
	}
	return nil
}
