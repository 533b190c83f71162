// Package service drives the simulation loop: trials, weight updates and
// periodic reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rostersim/internal/adapters/report"
	"github.com/okian/rostersim/internal/domain/tournament"
	"github.com/okian/rostersim/internal/domain/types"
	"github.com/okian/rostersim/pkg/logger"
	"github.com/okian/rostersim/pkg/metrics"
)

// Default run configuration constants.
const (
	DefaultIterations = 1_000_001
	DefaultTopN       = 10
	reportsPerRun     = 100
)

// Pool is the athlete state the loop reads and updates.
type Pool interface {
	tournament.WeightAdjuster
	Len() int
	TopN(n int) []types.Leader
}

// Simulator produces one trial per call.
type Simulator interface {
	Run(index int) (tournament.Trial, error)
}

// Learner applies the update rule to a finished trial.
type Learner interface {
	Apply(w tournament.WeightAdjuster, t *tournament.Trial) (tournament.Verdict, error)
}

// Summary describes a finished or interrupted run.
type Summary struct {
	RunID   string
	Trials  int
	Reports int
	Correct int
}

// Runner owns the simulation loop. Run must not be called concurrently;
// Progress may be read from any goroutine.
type Runner struct {
	pool    Pool
	sim     Simulator
	learner Learner

	iterations     int
	maxTrials      int
	reportInterval int
	topN           int
	verbose        bool

	emitter report.Emitter
	now     func() time.Time
	runID   string
	logger  logger.Logger

	progress atomic.Pointer[types.Progress]
}

// ReportInterval derives the report cadence for a run length: a hundredth
// of the trials after the first, and at least one.
func ReportInterval(iterations int) int {
	if n := (iterations - 1) / reportsPerRun; n > 1 {
		return n
	}
	return 1
}

// New constructs a Runner over p. Unset options fall back to defaults.
func New(p Pool, sim Simulator, learner Learner, opts ...Option) *Runner {
	r := &Runner{
		pool:       p,
		sim:        sim,
		learner:    learner,
		iterations: DefaultIterations,
		topN:       DefaultTopN,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("runner")
	}
	if r.emitter == nil {
		r.emitter = report.NewLog(r.logger)
	}
	if r.reportInterval == 0 {
		r.reportInterval = ReportInterval(r.iterations)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.progress.Store(&types.Progress{RunID: r.runID, PoolSize: p.Len(), Iterations: r.iterations})
	return r
}

// RunID returns the identifier attached to reports and progress.
func (r *Runner) RunID() string { return r.runID }

// ReportEvery returns the effective report interval.
func (r *Runner) ReportEvery() int { return r.reportInterval }

// Progress returns the latest published snapshot.
func (r *Runner) Progress() types.Progress { return *r.progress.Load() }

// Run executes the configured trials. A cancelled context stops the loop
// between trials; the partial summary is returned with the context error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	trials := r.iterations
	if r.maxTrials > 0 && r.maxTrials < trials {
		trials = r.maxTrials
	}
	start := r.now()
	last := start
	sum := Summary{RunID: r.runID}
	state := types.Progress{
		RunID:      r.runID,
		StartedAt:  start,
		PoolSize:   r.pool.Len(),
		Iterations: r.iterations,
	}
	r.publish(state)
	metrics.UpdatePoolSize(state.PoolSize)

	r.logger.Info(ctx, "simulation started",
		logger.String("run_id", r.runID),
		logger.Int("pool", state.PoolSize),
		logger.Int("trials", trials),
		logger.Int("report_interval", r.reportInterval),
		logger.Bool("verbose", r.verbose))

	correct := 0
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Warn(ctx, "simulation interrupted", logger.Int("trials", sum.Trials))
			state.Trials = sum.Trials
			r.publish(state)
			return sum, fmt.Errorf("run %s stopped at trial %d: %w", r.runID, i, err)
		}

		t0 := r.now()
		t, err := r.sim.Run(i)
		if err != nil {
			return sum, fmt.Errorf("trial %d: %w", i, err)
		}
		v, err := r.learner.Apply(r.pool, &t)
		if err != nil {
			return sum, fmt.Errorf("apply trial %d: %w", i, err)
		}
		sum.Trials++
		if v.Correct {
			correct++
			sum.Correct++
		}
		metrics.RecordTrial(float64(r.now().Sub(t0).Microseconds()))
		metrics.RecordPrediction(v.Correct)
		if v.Boosted != tournament.NoSide {
			metrics.RecordWeightAdjustment(v.Boosted.String())
		}
		if r.verbose {
			r.trace(ctx, &t, v)
		}

		if i%r.reportInterval != 0 && !r.verbose {
			continue
		}
		now := r.now()
		rep := types.Report{
			TrialIndex:     i,
			ElapsedSeconds: now.Sub(last).Seconds(),
			Accuracy:       float64(correct) / float64(r.reportInterval) * 100,
			Leaders:        r.pool.TopN(r.topN),
		}
		last = now
		correct = 0
		if err := r.emitter.Emit(ctx, rep); err != nil {
			return sum, fmt.Errorf("emit report at trial %d: %w", i, err)
		}
		sum.Reports++
		metrics.RecordReport(rep.Accuracy, leaderWeight(rep.Leaders))

		state.Trials = sum.Trials
		state.Reports = sum.Reports
		state.Last = &rep
		r.publish(state)
	}

	state.Trials = sum.Trials
	state.Done = true
	r.publish(state)
	r.logger.Info(ctx, "simulation finished",
		logger.String("run_id", r.runID),
		logger.Int("trials", sum.Trials),
		logger.Int("reports", sum.Reports),
		logger.Int("correct", sum.Correct),
		logger.Duration("elapsed", r.now().Sub(start)))
	return sum, nil
}

// Interrupted reports whether err came from a cancelled run.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (r *Runner) publish(p types.Progress) {
	r.progress.Store(&p)
}

func (r *Runner) trace(ctx context.Context, t *tournament.Trial, v tournament.Verdict) {
	for i := range t.Rosters {
		side := tournament.Side(i + 1)
		ro := &t.Rosters[i]
		for j, id := range ro.Members {
			d := ro.Draws[j]
			r.logger.Debug(ctx, "draw",
				logger.Int("trial", t.Index),
				logger.String("roster", side.String()),
				logger.Int64("athlete_id", int64(id)),
				logger.Int("appearances", d.Appearances),
				logger.Any("games", d.Games),
				logger.Float64("total", d.Total))
		}
	}
	r.logger.Debug(ctx, "trial outcome",
		logger.Int("trial", t.Index),
		logger.Float64("prediction_a", t.A().Totals.Prediction),
		logger.Float64("prediction_b", t.B().Totals.Prediction),
		logger.Float64("reality_a", t.A().Totals.Reality),
		logger.Float64("reality_b", t.B().Totals.Reality),
		logger.Bool("correct", v.Correct),
		logger.String("boosted", v.Boosted.String()))
}

func leaderWeight(leaders []types.Leader) float64 {
	if len(leaders) == 0 {
		return 0
	}
	return leaders[0].Weight
}
