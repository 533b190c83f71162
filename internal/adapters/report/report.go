// Package report delivers periodic simulation reports.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/okian/rostersim/internal/domain/types"
	"github.com/okian/rostersim/pkg/logger"
)

// Emitter receives reports from the simulation loop.
type Emitter interface {
	Emit(ctx context.Context, r types.Report) error
}

// ConsoleEmitter writes a human-readable block per report.
type ConsoleEmitter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns an emitter writing to w.
func NewConsole(w io.Writer) *ConsoleEmitter {
	return &ConsoleEmitter{w: w}
}

// Emit implements Emitter.
func (c *ConsoleEmitter) Emit(_ context.Context, r types.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\tIteration number %d\n", r.TrialIndex)
	fmt.Fprintf(&b, "\t%.3f seconds since last post\n", r.ElapsedSeconds)
	fmt.Fprintf(&b, "\t%g%% of predictions were correct\n", r.Accuracy)
	for _, l := range r.Leaders {
		fmt.Fprintf(&b, "\t\t%s: %g\n", l.Name, l.Weight)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("write report %d: %w", r.TrialIndex, err)
	}
	return nil
}

// LogEmitter writes each report as structured log lines.
type LogEmitter struct {
	logger logger.Logger
}

// NewLog returns an emitter logging through l, or the global logger when l
// is nil.
func NewLog(l logger.Logger) *LogEmitter {
	if l == nil {
		l = logger.Get().Named("report")
	}
	return &LogEmitter{logger: l}
}

// Emit implements Emitter.
func (e *LogEmitter) Emit(ctx context.Context, r types.Report) error {
	e.logger.Info(ctx, "simulation report",
		logger.Int("trial", r.TrialIndex),
		logger.Float64("elapsed_seconds", r.ElapsedSeconds),
		logger.Float64("accuracy_percentage", r.Accuracy),
		logger.Int("leaders", len(r.Leaders)))
	for _, l := range r.Leaders {
		e.logger.Info(ctx, "leader",
			logger.Int("rank", l.Rank),
			logger.Int64("athlete_id", l.AthleteID),
			logger.String("name", l.Name),
			logger.Float64("weight", l.Weight))
	}
	return nil
}

// MultiEmitter fans a report out to several emitters. Every emitter is
// called; failures are joined.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(ctx context.Context, r types.Report) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
