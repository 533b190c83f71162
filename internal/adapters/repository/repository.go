// Package repository reads per-game statistic lines and groups them into
// athlete records.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/rostersim/internal/domain/model"
)

// DefaultStat is the statistic column read when none is configured.
const DefaultStat = "blocks"

// StatRepository streams game lines for a scope.
type StatRepository interface {
	// Lines returns one line per game played, grouped by athlete, in the
	// order the source stores them.
	Lines(ctx context.Context, scope model.Scope) ([]model.GameLine, error)
}

// Group folds a line stream into records. Records keep the order in which
// their athlete first appears; samples keep stream order. Minutes are summed.
func Group(lines []model.GameLine) []model.AthleteRecord {
	index := make(map[model.AthleteID]int)
	var out []model.AthleteRecord
	for _, l := range lines {
		i, ok := index[l.AthleteID]
		if !ok {
			i = len(out)
			index[l.AthleteID] = i
			out = append(out, model.AthleteRecord{ID: l.AthleteID, Name: l.Name})
		}
		out[i].Samples = append(out[i].Samples, l.Value)
		out[i].Minutes += l.Minutes
	}
	return out
}

// Load reads scope from repo and groups it. It fails with ErrDataUnavailable
// when the source returns nothing or any required athlete has no lines.
func Load(ctx context.Context, repo StatRepository, scope model.Scope, required ...model.AthleteID) ([]model.AthleteRecord, error) {
	lines, err := repo.Lines(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines for stat %q", ErrDataUnavailable, scope.Stat)
	}
	records := Group(lines)
	if len(required) > 0 {
		seen := make(map[model.AthleteID]struct{}, len(records))
		for _, r := range records {
			seen[r.ID] = struct{}{}
		}
		for _, id := range required {
			if _, ok := seen[id]; !ok {
				return nil, fmt.Errorf("%w: athlete %d has no lines", ErrDataUnavailable, id)
			}
		}
	}
	return records, nil
}
