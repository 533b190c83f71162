package repository

import (
	"context"

	"github.com/okian/rostersim/internal/domain/model"
)

// MemoryRepository serves a fixed set of lines regardless of scope.
type MemoryRepository struct {
	lines []model.GameLine
}

// NewMemory returns a repository over a copy of lines.
func NewMemory(lines []model.GameLine) *MemoryRepository {
	cp := make([]model.GameLine, len(lines))
	copy(cp, lines)
	return &MemoryRepository{lines: cp}
}

// Lines implements StatRepository.
func (m *MemoryRepository) Lines(ctx context.Context, _ model.Scope) ([]model.GameLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.GameLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}
