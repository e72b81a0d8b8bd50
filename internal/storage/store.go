package storage

import (
	"context"

	"genqueens/internal/model"
)

// Store persists solver runs and their per-generation history.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns stored runs newest first; limit <= 0 returns all of them.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveGenerationHistory(ctx context.Context, runID string, history []model.GenerationStats) error
	GetGenerationHistory(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
	Reset(ctx context.Context) error
}
