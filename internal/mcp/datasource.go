package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/templates"
)

// Templates is the read side of the template repository.
type Templates interface {
	ListNames(ctx context.Context) ([]string, error)
	GetExercises(ctx context.Context, name string) ([]models.ExerciseSpec, error)
}

// History is the read side of the history repository.
type History interface {
	Load(ctx context.Context) []models.HistoryEntry
}

// Clock supplies the current time for date defaults and statistics.
type Clock interface {
	Now() time.Time
}

// Compile-time checks.
var (
	_ Templates = (*templates.Repository)(nil)
	_ History   = (*history.Repository)(nil)
)
