package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
)

// Store is the part of the history repository the provider needs.
type Store interface {
	Load(ctx context.Context) []models.HistoryEntry
	AppendAll(ctx context.Context, entries []models.HistoryEntry)
}

// Provider imports Alpha Progression exports into history.
type Provider struct {
	store  Store
	log    *slog.Logger
	dryRun bool

	// pending holds what a dry run would have written, so later calls on the
	// same provider see it as already present.
	pending []models.HistoryEntry
}

// NewProvider creates a Provider. With dryRun set nothing is written, but the
// result still reports what would have been inserted.
func NewProvider(store Store, log *slog.Logger, dryRun bool) *Provider {
	return &Provider{store: store, log: log, dryRun: dryRun}
}

// Ingest parses an export and appends every session not already in history.
// A session is a duplicate when its workout name and timestamp match an
// existing entry, so re-importing the same file is a no-op.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	existing := p.store.Load(ctx)
	result := &ingest.Result{SessionsReceived: len(sessions)}
	var add []models.HistoryEntry
	for _, entry := range ToHistory(sessions) {
		for _, ex := range entry.Exercises {
			result.SetsReceived += len(ex.Sets)
		}
		if history.Contains(existing, entry.WorkoutName, entry.Timestamp) ||
			history.Contains(p.pending, entry.WorkoutName, entry.Timestamp) ||
			history.Contains(add, entry.WorkoutName, entry.Timestamp) {
			result.SessionsSkipped++
			continue
		}
		add = append(add, entry)
	}
	result.SessionsInserted = len(add)

	if p.dryRun {
		p.pending = append(p.pending, add...)
		result.Message = "dry run, nothing written"
		return result, nil
	}
	p.store.AppendAll(ctx, add)
	p.log.Info("alpha import",
		"received", result.SessionsReceived,
		"inserted", result.SessionsInserted,
		"skipped", result.SessionsSkipped,
	)
	return result, nil
}
