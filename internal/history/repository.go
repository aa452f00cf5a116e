// Package history keeps the append-only log of finished sessions.
//
// Reads never fail: a missing or undecodable document reads as an empty log.
// Writes are best effort; failures are logged and otherwise dropped.
package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Repository reads and writes the history document, oldest entry first.
type Repository struct {
	kv  storage.KV
	log *slog.Logger
}

// NewRepository creates a Repository over kv.
func NewRepository(kv storage.KV, log *slog.Logger) *Repository {
	return &Repository{kv: kv, log: log}
}

// Load returns every entry in insertion order.
func (r *Repository) Load(ctx context.Context) []models.HistoryEntry {
	raw, ok, err := r.kv.Get(ctx, storage.KeyHistory)
	if err != nil {
		r.log.Warn("history read failed", "error", err)
		return []models.HistoryEntry{}
	}
	if !ok {
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.log.Warn("history decode failed, treating as empty", "error", err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries
}

// Append adds entry at the end of the log.
func (r *Repository) Append(ctx context.Context, entry models.HistoryEntry) {
	entries := r.Load(ctx)
	entries = append(entries, entry)
	r.save(ctx, entries)
}

// AppendAll adds entries at the end of the log with a single write.
func (r *Repository) AppendAll(ctx context.Context, add []models.HistoryEntry) {
	if len(add) == 0 {
		return
	}
	entries := r.Load(ctx)
	entries = append(entries, add...)
	r.save(ctx, entries)
}

// DeleteAt removes the entry at index (oldest-first order). Out-of-range
// indexes are ignored.
func (r *Repository) DeleteAt(ctx context.Context, index int) {
	entries := r.Load(ctx)
	if index < 0 || index >= len(entries) {
		r.log.Debug("history delete ignored", "index", index, "len", len(entries))
		return
	}
	entries = append(entries[:index], entries[index+1:]...)
	r.save(ctx, entries)
}

// Recent returns the last n entries, newest first.
func (r *Repository) Recent(ctx context.Context, n int) []models.HistoryEntry {
	return Newest(r.Load(ctx), n)
}

// Newest returns the last n of entries in reverse order. n <= 0 yields none.
func Newest(entries []models.HistoryEntry, n int) []models.HistoryEntry {
	if n <= 0 {
		return []models.HistoryEntry{}
	}
	n = min(n, len(entries))
	out := make([]models.HistoryEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Contains reports whether entries already hold a session with the same
// workout name and timestamp.
func Contains(entries []models.HistoryEntry, workoutName string, timestamp int64) bool {
	for _, e := range entries {
		if e.WorkoutName == workoutName && e.Timestamp == timestamp {
			return true
		}
	}
	return false
}

func (r *Repository) save(ctx context.Context, entries []models.HistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		r.log.Error("history encode failed", "error", err)
		return
	}
	if err := r.kv.Set(ctx, storage.KeyHistory, string(data)); err != nil {
		r.log.Error("history write failed", "error", err)
	}
}
