package alpha

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Session is one workout from an Alpha Progression export.
type Session struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []Exercise
}

// Exercise is a numbered exercise block within a session.
type Exercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []Set
}

// Set is a single warm-up or working set.
type Set struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// WorkingSets returns the non-warm-up sets in export order.
func (e Exercise) WorkingSets() []Set {
	var out []Set
	for _, s := range e.Sets {
		if !s.IsWarmup {
			out = append(out, s)
		}
	}
	return out
}

// ToHistory converts parsed sessions into history entries. Warm-ups are
// dropped, every working set is recorded as completed, and exercises without
// working sets are skipped.
func ToHistory(sessions []Session) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(sessions))
	for _, s := range sessions {
		entry := models.HistoryEntry{
			WorkoutName: s.Name,
			Timestamp:   s.Date.UnixMilli(),
			Exercises:   []models.ExerciseRecord{},
		}
		for _, ex := range s.Exercises {
			working := ex.WorkingSets()
			if len(working) == 0 {
				continue
			}
			rec := models.ExerciseRecord{Name: ex.Name, Sets: make([]models.SetRuntime, 0, len(working))}
			for _, set := range working {
				rec.Sets = append(rec.Sets, models.SetRuntime{
					Reps:      set.Reps,
					Weight:    set.WeightKg,
					Completed: true,
				})
			}
			entry.Exercises = append(entry.Exercises, rec)
		}
		entries = append(entries, entry)
	}
	return entries
}
