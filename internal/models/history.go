package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// HistoryEntry is a frozen snapshot of a finished session.
type HistoryEntry struct {
	WorkoutName string           `json:"workoutName"`
	Timestamp   int64            `json:"timestamp"` // epoch milliseconds
	Exercises   []ExerciseRecord `json:"exercises"`
}

// Time converts the entry timestamp to a time.Time in loc.
func (h HistoryEntry) Time(loc *time.Location) time.Time {
	return time.UnixMilli(h.Timestamp).In(loc)
}

// ExerciseRecord is one exercise as it was performed in a finished session.
type ExerciseRecord struct {
	Name string       `json:"name"`
	Sets []SetRuntime `json:"sets"`
}

// Volume sums reps × weight over every set.
func (r ExerciseRecord) Volume() float64 {
	var v float64
	for _, s := range r.Sets {
		v += float64(s.Reps) * s.Weight
	}
	return v
}

// Completed reports whether the record has sets and all of them are done.
func (r ExerciseRecord) Completed() bool {
	if len(r.Sets) == 0 {
		return false
	}
	for _, s := range r.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

// legacyRecord is the summary shape older builds wrote: numeric sets/reps/weight
// and a single completed flag instead of a set array. Any field may be null.
type legacyRecord struct {
	Name      string   `json:"name"`
	Sets      *float64 `json:"sets"`
	Reps      *float64 `json:"reps"`
	Weight    *float64 `json:"weight"`
	Completed bool     `json:"completed"`
}

// UnmarshalJSON accepts both the set-array shape and the legacy summary shape.
func (r *ExerciseRecord) UnmarshalJSON(data []byte) error {
	var head struct {
		Name string          `json:"name"`
		Sets json.RawMessage `json:"sets"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	r.Name = head.Name
	if sets := bytes.TrimSpace(head.Sets); len(sets) > 0 && sets[0] == '[' {
		r.Sets = []SetRuntime{}
		if err := json.Unmarshal(sets, &r.Sets); err != nil {
			return fmt.Errorf("decoding sets of %q: %w", head.Name, err)
		}
		return nil
	}

	var legacy legacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("decoding legacy exercise %q: %w", head.Name, err)
	}
	sets, err := expandLegacy(legacy)
	if err != nil {
		return fmt.Errorf("decoding legacy exercise %q: %w", head.Name, err)
	}
	r.Sets = sets
	return nil
}

func expandLegacy(l legacyRecord) ([]SetRuntime, error) {
	n, err := legacyCount("sets", l.Sets, MaxSets)
	if err != nil {
		return nil, err
	}
	reps, err := legacyCount("reps", l.Reps, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	var weight float64
	if l.Weight != nil {
		weight = *l.Weight
	}
	if !validWeight(weight) {
		return nil, fmt.Errorf("%w: weight %v", ErrInvalidExercise, weight)
	}

	sets := make([]SetRuntime, n)
	for i := range sets {
		sets[i] = SetRuntime{Reps: reps, Weight: weight, Completed: l.Completed}
	}
	return sets, nil
}

// legacyCount converts a nullable legacy number to an int in [0, limit].
func legacyCount(field string, v *float64, limit int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > float64(limit) {
		return 0, fmt.Errorf("%w: %s %v", ErrInvalidExercise, field, *v)
	}
	return int(*v), nil
}

// RecordFromRuntime freezes a live exercise into a history record.
func RecordFromRuntime(e ExerciseRuntime) ExerciseRecord {
	sets := make([]SetRuntime, len(e.Sets))
	copy(sets, e.Sets)
	return ExerciseRecord{Name: e.Name, Sets: sets}
}
