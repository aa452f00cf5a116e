// Package session turns workout templates into live, editable sessions and
// folds structural edits back into the template.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrSessionClosed   = errors.New("session already finished or cancelled")
)

// Templates is the part of the template repository a session writes through.
type Templates interface {
	GetExercises(ctx context.Context, name string) ([]models.ExerciseSpec, error)
	SetExercises(ctx context.Context, name string, exercises []models.ExerciseSpec) error
}

// History receives finished sessions.
type History interface {
	Append(ctx context.Context, entry models.HistoryEntry)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Materializer starts sessions and owns their persistence collaborators.
type Materializer struct {
	templates Templates
	history   History
	clock     Clock
	log       *slog.Logger
}

// NewMaterializer creates a Materializer.
func NewMaterializer(templates Templates, history History, clock Clock, log *slog.Logger) *Materializer {
	return &Materializer{templates: templates, history: history, clock: clock, log: log}
}

// Materialize expands each spec into Sets identical, uncompleted sets. Set
// counts are clamped to [0, models.MaxSets].
func Materialize(t models.WorkoutTemplate) []models.ExerciseRuntime {
	out := make([]models.ExerciseRuntime, 0, len(t.Exercises))
	for _, spec := range t.Exercises {
		n := min(max(spec.Sets, 0), models.MaxSets)
		sets := make([]models.SetRuntime, n)
		for i := range sets {
			sets[i] = models.SetRuntime{Reps: spec.Reps, Weight: spec.Weight}
		}
		out = append(out, models.ExerciseRuntime{Name: spec.Name, Sets: sets})
	}
	return out
}

// Fold projects live exercises back onto template specs. Only the first set's
// reps and weight survive; later per-set variation is dropped.
func Fold(exercises []models.ExerciseRuntime) []models.ExerciseSpec {
	specs := make([]models.ExerciseSpec, 0, len(exercises))
	for _, ex := range exercises {
		spec := models.ExerciseSpec{Name: ex.Name, Sets: len(ex.Sets)}
		if len(ex.Sets) > 0 {
			spec.Reps = ex.Sets[0].Reps
			spec.Weight = ex.Sets[0].Weight
		}
		specs = append(specs, spec)
	}
	return specs
}

// Start loads the named template and opens a live session on it.
func (m *Materializer) Start(ctx context.Context, workoutName string) (*Live, error) {
	specs, err := m.templates.GetExercises(ctx, workoutName)
	if err != nil {
		return nil, fmt.Errorf("starting session %q: %w", workoutName, err)
	}
	return &Live{
		m:           m,
		workoutName: workoutName,
		startedAt:   m.clock.Now(),
		exercises:   Materialize(models.WorkoutTemplate{Name: workoutName, Exercises: specs}),
	}, nil
}

// Live is one run-through of a template. It is discarded once finished or cancelled.
type Live struct {
	m *Materializer

	mu          sync.Mutex
	workoutName string
	startedAt   time.Time
	exercises   []models.ExerciseRuntime
	closed      bool
}

// Snapshot is a read-only copy of a live session's state.
type Snapshot struct {
	WorkoutName   string                   `json:"workoutName"`
	StartedAt     time.Time                `json:"startedAt"`
	ElapsedSec    float64                  `json:"elapsedSec"`
	Exercises     []models.ExerciseRuntime `json:"exercises"`
	CompletedSets int                      `json:"completedSets"`
	TotalSets     int                      `json:"totalSets"`
	Progress      float64                  `json:"progress"`
}

func (l *Live) WorkoutName() string { return l.workoutName }

// Exercises returns a deep copy of the current exercises.
func (l *Live) Exercises() []models.ExerciseRuntime {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneAll(l.exercises)
}

// Snapshot captures the session state at now.
func (l *Live) Snapshot(now time.Time) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	done, total := progress(l.exercises)
	s := Snapshot{
		WorkoutName:   l.workoutName,
		StartedAt:     l.startedAt,
		ElapsedSec:    now.Sub(l.startedAt).Seconds(),
		Exercises:     cloneAll(l.exercises),
		CompletedSets: done,
		TotalSets:     total,
	}
	if total > 0 {
		s.Progress = float64(done) / float64(total)
	}
	return s
}

// Elapsed returns the time since the session started.
func (l *Live) Elapsed(now time.Time) time.Duration {
	return now.Sub(l.startedAt)
}

// Progress returns completed sets over total sets, 0 when there are no sets.
func (l *Live) Progress() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	done, total := progress(l.exercises)
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func progress(exercises []models.ExerciseRuntime) (done, total int) {
	for _, ex := range exercises {
		total += len(ex.Sets)
		for _, s := range ex.Sets {
			if s.Completed {
				done++
			}
		}
	}
	return done, total
}

func cloneAll(exercises []models.ExerciseRuntime) []models.ExerciseRuntime {
	out := make([]models.ExerciseRuntime, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Clone()
	}
	return out
}

// AddExercise appends an exercise and persists the folded template.
func (l *Live) AddExercise(ctx context.Context, ex models.ExerciseRuntime) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	return l.edit(ctx, func(exercises []models.ExerciseRuntime) ([]models.ExerciseRuntime, error) {
		return append(exercises, ex.Clone()), nil
	})
}

// RemoveExercise removes the exercise at index and persists the folded template.
func (l *Live) RemoveExercise(ctx context.Context, index int) error {
	return l.edit(ctx, func(exercises []models.ExerciseRuntime) ([]models.ExerciseRuntime, error) {
		if index < 0 || index >= len(exercises) {
			return nil, fmt.Errorf("%w: exercise %d of %d", ErrIndexOutOfRange, index, len(exercises))
		}
		return append(exercises[:index:index], exercises[index+1:]...), nil
	})
}

// UpdateExercise replaces the exercise at index and persists the folded template.
func (l *Live) UpdateExercise(ctx context.Context, index int, ex models.ExerciseRuntime) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	return l.edit(ctx, func(exercises []models.ExerciseRuntime) ([]models.ExerciseRuntime, error) {
		if index < 0 || index >= len(exercises) {
			return nil, fmt.Errorf("%w: exercise %d of %d", ErrIndexOutOfRange, index, len(exercises))
		}
		exercises[index] = ex.Clone()
		return exercises, nil
	})
}

// AddSet appends an empty set to the exercise at index.
func (l *Live) AddSet(ctx context.Context, index int) error {
	return l.editExercise(ctx, index, func(ex *models.ExerciseRuntime) error {
		if len(ex.Sets) >= models.MaxSets {
			return fmt.Errorf("%w: %q already has %d sets", models.ErrInvalidExercise, ex.Name, len(ex.Sets))
		}
		ex.Sets = append(ex.Sets, models.SetRuntime{})
		return nil
	})
}

// RemoveSet removes one set from the exercise at index.
func (l *Live) RemoveSet(ctx context.Context, index, set int) error {
	return l.editExercise(ctx, index, func(ex *models.ExerciseRuntime) error {
		if set < 0 || set >= len(ex.Sets) {
			return fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, set, len(ex.Sets))
		}
		ex.Sets = append(ex.Sets[:set:set], ex.Sets[set+1:]...)
		return nil
	})
}

// ToggleSet flips the completed flag of one set.
func (l *Live) ToggleSet(ctx context.Context, index, set int) error {
	return l.editExercise(ctx, index, func(ex *models.ExerciseRuntime) error {
		if set < 0 || set >= len(ex.Sets) {
			return fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, set, len(ex.Sets))
		}
		ex.Sets[set].Completed = !ex.Sets[set].Completed
		return nil
	})
}

// EditSet changes the reps and weight of one set. Negative values are rejected.
func (l *Live) EditSet(ctx context.Context, index, set, reps int, weight float64) error {
	if err := (models.SetRuntime{Reps: reps, Weight: weight}).Validate(); err != nil {
		return err
	}
	return l.editExercise(ctx, index, func(ex *models.ExerciseRuntime) error {
		if set < 0 || set >= len(ex.Sets) {
			return fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, set, len(ex.Sets))
		}
		ex.Sets[set].Reps = reps
		ex.Sets[set].Weight = weight
		return nil
	})
}

// editExercise applies fn to a copy of one exercise and routes the result
// through UpdateExercise.
func (l *Live) editExercise(ctx context.Context, index int, fn func(*models.ExerciseRuntime) error) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrSessionClosed
	}
	if index < 0 || index >= len(l.exercises) {
		n := len(l.exercises)
		l.mu.Unlock()
		return fmt.Errorf("%w: exercise %d of %d", ErrIndexOutOfRange, index, n)
	}
	ex := l.exercises[index].Clone()
	l.mu.Unlock()

	if err := fn(&ex); err != nil {
		return err
	}
	return l.UpdateExercise(ctx, index, ex)
}

// edit applies fn to the exercise list and writes the folded template. The
// in-memory edit is kept even if the write fails.
func (l *Live) edit(ctx context.Context, fn func([]models.ExerciseRuntime) ([]models.ExerciseRuntime, error)) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrSessionClosed
	}
	next, err := fn(cloneAll(l.exercises))
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.exercises = next
	specs := Fold(next)
	l.mu.Unlock()

	if err := l.m.templates.SetExercises(ctx, l.workoutName, specs); err != nil {
		return fmt.Errorf("saving template %q: %w", l.workoutName, err)
	}
	return nil
}

// Finish snapshots the session into a history entry, appends it and closes the
// session. The template itself is left untouched.
func (l *Live) Finish(ctx context.Context) (models.HistoryEntry, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return models.HistoryEntry{}, ErrSessionClosed
	}
	l.closed = true
	records := make([]models.ExerciseRecord, 0, len(l.exercises))
	for _, ex := range l.exercises {
		records = append(records, models.RecordFromRuntime(ex))
	}
	l.mu.Unlock()

	entry := models.HistoryEntry{
		WorkoutName: l.workoutName,
		Timestamp:   l.m.clock.Now().UnixMilli(),
		Exercises:   records,
	}
	l.m.history.Append(ctx, entry)
	l.m.log.Info("session finished", "workout", l.workoutName, "exercises", len(records))
	return entry, nil
}

// Cancel closes the session without writing history. Template edits already
// folded during the session stay persisted.
func (l *Live) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}
