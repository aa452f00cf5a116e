package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplates struct {
	mu     sync.Mutex
	store  models.TemplateStore
	writes int
	setErr error
}

func (f *fakeTemplates) GetExercises(_ context.Context, name string) ([]models.ExerciseSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ExerciseSpec{}, f.store.Template(name).Exercises...), nil
}

func (f *fakeTemplates) SetExercises(_ context.Context, name string, exercises []models.ExerciseSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.writes++
	f.store[name] = append([]models.ExerciseSpec{}, exercises...)
	return nil
}

func (f *fakeTemplates) spec(name string) []models.ExerciseSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[name]
}

type fakeHistory struct {
	entries []models.HistoryEntry
}

func (f *fakeHistory) Append(_ context.Context, e models.HistoryEntry) {
	f.entries = append(f.entries, e)
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

var start = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, store models.TemplateStore) (*Materializer, *fakeTemplates, *fakeHistory, *fixedClock) {
	t.Helper()
	tpl := &fakeTemplates{store: store}
	hist := &fakeHistory{}
	clock := &fixedClock{t: start}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMaterializer(tpl, hist, clock, log), tpl, hist, clock
}

func legs() models.TemplateStore {
	return models.TemplateStore{
		"Legs": {
			{Name: "Squat", Sets: 3, Reps: 8, Weight: 40},
			{Name: "Lunge", Sets: 2, Reps: 12, Weight: 10},
		},
	}
}

func TestMaterialize(t *testing.T) {
	got := Materialize(models.WorkoutTemplate{Exercises: []models.ExerciseSpec{
		{Name: "Squat", Sets: 3, Reps: 8, Weight: 40},
		{Name: "Plank", Sets: 0, Reps: 1},
		{Name: "Broken", Sets: -1, Reps: 5},
	}})

	require.Len(t, got, 3)
	assert.Equal(t, []models.SetRuntime{
		{Reps: 8, Weight: 40}, {Reps: 8, Weight: 40}, {Reps: 8, Weight: 40},
	}, got[0].Sets)
	assert.NotNil(t, got[1].Sets)
	assert.Empty(t, got[1].Sets)
	assert.Empty(t, got[2].Sets)
}

func TestFoldUsesFirstSet(t *testing.T) {
	specs := Fold([]models.ExerciseRuntime{
		{Name: "Squat", Sets: []models.SetRuntime{{Reps: 5, Weight: 100}, {Reps: 3, Weight: 120}}},
		{Name: "Plank", Sets: []models.SetRuntime{}},
	})
	assert.Equal(t, []models.ExerciseSpec{
		{Name: "Squat", Sets: 2, Reps: 5, Weight: 100},
		{Name: "Plank", Sets: 0, Reps: 0, Weight: 0},
	}, specs)
}

// TestFoldRoundTrip verifies that toggling completion does not change the
// folded template.
func TestFoldRoundTrip(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	before := append([]models.ExerciseSpec{}, tpl.spec("Legs")...)

	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)
	require.Len(t, live.Exercises()[0].Sets, 3)

	require.NoError(t, live.ToggleSet(ctx, 0, 1))
	assert.True(t, live.Exercises()[0].Sets[1].Completed)
	assert.Equal(t, before, tpl.spec("Legs"))
	assert.Equal(t, before, Fold(live.Exercises()))
}

func TestStartUnknownTemplate(t *testing.T) {
	m, _, _, _ := setup(t, legs())
	live, err := m.Start(context.Background(), "Arms")
	require.NoError(t, err)
	assert.Empty(t, live.Exercises())
	assert.Equal(t, 0.0, live.Progress())
}

func TestExerciseEditsPersist(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	require.NoError(t, live.AddExercise(ctx, models.ExerciseRuntime{
		Name: "Calf Raise", Sets: []models.SetRuntime{{Reps: 20, Weight: 0}},
	}))
	require.NoError(t, live.RemoveExercise(ctx, 1))
	require.NoError(t, live.UpdateExercise(ctx, 0, models.ExerciseRuntime{
		Name: "Front Squat", Sets: []models.SetRuntime{{Reps: 5, Weight: 60}},
	}))

	assert.Equal(t, []models.ExerciseSpec{
		{Name: "Front Squat", Sets: 1, Reps: 5, Weight: 60},
		{Name: "Calf Raise", Sets: 1, Reps: 20, Weight: 0},
	}, tpl.spec("Legs"))
	assert.Equal(t, 3, tpl.writes)
}

func TestSetEditsPersist(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	require.NoError(t, live.AddSet(ctx, 1))
	assert.Equal(t, models.SetRuntime{}, live.Exercises()[1].Sets[2])
	assert.Equal(t, 3, tpl.spec("Legs")[1].Sets)

	require.NoError(t, live.EditSet(ctx, 0, 0, 6, 50))
	assert.Equal(t, models.ExerciseSpec{Name: "Squat", Sets: 3, Reps: 6, Weight: 50}, tpl.spec("Legs")[0])

	// Editing a later set leaves the folded spec alone.
	require.NoError(t, live.EditSet(ctx, 0, 2, 1, 200))
	assert.Equal(t, models.ExerciseSpec{Name: "Squat", Sets: 3, Reps: 6, Weight: 50}, tpl.spec("Legs")[0])

	require.NoError(t, live.RemoveSet(ctx, 0, 0))
	assert.Equal(t, models.ExerciseSpec{Name: "Squat", Sets: 2, Reps: 8, Weight: 40}, tpl.spec("Legs")[0])
}

func TestIndexOutOfRange(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	tests := []struct {
		name string
		op   func() error
	}{
		{"remove exercise", func() error { return live.RemoveExercise(ctx, 2) }},
		{"remove negative", func() error { return live.RemoveExercise(ctx, -1) }},
		{"update exercise", func() error { return live.UpdateExercise(ctx, 5, models.ExerciseRuntime{}) }},
		{"add set", func() error { return live.AddSet(ctx, 9) }},
		{"remove set", func() error { return live.RemoveSet(ctx, 0, 3) }},
		{"toggle set", func() error { return live.ToggleSet(ctx, 1, 2) }},
		{"edit set", func() error { return live.EditSet(ctx, 0, -1, 1, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), ErrIndexOutOfRange)
		})
	}
	assert.Zero(t, tpl.writes)
	assert.Len(t, live.Exercises(), 2)
}

// TestInvalidValuesRejected verifies negative or oversized values never reach
// the session or the template.
func TestInvalidValuesRejected(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	tests := []struct {
		name string
		op   func() error
	}{
		{"negative reps", func() error { return live.EditSet(ctx, 0, 0, -8, 40) }},
		{"negative weight", func() error { return live.EditSet(ctx, 0, 0, 8, -40) }},
		{"add negative set", func() error {
			return live.AddExercise(ctx, models.ExerciseRuntime{Name: "Row", Sets: []models.SetRuntime{{Reps: -1}}})
		}},
		{"update oversized", func() error {
			return live.UpdateExercise(ctx, 0, models.ExerciseRuntime{Name: "Squat", Sets: make([]models.SetRuntime, models.MaxSets+1)})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), models.ErrInvalidExercise)
		})
	}
	assert.Zero(t, tpl.writes)
	assert.Equal(t, legs()["Legs"], tpl.spec("Legs"))
	assert.Equal(t, models.SetRuntime{Reps: 8, Weight: 40}, live.Exercises()[0].Sets[0])
}

// TestAddSetStopsAtMaxSets verifies the set count cannot grow past the cap.
func TestAddSetStopsAtMaxSets(t *testing.T) {
	m, _, _, _ := setup(t, models.TemplateStore{"Grind": {{Name: "Pushup", Sets: models.MaxSets, Reps: 1}}})
	ctx := context.Background()
	live, err := m.Start(ctx, "Grind")
	require.NoError(t, err)

	assert.ErrorIs(t, live.AddSet(ctx, 0), models.ErrInvalidExercise)
	assert.Len(t, live.Exercises()[0].Sets, models.MaxSets)
}

// TestMaterializeClampsSets verifies a stored oversized count cannot blow up
// a session start.
func TestMaterializeClampsSets(t *testing.T) {
	got := Materialize(models.WorkoutTemplate{Exercises: []models.ExerciseSpec{
		{Name: "Huge", Sets: 1_000_000_000, Reps: 1},
	}})
	assert.Len(t, got[0].Sets, models.MaxSets)
}

// TestEditKeptOnWriteFailure verifies a failed template write surfaces the
// error but keeps the in-memory change.
func TestEditKeptOnWriteFailure(t *testing.T) {
	m, tpl, _, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	boom := errors.New("disk full")
	tpl.setErr = boom
	assert.ErrorIs(t, live.AddSet(ctx, 0), boom)
	assert.Len(t, live.Exercises()[0].Sets, 4)
	assert.Equal(t, 3, tpl.spec("Legs")[0].Sets)
}

func TestProgressAndSnapshot(t *testing.T) {
	m, _, _, clock := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)

	require.NoError(t, live.ToggleSet(ctx, 0, 0))
	require.NoError(t, live.ToggleSet(ctx, 1, 1))
	assert.InDelta(t, 0.4, live.Progress(), 1e-9)

	clock.t = start.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, live.Elapsed(clock.Now()))

	snap := live.Snapshot(clock.Now())
	assert.Equal(t, "Legs", snap.WorkoutName)
	assert.Equal(t, start, snap.StartedAt)
	assert.Equal(t, 90.0, snap.ElapsedSec)
	assert.Equal(t, 2, snap.CompletedSets)
	assert.Equal(t, 5, snap.TotalSets)
	assert.InDelta(t, 0.4, snap.Progress, 1e-9)

	// Snapshots are copies.
	snap.Exercises[0].Sets[0].Reps = 99
	assert.Equal(t, 8, live.Exercises()[0].Sets[0].Reps)
}

func TestFinishAppendsHistory(t *testing.T) {
	m, tpl, hist, clock := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)
	require.NoError(t, live.ToggleSet(ctx, 0, 0))
	writes := tpl.writes

	clock.t = start.Add(45 * time.Minute)
	entry, err := live.Finish(ctx)
	require.NoError(t, err)

	require.Len(t, hist.entries, 1)
	assert.Equal(t, entry, hist.entries[0])
	assert.Equal(t, "Legs", entry.WorkoutName)
	assert.Equal(t, clock.t.UnixMilli(), entry.Timestamp)
	require.Len(t, entry.Exercises, 2)
	assert.True(t, entry.Exercises[0].Sets[0].Completed)
	assert.Equal(t, writes, tpl.writes)

	_, err = live.Finish(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, live.AddSet(ctx, 0), ErrSessionClosed)
	assert.Len(t, hist.entries, 1)
}

func TestCancelSkipsHistory(t *testing.T) {
	m, tpl, hist, _ := setup(t, legs())
	ctx := context.Background()
	live, err := m.Start(ctx, "Legs")
	require.NoError(t, err)
	require.NoError(t, live.AddSet(ctx, 0))

	live.Cancel()
	assert.Empty(t, hist.entries)
	// Structural edits made before cancelling stay in the template.
	assert.Equal(t, 4, tpl.spec("Legs")[0].Sets)
	assert.ErrorIs(t, live.ToggleSet(ctx, 0, 0), ErrSessionClosed)
	_, err = live.Finish(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
