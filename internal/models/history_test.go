package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExerciseRecordLegacyShape verifies summary-style records expand into
// identical sets.
func TestExerciseRecordLegacyShape(t *testing.T) {
	var r ExerciseRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Squat","sets":3,"reps":10,"weight":20,"completed":true}`), &r))

	assert.Equal(t, "Squat", r.Name)
	require.Len(t, r.Sets, 3)
	for _, s := range r.Sets {
		assert.Equal(t, SetRuntime{Reps: 10, Weight: 20, Completed: true}, s)
	}
	assert.Equal(t, 600.0, r.Volume())
	assert.True(t, r.Completed())
}

func TestExerciseRecordLegacyNulls(t *testing.T) {
	tests := []struct {
		name string
		json string
		sets int
	}{
		{"all null", `{"name":"Plank","sets":null,"reps":null,"weight":null}`, 0},
		{"missing sets", `{"name":"Plank","reps":5}`, 0},
		{"weight null", `{"name":"Pushup","sets":2,"reps":15,"weight":null}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ExerciseRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &r))
			assert.Len(t, r.Sets, tt.sets)
			assert.Equal(t, 0.0, r.Volume())
		})
	}
}

// TestExerciseRecordLegacyOutOfRange verifies legacy numbers that cannot
// describe a real exercise are rejected instead of expanded.
func TestExerciseRecordLegacyOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"huge sets", `{"name":"X","sets":1e15,"reps":5,"weight":10}`},
		{"astronomic sets", `{"name":"X","sets":1e300,"reps":5,"weight":10}`},
		{"sets just above cap", `{"name":"X","sets":10001,"reps":5}`},
		{"negative sets", `{"name":"Plank","sets":-2,"reps":5}`},
		{"negative reps", `{"name":"X","sets":2,"reps":-5}`},
		{"huge reps", `{"name":"X","sets":2,"reps":1e20}`},
		{"negative weight", `{"name":"X","sets":2,"reps":5,"weight":-40}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ExerciseRecord
			err := json.Unmarshal([]byte(tt.json), &r)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidExercise)
		})
	}

	var r ExerciseRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"X","sets":10000,"reps":1}`), &r))
	assert.Len(t, r.Sets, MaxSets)
}

func TestExerciseRecordArrayShape(t *testing.T) {
	var r ExerciseRecord
	data := `{"name":"Bench","sets":[{"reps":8,"weight":60,"completed":true},{"reps":6,"weight":70,"completed":false}]}`
	require.NoError(t, json.Unmarshal([]byte(data), &r))

	assert.Equal(t, []SetRuntime{
		{Reps: 8, Weight: 60, Completed: true},
		{Reps: 6, Weight: 70},
	}, r.Sets)
	assert.Equal(t, 900.0, r.Volume())
	assert.False(t, r.Completed())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, data, string(out))
}

func TestExerciseRecordEmptyArray(t *testing.T) {
	var r ExerciseRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Rest","sets":[]}`), &r))
	assert.NotNil(t, r.Sets)
	assert.Empty(t, r.Sets)
	assert.False(t, r.Completed())
}

func TestExerciseRecordBadSets(t *testing.T) {
	var r ExerciseRecord
	assert.Error(t, json.Unmarshal([]byte(`{"name":"X","sets":[{"reps":"many"}]}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"name":"X","sets":"three"}`), &r))
}

// TestHistoryEntryMixedRecords decodes an entry that mixes both record shapes.
func TestHistoryEntryMixedRecords(t *testing.T) {
	data := `{"workoutName":"Push","timestamp":1700000000000,"exercises":[
		{"name":"Bench","sets":[{"reps":5,"weight":100,"completed":true}]},
		{"name":"Dips","sets":2,"reps":10,"weight":0,"completed":false}
	]}`
	var e HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(data), &e))

	assert.Equal(t, "Push", e.WorkoutName)
	require.Len(t, e.Exercises, 2)
	assert.Len(t, e.Exercises[0].Sets, 1)
	assert.Len(t, e.Exercises[1].Sets, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), e.Time(time.UTC))
}

func TestRecordFromRuntimeCopies(t *testing.T) {
	live := ExerciseRuntime{Name: "Row", Sets: []SetRuntime{{Reps: 10, Weight: 50}}}
	rec := RecordFromRuntime(live)
	live.Sets[0].Reps = 99
	assert.Equal(t, 10, rec.Sets[0].Reps)
}

func TestTemplateStoreTemplate(t *testing.T) {
	store := TemplateStore{"Legs": {{Name: "Squat", Sets: 3, Reps: 10, Weight: 20}}}

	legs := store.Template("Legs")
	assert.Equal(t, "Legs", legs.Name)
	assert.Equal(t, 600.0, legs.Exercises[0].Volume())

	missing := store.Template("Arms")
	assert.NotNil(t, missing.Exercises)
	assert.Empty(t, missing.Exercises)
}

func TestExerciseValidate(t *testing.T) {
	assert.NoError(t, ExerciseSpec{Name: "Squat", Sets: 3, Reps: 8, Weight: 40}.Validate())
	assert.NoError(t, ExerciseSpec{Name: "Plank"}.Validate())

	for _, spec := range []ExerciseSpec{
		{Name: "Bench", Sets: -3, Reps: 8, Weight: 40},
		{Name: "Bench", Sets: 3, Reps: -8, Weight: 40},
		{Name: "Bench", Sets: 3, Reps: 8, Weight: -40},
		{Name: "Bench", Sets: MaxSets + 1},
		{Name: "Bench", Sets: 1, Weight: math.Inf(1)},
		{Name: "Bench", Sets: 1, Weight: math.NaN()},
	} {
		assert.ErrorIs(t, spec.Validate(), ErrInvalidExercise, "%+v", spec)
	}

	assert.ErrorIs(t, ExerciseRuntime{Name: "Row", Sets: []SetRuntime{{Reps: 5}, {Reps: -1}}}.Validate(), ErrInvalidExercise)
	assert.ErrorIs(t, ExerciseRuntime{Name: "Row", Sets: make([]SetRuntime, MaxSets+1)}.Validate(), ErrInvalidExercise)
	assert.NoError(t, ExerciseRuntime{Name: "Row", Sets: []SetRuntime{{Reps: 5, Weight: 50, Completed: true}}}.Validate())
}
