package models

import (
	"errors"
	"fmt"
	"math"
)

// MaxSets bounds the number of sets one exercise may hold.
const MaxSets = 10_000

// ErrInvalidExercise is returned for negative, non-finite or oversized exercise values.
var ErrInvalidExercise = errors.New("invalid exercise")

// ExerciseSpec is one planned exercise inside a workout template.
type ExerciseSpec struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Volume returns sets × reps × weight.
func (e ExerciseSpec) Volume() float64 {
	return float64(e.Sets) * float64(e.Reps) * e.Weight
}

// Validate checks that sets, reps and weight are non-negative and sets is at most MaxSets.
func (e ExerciseSpec) Validate() error {
	if e.Sets < 0 || e.Sets > MaxSets {
		return fmt.Errorf("%w: %q has %d sets", ErrInvalidExercise, e.Name, e.Sets)
	}
	if e.Reps < 0 {
		return fmt.Errorf("%w: %q has %d reps", ErrInvalidExercise, e.Name, e.Reps)
	}
	if !validWeight(e.Weight) {
		return fmt.Errorf("%w: %q has weight %v", ErrInvalidExercise, e.Name, e.Weight)
	}
	return nil
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// TemplateStore maps workout names to their ordered exercise lists.
type TemplateStore map[string][]ExerciseSpec

// WorkoutTemplate is a named exercise plan.
type WorkoutTemplate struct {
	Name      string         `json:"name"`
	Exercises []ExerciseSpec `json:"exercises"`
}

// Template returns the named template, or an empty one if the name is absent.
func (s TemplateStore) Template(name string) WorkoutTemplate {
	exercises := s[name]
	if exercises == nil {
		exercises = []ExerciseSpec{}
	}
	return WorkoutTemplate{Name: name, Exercises: exercises}
}

// SetRuntime is the tracked state of a single set.
type SetRuntime struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// Validate checks that reps and weight are non-negative.
func (s SetRuntime) Validate() error {
	if s.Reps < 0 || !validWeight(s.Weight) {
		return fmt.Errorf("%w: set with %d reps and weight %v", ErrInvalidExercise, s.Reps, s.Weight)
	}
	return nil
}

// ExerciseRuntime is an exercise inside a live session.
type ExerciseRuntime struct {
	Name string       `json:"name"`
	Sets []SetRuntime `json:"sets"`
}

// Validate checks the set count and every set.
func (e ExerciseRuntime) Validate() error {
	if len(e.Sets) > MaxSets {
		return fmt.Errorf("%w: %q has %d sets", ErrInvalidExercise, e.Name, len(e.Sets))
	}
	for i, s := range e.Sets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%q set %d: %w", e.Name, i, err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (e ExerciseRuntime) Clone() ExerciseRuntime {
	sets := make([]SetRuntime, len(e.Sets))
	copy(sets, e.Sets)
	return ExerciseRuntime{Name: e.Name, Sets: sets}
}
