// Package templates stores workout templates as a single JSON document keyed
// by workout name.
package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

var (
	ErrCorruptData   = errors.New("template store is corrupt")
	ErrInvalidName   = errors.New("workout name is empty")
	ErrDuplicateName = errors.New("workout name already exists")
	ErrNotFound      = errors.New("workout not found")
)

// Repository reads and writes the template document. It keeps no cache: every
// call goes back to the KV store.
type Repository struct {
	kv  storage.KV
	log *slog.Logger
}

// NewRepository creates a Repository over kv.
func NewRepository(kv storage.KV, log *slog.Logger) *Repository {
	return &Repository{kv: kv, log: log}
}

// Load returns the whole store. A legacy array of names is migrated to the
// mapping shape and written back before returning.
func (r *Repository) Load(ctx context.Context) (models.TemplateStore, error) {
	raw, ok, err := r.kv.Get(ctx, storage.KeyTemplates)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	if !ok {
		return models.TemplateStore{}, nil
	}

	store, migrated, err := decodeStore([]byte(raw))
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := r.save(ctx, store); err != nil {
			return nil, fmt.Errorf("persisting migrated templates: %w", err)
		}
		r.log.Info("migrated legacy template list", "workouts", len(store))
	}
	return store, nil
}

// decodeStore parses either the mapping shape or the legacy array of names.
func decodeStore(data []byte) (models.TemplateStore, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("%w: empty document", ErrCorruptData)
	}

	switch trimmed[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
		store := make(models.TemplateStore, len(names))
		for _, n := range names {
			store[n] = []models.ExerciseSpec{}
		}
		return store, true, nil

	case '{':
		var store models.TemplateStore
		if err := json.Unmarshal(trimmed, &store); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
		for name, exercises := range store {
			if exercises == nil {
				store[name] = []models.ExerciseSpec{}
			}
		}
		return store, false, nil
	}

	return nil, false, fmt.Errorf("%w: unexpected JSON value", ErrCorruptData)
}

func (r *Repository) save(ctx context.Context, store models.TemplateStore) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}
	return r.kv.Set(ctx, storage.KeyTemplates, string(data))
}

// ListNames returns the workout names in ascending byte order.
func (r *Repository) ListNames(ctx context.Context) ([]string, error) {
	store, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(store))
	for name := range store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Create adds an empty workout under the trimmed name.
func (r *Repository) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	store, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := store[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	store[name] = []models.ExerciseSpec{}
	return r.save(ctx, store)
}

// Delete removes a workout. Deleting an absent name is not an error.
func (r *Repository) Delete(ctx context.Context, name string) error {
	store, err := r.Load(ctx)
	if err != nil {
		return err
	}
	delete(store, name)
	return r.save(ctx, store)
}

// Rename moves a workout's exercises to a new trimmed name.
func (r *Repository) Rename(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidName
	}

	store, err := r.Load(ctx)
	if err != nil {
		return err
	}
	exercises, ok := store[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if _, exists := store[newName]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	delete(store, oldName)
	store[newName] = exercises
	return r.save(ctx, store)
}

// GetExercises returns the exercise list for name, empty if the name is absent.
func (r *Repository) GetExercises(ctx context.Context, name string) ([]models.ExerciseSpec, error) {
	store, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return store.Template(name).Exercises, nil
}

// SetExercises replaces the exercise list for name, creating the workout if it
// does not exist, and persists the whole store. Any invalid spec rejects the
// whole list with models.ErrInvalidExercise.
func (r *Repository) SetExercises(ctx context.Context, name string, exercises []models.ExerciseSpec) error {
	for _, e := range exercises {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	store, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if exercises == nil {
		exercises = []models.ExerciseSpec{}
	}
	store[name] = exercises
	return r.save(ctx, store)
}
