package server

import (
	"errors"
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/templates"
)

type workoutRequest struct {
	Name string `json:"name"`
}

// handleListWorkouts renders a corrupt store as an empty list; mutations
// still surface the corruption.
func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	names, err := s.templates.ListNames(r.Context())
	if errors.Is(err, templates.ErrCorruptData) {
		s.log.Error("template store unreadable", "error", err)
		names = []string{}
	} else if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.templates.Create(r.Context(), req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.Delete(r.Context(), nameParam(r)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.templates.Rename(r.Context(), nameParam(r), req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleGetExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.templates.GetExercises(r.Context(), nameParam(r))
	if errors.Is(err, templates.ErrCorruptData) {
		s.log.Error("template store unreadable", "error", err)
		exercises = []models.ExerciseSpec{}
	} else if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleSetExercises(w http.ResponseWriter, r *http.Request) {
	var exercises []models.ExerciseSpec
	if !decodeBody(w, r, &exercises) {
		return
	}
	if exercises == nil {
		exercises = []models.ExerciseSpec{}
	}
	if err := s.templates.SetExercises(r.Context(), nameParam(r), exercises); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}
