package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type startSessionRequest struct {
	Workout string `json:"workout"`
}

type sessionResponse struct {
	ID uuid.UUID `json:"id"`
	session.Snapshot
}

// setPatch edits one set. Absent fields keep their current value.
type setPatch struct {
	Reps      *int     `json:"reps"`
	Weight    *float64 `json:"weight"`
	Completed *bool    `json:"completed"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Workout == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("workout is required"))
		return
	}
	id, live, err := s.sessions.Open(r.Context(), req.Workout)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.snapshot(id, live))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, live, ok := s.liveSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(id, live))
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	entry, err := s.sessions.Finish(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Cancel(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddExercise takes a template-style spec and materializes its sets.
func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var spec models.ExerciseSpec
	if !decodeBody(w, r, &spec) {
		return
	}
	if spec.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := spec.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	ex := session.Materialize(models.WorkoutTemplate{Exercises: []models.ExerciseSpec{spec}})[0]
	s.mutate(w, r, func(live *session.Live) error {
		return live.AddExercise(r.Context(), ex)
	})
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	var ex models.ExerciseRuntime
	if !decodeBody(w, r, &ex) {
		return
	}
	if ex.Sets == nil {
		ex.Sets = []models.SetRuntime{}
	}
	s.mutate(w, r, func(live *session.Live) error {
		return live.UpdateExercise(r.Context(), index, ex)
	})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	s.mutate(w, r, func(live *session.Live) error {
		return live.RemoveExercise(r.Context(), index)
	})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	s.mutate(w, r, func(live *session.Live) error {
		return live.AddSet(r.Context(), index)
	})
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	s.mutate(w, r, func(live *session.Live) error {
		return live.RemoveSet(r.Context(), index, set)
	})
}

func (s *Server) handlePatchSet(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	var patch setPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	s.mutate(w, r, func(live *session.Live) error {
		current, err := setAt(live, index, set)
		if err != nil {
			return err
		}
		if patch.Reps != nil || patch.Weight != nil {
			reps, weight := current.Reps, current.Weight
			if patch.Reps != nil {
				reps = *patch.Reps
			}
			if patch.Weight != nil {
				weight = *patch.Weight
			}
			if err := live.EditSet(r.Context(), index, set, reps, weight); err != nil {
				return err
			}
		}
		if patch.Completed != nil && *patch.Completed != current.Completed {
			return live.ToggleSet(r.Context(), index, set)
		}
		return nil
	})
}

// mutate applies fn to the addressed session and responds with its snapshot.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Live) error) {
	id, live, ok := s.liveSession(w, r)
	if !ok {
		return
	}
	if err := fn(live); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(id, live))
}

func (s *Server) liveSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, *session.Live, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	live, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, nil, false
	}
	return id, live, true
}

func (s *Server) snapshot(id uuid.UUID, live *session.Live) sessionResponse {
	return sessionResponse{ID: id, Snapshot: live.Snapshot(s.sessions.Clock().Now())}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid session ID"))
		return uuid.Nil, false
	}
	return id, true
}

func setAt(live *session.Live, index, set int) (models.SetRuntime, error) {
	exercises := live.Exercises()
	if index < 0 || index >= len(exercises) {
		return models.SetRuntime{}, session.ErrIndexOutOfRange
	}
	sets := exercises[index].Sets
	if set < 0 || set >= len(sets) {
		return models.SetRuntime{}, session.ErrIndexOutOfRange
	}
	return sets[set], nil
}
