package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/templates"
	"github.com/go-chi/chi/v5"
)

// historyItem is a history entry with its storage index, the index
// DELETE /history/{index} expects.
type historyItem struct {
	Index int `json:"index"`
	models.HistoryEntry
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.history.Load(r.Context())

	limit := len(entries)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be a non-negative integer"))
			return
		}
		limit = min(n, len(entries))
	}

	items := make([]historyItem, 0, limit)
	for i := len(entries) - 1; i >= len(entries)-limit; i-- {
		items = append(items, historyItem{Index: i, HistoryEntry: entries[i]})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	s.history.DeleteAt(r.Context(), index)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := s.sessions.Clock().Now()
	writeJSON(w, http.StatusOK, stats.Summarize(s.history.Load(r.Context()), now))
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.theme.Current())
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.theme.Toggle())
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, templates.ErrInvalidName), errors.Is(err, models.ErrInvalidExercise):
		status = http.StatusBadRequest
	case errors.Is(err, templates.ErrDuplicateName), errors.Is(err, session.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, templates.ErrNotFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrIndexOutOfRange):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// intParam reads a non-negative integer path parameter, writing a 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid "+key))
		return 0, false
	}
	return n, true
}

// nameParam returns the workout name path parameter. chi routes on RawPath
// when the request has one, so only then is the parameter still escaped.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
