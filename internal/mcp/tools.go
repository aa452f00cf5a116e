package mcp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the 7 days before now.
func defaultTimeRange(now time.Time, startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = now
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the names of all workout templates, sorted."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a workout template's exercises with planned sets, reps, weight and volume (sets x reps x weight)."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Workout name, exactly as listed by list_workouts")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Finished sessions in a date range, newest first. Each exercise lists its sets with reps, weight and completion."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days before end.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("workout", mcp.Description("Filter by workout name (case-insensitive partial match)")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 50.")),
)

var toolGetStatistics = mcp.NewTool("get_statistics",
	mcp.WithDescription("Training statistics over the full history: totals, current streak, best weekday, last-7-days volume, trend, top 5 exercises and per-exercise best volume."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.templates.ListNames(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		if !errors.Is(err, templates.ErrCorruptData) {
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		names = []string{}
	}
	return jsonResult(names)
}

type exerciseView struct {
	models.ExerciseSpec
	Volume float64 `json:"volume"`
}

type workoutView struct {
	Name        string         `json:"name"`
	Exercises   []exerciseView `json:"exercises"`
	TotalVolume float64        `json:"total_volume"`
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	specs, err := h.templates.GetExercises(ctx, name)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		if !errors.Is(err, templates.ErrCorruptData) {
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		specs = nil
	}

	view := workoutView{Name: name, Exercises: make([]exerciseView, 0, len(specs))}
	for _, spec := range specs {
		v := spec.Volume()
		view.Exercises = append(view.Exercises, exerciseView{ExerciseSpec: spec, Volume: v})
		view.TotalVolume += v
	}
	return jsonResult(view)
}

type sessionView struct {
	WorkoutName string                  `json:"workout_name"`
	Date        time.Time               `json:"date"`
	Volume      float64                 `json:"volume"`
	Exercises   []models.ExerciseRecord `json:"exercises"`
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock.Now()
	start, end, err := defaultTimeRange(now, req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	filter := strings.ToLower(req.GetString("workout", ""))
	limit := req.GetInt("limit", 50)

	views := sessionsBetween(h.history.Load(ctx), start, end, now.Location())
	out := views[:0]
	for _, v := range views {
		if filter == "" || strings.Contains(strings.ToLower(v.WorkoutName), filter) {
			out = append(out, v)
		}
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return jsonResult(out)
}

func (h *handlers) getStatistics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(stats.Summarize(h.history.Load(ctx), h.clock.Now()))
}

// sessionsBetween returns entries with start <= time <= end, newest first.
func sessionsBetween(entries []models.HistoryEntry, start, end time.Time, loc *time.Location) []sessionView {
	views := []sessionView{}
	for _, e := range entries {
		t := e.Time(loc)
		if t.Before(start) || t.After(end) {
			continue
		}
		views = append(views, sessionView{
			WorkoutName: e.WorkoutName,
			Date:        t,
			Volume:      stats.Volume(e.Exercises),
			Exercises:   e.Exercises,
		})
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
	return views
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
