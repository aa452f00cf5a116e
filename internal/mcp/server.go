// Package mcp exposes workouts, history and statistics as MCP tools and resources.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(tpl Templates, hist History, clock Clock, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training log. List workout templates, read finished sessions and training statistics. Weights are in the unit the user logged them in."),
	)

	h := &handlers{templates: tpl, history: hist, clock: clock, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetStatistics, Handler: h.getStatistics},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resStatistics, Handler: h.statistics},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	templates Templates
	history   History
	clock     Clock
	log       *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Finished sessions from the last 14 days, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resStatistics = mcp.NewResource(
	"liftlog://statistics",
	"Statistics",
	mcp.WithResourceDescription("Totals, streak, best weekday, weekly volume, most frequent exercises and personal records"),
	mcp.WithMIMEType("application/json"),
)
