// Package mcp exposes the signed-in account's dashboard, templates and
// history as Model Context Protocol tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("WorkoutBuddy", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("WorkoutBuddy training log. Read the signed-in user's dashboard stats, workout templates, exercise library, workout history and training tips. Results note whether they came from the server or from data kept on this device."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDashboard, Handler: h.getDashboard},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetProfileTips, Handler: h.getProfileTips},
	)

	s.AddResources(
		server.ServerResource{Resource: resDashboard, Handler: h.dashboardResource},
		server.ServerResource{Resource: resTemplates, Handler: h.templatesResource},
	)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resDashboard = mcp.NewResource(
	"workoutbuddy://dashboard",
	"Dashboard",
	mcp.WithResourceDescription("Total workouts, workouts in the last 7 days and the current day streak"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"workoutbuddy://templates",
	"Workout Templates",
	mcp.WithResourceDescription("Available workout templates with their prescribed exercises"),
	mcp.WithMIMEType("application/json"),
)
