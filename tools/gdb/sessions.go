package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerSessionTools(s *server.MCPServer) {
	registerStartTool(s, r)
	registerListSessionsTool(s, r)
	registerTerminateTool(s, r)
	registerServerInfoTool(s, r)
}

// registerStartTool registers the gdb_start tool
func registerStartTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_start",
		mcp.WithDescription("Start a new GDB session and return its session ID"),
		mcp.WithString("gdbPath",
			mcp.Description("Path to the gdb executable (default: gdb from PATH)"),
		),
		mcp.WithString("workingDir",
			mcp.Description("Working directory for the gdb process"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gdbPath := stringArg(request, "gdbPath", "")
		workingDir := stringArg(request, "workingDir", "")

		result, err := r.manager.StartSession(gdbPath, workingDir)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId":  result.SessionID,
			"gdbPath":    result.GdbPath,
			"workingDir": result.WorkingDir,
			"message":    "GDB session started",
			"output":     result.Output,
		}), nil
	})
}

// registerListSessionsTool registers the gdb_list_sessions tool
func registerListSessionsTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_list_sessions",
		mcp.WithDescription("List active GDB sessions"),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessions := r.manager.ListSessions()
		items := make([]interface{}, 0, len(sessions))
		for _, info := range sessions {
			items = append(items, map[string]interface{}{
				"sessionId":  info.ID,
				"gdbPath":    info.GdbPath,
				"workingDir": info.WorkingDir,
				"target":     info.Target,
				"startedAt":  info.StartedAt,
			})
		}
		return r.ok(map[string]interface{}{
			"sessions": items,
			"count":    len(items),
		}), nil
	})
}

// registerTerminateTool registers the gdb_terminate tool
func registerTerminateTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_terminate",
		mcp.WithDescription("Terminate a GDB session"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the session to terminate"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		if err := r.manager.TerminateSession(sessionID); err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"message":   "GDB session terminated",
		}), nil
	})
}

// registerServerInfoTool registers the gdb_server_info tool
func registerServerInfoTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_server_info",
		mcp.WithDescription("Report the server mode, active tool set and command policy"),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return r.ok(map[string]interface{}{
			"mode":           r.settings.Mode,
			"advanced":       r.settings.IsAdvanced(),
			"advancedTools":  r.settings.AdvancedToolNames(),
			"policyMode":     r.settings.CommandPolicy.Mode,
			"maxOutputChars": r.settings.MaxOutputChars,
			"configPath":     r.settings.ConfigPath,
			"activeSessions": len(r.manager.ListSessions()),
		}), nil
	})
}
