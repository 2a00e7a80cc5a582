package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerBreakpointTools(s *server.MCPServer) {
	registerSetBreakpointTool(s, r)
	registerListBreakpointsTool(s, r)
	registerDeleteBreakpointsTool(s, r)
	registerToggleBreakpointsTool(s, r)
	registerSetWatchpointTool(s, r)
}

// registerSetBreakpointTool registers the gdb_set_breakpoint tool
func registerSetBreakpointTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_set_breakpoint",
		mcp.WithDescription("Set a breakpoint at a location, optionally with a condition"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Breakpoint location: function name, file:line or *address"),
		),
		mcp.WithString("condition",
			mcp.Description("Condition expression applied to the new breakpoint"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		location, err := requireStringArg(request, "location")
		if err != nil {
			return r.validationError(err), nil
		}
		condition := stringArg(request, "condition", "")

		result, err := r.manager.SetBreakpoint(sessionID, location, condition)
		if err != nil {
			return r.fail(err), nil
		}
		payload := map[string]interface{}{
			"sessionId": sessionID,
			"location":  location,
			"output":    result.BreakpointOutput,
		}
		if result.ConditionOutput != "" {
			payload["conditionOutput"] = result.ConditionOutput
		}
		return r.ok(payload), nil
	})
}

// registerListBreakpointsTool registers the gdb_list_breakpoints tool
func registerListBreakpointsTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_list_breakpoints",
		mcp.WithDescription("List breakpoints and watchpoints in a session"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		output, err := r.manager.ListBreakpoints(sessionID)
		if err != nil {
			return r.fail(err), nil
		}
		payload := breakpointListPayload(output)
		payload["sessionId"] = sessionID
		return r.ok(payload), nil
	})
}

// registerDeleteBreakpointsTool registers the gdb_delete_breakpoints tool
func registerDeleteBreakpointsTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_delete_breakpoints",
		mcp.WithDescription("Delete the listed breakpoints, or all breakpoints when none are given"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithArray("breakpointIds",
			mcp.Description("Breakpoint numbers to delete; omit to delete all"),
			mcp.Items(map[string]interface{}{"type": "number"}),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		ids, present, err := intSliceArg(request, "breakpointIds")
		if err != nil {
			return r.validationError(err), nil
		}
		if !present {
			ids = nil
		}

		output, err := r.manager.DeleteBreakpoints(sessionID, ids)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerToggleBreakpointsTool registers the gdb_toggle_breakpoints tool
func registerToggleBreakpointsTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_toggle_breakpoints",
		mcp.WithDescription("Enable or disable the listed breakpoints"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithArray("breakpointIds",
			mcp.Required(),
			mcp.Description("Breakpoint numbers to toggle"),
			mcp.Items(map[string]interface{}{"type": "number"}),
		),
		mcp.WithBoolean("enabled",
			mcp.Required(),
			mcp.Description("true to enable, false to disable"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		ids, _, err := intSliceArg(request, "breakpointIds")
		if err != nil {
			return r.validationError(err), nil
		}
		enabled := boolArg(request, "enabled", false)

		output, err := r.manager.ToggleBreakpoints(sessionID, ids, enabled)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"enabled":   enabled,
			"output":    output,
		}), nil
	})
}

// registerSetWatchpointTool registers the gdb_set_watchpoint tool
func registerSetWatchpointTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_set_watchpoint",
		mcp.WithDescription("Set a watchpoint on an expression"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression or variable to watch"),
		),
		mcp.WithString("mode",
			mcp.Description("Watch mode: 'write' (default), 'read' or 'access'"),
			mcp.Enum("write", "read", "access"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_set_watchpoint"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		expression, err := requireStringArg(request, "expression")
		if err != nil {
			return r.validationError(err), nil
		}
		mode := stringArg(request, "mode", "write")

		output, err := r.manager.SetWatchpoint(sessionID, expression, mode)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId":  sessionID,
			"expression": expression,
			"mode":       mode,
			"output":     output,
		}), nil
	})
}
