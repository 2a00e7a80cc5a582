package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerInspectionTools(s *server.MCPServer) {
	registerBacktraceTool(s, r)
	registerPrintTool(s, r)
	registerExamineTool(s, r)
	registerInfoRegistersTool(s, r)
	registerInfoThreadsTool(s, r)
	registerThreadSelectTool(s, r)
	registerFrameSelectTool(s, r)
	registerFrameUpTool(s, r)
	registerFrameDownTool(s, r)
	registerListSourceTool(s, r)
}

// registerBacktraceTool registers the gdb_backtrace tool
func registerBacktraceTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_backtrace",
		mcp.WithDescription("Show the call stack, parsed into frames when possible"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithBoolean("full",
			mcp.Description("Include local variables for every frame"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of frames to show"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		full := boolArg(request, "full", false)
		limit, err := intArg(request, "limit", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.Backtrace(sessionID, full, limit)
		if err != nil {
			return r.fail(err), nil
		}
		payload := backtracePayload(output)
		payload["sessionId"] = sessionID
		return r.ok(payload), nil
	})
}

// registerPrintTool registers the gdb_print tool
func registerPrintTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_print",
		mcp.WithDescription("Evaluate and print an expression"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression to evaluate"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		expression, err := requireStringArg(request, "expression")
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.PrintExpression(sessionID, expression)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId":  sessionID,
			"expression": expression,
			"output":     output,
		}), nil
	})
}

// registerExamineTool registers the gdb_examine tool
func registerExamineTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_examine",
		mcp.WithDescription("Examine memory at an address or expression"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Address or expression to examine"),
		),
		mcp.WithString("format",
			mcp.Description("Display format: x, d, u, o, t, a, c, f, i, s or z (default x)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of units to display (default 1)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		expression, err := requireStringArg(request, "expression")
		if err != nil {
			return r.validationError(err), nil
		}
		format := stringArg(request, "format", "")
		count, err := intArg(request, "count", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.Examine(sessionID, expression, format, count)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId":  sessionID,
			"expression": expression,
			"output":     output,
		}), nil
	})
}

// registerInfoRegistersTool registers the gdb_info_registers tool
func registerInfoRegistersTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_info_registers",
		mcp.WithDescription("Show CPU registers, parsed into a name/value map when possible"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("register",
			mcp.Description("Single register to show; omit for all"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		register := stringArg(request, "register", "")

		output, err := r.manager.InfoRegisters(sessionID, register)
		if err != nil {
			return r.fail(err), nil
		}
		payload := registersPayload(output)
		payload["sessionId"] = sessionID
		return r.ok(payload), nil
	})
}

// registerInfoThreadsTool registers the gdb_info_threads tool
func registerInfoThreadsTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_info_threads",
		mcp.WithDescription("List the debugged program's threads"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_info_threads"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		output, err := r.manager.InfoThreads(sessionID)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerThreadSelectTool registers the gdb_thread_select tool
func registerThreadSelectTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_thread_select",
		mcp.WithDescription("Switch the session to another thread"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("threadId",
			mcp.Required(),
			mcp.Description("Thread number to select"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_thread_select"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		threadID, err := intArg(request, "threadId", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.SelectThread(sessionID, threadID)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"threadId":  threadID,
			"output":    output,
		}), nil
	})
}

// registerFrameSelectTool registers the gdb_frame_select tool
func registerFrameSelectTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_frame_select",
		mcp.WithDescription("Switch the session to a specific stack frame"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("frameId",
			mcp.Required(),
			mcp.Description("Frame number to select (0 is innermost)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_frame_select"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		frameID, err := intArg(request, "frameId", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.SelectFrame(sessionID, frameID)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"frameId":   frameID,
			"output":    output,
		}), nil
	})
}

// registerFrameUpTool registers the gdb_frame_up tool
func registerFrameUpTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_frame_up",
		mcp.WithDescription("Move towards the outermost stack frame"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of frames to move (default 1)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_frame_up"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		count, err := intArg(request, "count", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.FrameUp(sessionID, count)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerFrameDownTool registers the gdb_frame_down tool
func registerFrameDownTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_frame_down",
		mcp.WithDescription("Move towards the innermost stack frame"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of frames to move (default 1)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_frame_down"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		count, err := intArg(request, "count", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.FrameDown(sessionID, count)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerListSourceTool registers the gdb_list_source tool
func registerListSourceTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_list_source",
		mcp.WithDescription("List source code around the current frame or a given location"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("location",
			mcp.Description("Location to list around: function name or file:line; omit for the current frame"),
		),
		mcp.WithNumber("lineCount",
			mcp.Description("Number of lines to list (default 10)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		location := stringArg(request, "location", "")
		lineCount, err := intArg(request, "lineCount", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		result, err := r.manager.ListSource(sessionID, location, lineCount)
		if err != nil {
			return r.fail(err), nil
		}
		payload := map[string]interface{}{
			"sessionId": sessionID,
			"output":    result.Output,
		}
		if result.Location != nil {
			payload["sourceLocation"] = result.Location
		}
		return r.ok(payload), nil
	})
}
