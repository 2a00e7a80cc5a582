package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerExecutionTools(s *server.MCPServer) {
	registerContinueTool(s, r)
	registerStepTool(s, r)
	registerNextTool(s, r)
	registerFinishTool(s, r)
}

// registerContinueTool registers the gdb_continue tool
func registerContinueTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_continue",
		mcp.WithDescription("Resume execution of the debugged program"),
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
		output, err := r.manager.ContinueExecution(sessionID)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerStepTool registers the gdb_step tool
func registerStepTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_step",
		mcp.WithDescription("Step into the next source line, or instruction with instructions=true"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithBoolean("instructions",
			mcp.Description("Step by machine instruction instead of source line"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		instructions := boolArg(request, "instructions", false)
		output, err := r.manager.Step(sessionID, instructions)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerNextTool registers the gdb_next tool
func registerNextTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_next",
		mcp.WithDescription("Step over the next source line, or instruction with instructions=true"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithBoolean("instructions",
			mcp.Description("Step by machine instruction instead of source line"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		instructions := boolArg(request, "instructions", false)
		output, err := r.manager.Next(sessionID, instructions)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}

// registerFinishTool registers the gdb_finish tool
func registerFinishTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_finish",
		mcp.WithDescription("Run until the current function returns"),
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
		output, err := r.manager.Finish(sessionID)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"output":    output,
		}), nil
	})
}
