package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerProgramTools(s *server.MCPServer) {
	registerLoadTool(s, r)
	registerAttachTool(s, r)
	registerLoadCoreTool(s, r)
	registerCommandTool(s, r)
}

// registerLoadTool registers the gdb_load tool
func registerLoadTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_load",
		mcp.WithDescription("Load an executable into a GDB session, optionally setting program arguments"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("program",
			mcp.Required(),
			mcp.Description("Path to the executable, absolute or relative to the session working directory"),
		),
		mcp.WithArray("arguments",
			mcp.Description("Program arguments to pass via 'set args'"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		program, err := requireStringArg(request, "program")
		if err != nil {
			return r.validationError(err), nil
		}
		arguments, _, err := stringSliceArg(request, "arguments")
		if err != nil {
			return r.validationError(err), nil
		}

		result, err := r.manager.LoadProgram(sessionID, program, arguments)
		if err != nil {
			return r.fail(err), nil
		}
		payload := map[string]interface{}{
			"sessionId": sessionID,
			"target":    result.Target,
			"output":    result.LoadOutput,
		}
		if result.ArgsOutput != "" {
			payload["argsOutput"] = result.ArgsOutput
		}
		return r.ok(payload), nil
	})
}

// registerAttachTool registers the gdb_attach tool
func registerAttachTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_attach",
		mcp.WithDescription("Attach a GDB session to a running process"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("pid",
			mcp.Required(),
			mcp.Description("Process ID to attach to"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_attach"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		pid, err := intArg(request, "pid", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		output, err := r.manager.Attach(sessionID, pid)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId": sessionID,
			"pid":       pid,
			"output":    output,
		}), nil
	})
}

// registerLoadCoreTool registers the gdb_load_core tool
func registerLoadCoreTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_load_core",
		mcp.WithDescription("Load an executable and core dump, returning an initial backtrace"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("program",
			mcp.Required(),
			mcp.Description("Path to the executable the core dump belongs to"),
		),
		mcp.WithString("corePath",
			mcp.Required(),
			mcp.Description("Path to the core dump file (must not contain whitespace)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_load_core"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		program, err := requireStringArg(request, "program")
		if err != nil {
			return r.validationError(err), nil
		}
		corePath, err := requireStringArg(request, "corePath")
		if err != nil {
			return r.validationError(err), nil
		}

		result, err := r.manager.LoadCore(sessionID, program, corePath)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(map[string]interface{}{
			"sessionId":     sessionID,
			"programOutput": result.ProgramOutput,
			"coreOutput":    result.CoreOutput,
			"backtrace":     backtracePayload(result.BacktraceOutput),
		}), nil
	})
}

// registerCommandTool registers the gdb_command tool
func registerCommandTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_command",
		mcp.WithDescription("Execute a GDB console command and return its output, parsed as GDB/MI records when present"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("GDB command to execute"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		command, err := requireStringArg(request, "command")
		if err != nil {
			return r.validationError(err), nil
		}
		if err := r.settings.ValidateCommand(command); err != nil {
			return r.fail(err), nil
		}

		output, err := r.manager.Command(sessionID, command)
		if err != nil {
			return r.fail(err), nil
		}
		payload := commandPayload(command, output)
		payload["sessionId"] = sessionID
		return r.ok(payload), nil
	})
}
