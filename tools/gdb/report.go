package gdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *registry) registerReportTools(s *server.MCPServer) {
	registerCollectCrashReportTool(s, r)
}

// registerCollectCrashReportTool registers the gdb_collect_crash_report tool
func registerCollectCrashReportTool(s *server.MCPServer, r *registry) {
	tool := mcp.NewTool("gdb_collect_crash_report",
		mcp.WithDescription("Collect a multi-section crash report: program info, frames, threads, backtrace, registers, disassembly and stack memory"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("ID of the GDB session"),
		),
		mcp.WithNumber("backtraceLimit",
			mcp.Description("Maximum backtrace frames to collect (default 20)"),
		),
		mcp.WithNumber("disasmCount",
			mcp.Description("Instructions to disassemble at the program counter (default 8)"),
		),
		mcp.WithNumber("stackWords",
			mcp.Description("Giant words of stack memory to dump (default 16)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := r.gate("gdb_collect_crash_report"); err != nil {
			return r.fail(err), nil
		}
		sessionID, err := requireStringArg(request, "sessionId")
		if err != nil {
			return r.validationError(err), nil
		}
		backtraceLimit, err := intArg(request, "backtraceLimit", 0)
		if err != nil {
			return r.validationError(err), nil
		}
		disasmCount, err := intArg(request, "disasmCount", 0)
		if err != nil {
			return r.validationError(err), nil
		}
		stackWords, err := intArg(request, "stackWords", 0)
		if err != nil {
			return r.validationError(err), nil
		}

		report, err := r.manager.CollectCrashReport(sessionID, backtraceLimit, disasmCount, stackWords)
		if err != nil {
			return r.fail(err), nil
		}
		return r.ok(crashReportPayload(sessionID, report)), nil
	})
}
