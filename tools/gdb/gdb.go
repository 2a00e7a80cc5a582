// Package gdb registers the MCP tool surface over the session manager.
// Every handler converts recoverable faults into a uniform
// {ok, error, errorType} payload instead of failing the call.
package gdb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xhd2015/gdb-mcp/config"
	"github.com/xhd2015/gdb-mcp/gdb"
)

// ToolOptions configures tool registration.
type ToolOptions struct {
	Manager  *gdb.Manager
	Settings *config.Settings
}

// RegisterTools registers the gdb tools with the MCP server.
func RegisterTools(s *server.MCPServer, opts ToolOptions) error {
	if opts.Manager == nil {
		return fmt.Errorf("manager is required")
	}
	if opts.Settings == nil {
		return fmt.Errorf("settings are required")
	}
	r := &registry{manager: opts.Manager, settings: opts.Settings}

	r.registerSessionTools(s)
	r.registerProgramTools(s)
	r.registerBreakpointTools(s)
	r.registerExecutionTools(s)
	r.registerInspectionTools(s)
	r.registerReportTools(s)
	return nil
}

type registry struct {
	manager  *gdb.Manager
	settings *config.Settings
}

// ok renders a success payload. The payload is round-tripped through JSON
// so truncation sees plain strings, maps and arrays.
func (r *registry) ok(payload map[string]interface{}) *mcp.CallToolResult {
	payload["ok"] = true
	return r.render(payload)
}

// fail renders the uniform failure payload for a recoverable fault.
func (r *registry) fail(err error) *mcp.CallToolResult {
	return r.render(map[string]interface{}{
		"ok":        false,
		"error":     err.Error(),
		"errorType": errorType(err),
	})
}

func (r *registry) validationError(err error) *mcp.CallToolResult {
	return r.fail(&gdb.Error{Kind: gdb.KindValidation, Message: err.Error()})
}

func (r *registry) render(payload map[string]interface{}) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode payload: %v", err))
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode payload: %v", err))
	}
	generic = truncatePayload(generic, r.settings.MaxOutputChars)
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode payload: %v", err))
	}
	return mcp.NewToolResultText(string(out))
}

// gate enforces the advanced-mode tool set.
func (r *registry) gate(toolName string) error {
	return r.settings.RequireTool(toolName)
}

// errorType maps the closed error-kind enumeration to the wire label.
func errorType(err error) string {
	var gerr *gdb.Error
	if !errors.As(err, &gerr) {
		return "internal"
	}
	switch gerr.Kind {
	case gdb.KindNotFound:
		return string(gdb.KindNotFound)
	case gdb.KindValidation:
		return string(gdb.KindValidation)
	case gdb.KindTimeout:
		return string(gdb.KindTimeout)
	case gdb.KindSession:
		return string(gdb.KindSession)
	case gdb.KindPermission:
		return string(gdb.KindPermission)
	}
	return "internal"
}

// Argument extraction helpers. MCP arguments arrive as decoded JSON, so
// numbers are float64 and arrays are []interface{}.

func requireStringArg(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func stringArg(request mcp.CallToolRequest, key string, def string) string {
	if value, ok := request.GetArguments()[key].(string); ok && value != "" {
		return value
	}
	return def
}

func boolArg(request mcp.CallToolRequest, key string, def bool) bool {
	if value, ok := request.GetArguments()[key].(bool); ok {
		return value
	}
	return def
}

func intArg(request mcp.CallToolRequest, key string, def int) (int, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

func stringSliceArg(request mcp.CallToolRequest, key string) ([]string, bool, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%s must be a list of strings", key)
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false, fmt.Errorf("%s must be a list of strings", key)
		}
		values = append(values, s)
	}
	return values, true, nil
}

func intSliceArg(request mcp.CallToolRequest, key string) ([]int, bool, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%s must be a list of integers", key)
	}
	values := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := item.(float64)
		if !ok || n != float64(int(n)) {
			return nil, false, fmt.Errorf("%s must be a list of integers", key)
		}
		values = append(values, int(n))
	}
	return values, true, nil
}
