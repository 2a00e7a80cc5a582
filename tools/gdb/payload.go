package gdb

import (
	"github.com/xhd2015/gdb-mcp/gdb"
)

// commandPayload shapes the gdb_command response. When the output carries
// GDB/MI records the raw text is dropped in favor of the structured form;
// the record and stream arrays are always present.
func commandPayload(command string, output string) map[string]interface{} {
	records := gdb.ParseMIRecords(output)
	streams := gdb.ParseMIStreams(output)
	payload := map[string]interface{}{
		"command":   command,
		"miRecords": miRecordList(records),
		"miStreams": miRecordList(streams),
	}
	if len(records) == 0 && len(streams) == 0 {
		payload["output"] = output
	}
	return payload
}

func miRecordList(records []gdb.MIRecord) []interface{} {
	items := make([]interface{}, 0, len(records))
	for _, record := range records {
		item := map[string]interface{}{
			"type": string(record.Type),
		}
		if record.Message != "" {
			item["message"] = record.Message
		}
		if record.Payload != nil {
			item["payload"] = record.Payload
		}
		items = append(items, item)
	}
	return items
}

// backtracePayload shapes backtrace output. Parsed frames are preferred
// over the raw listing when at least one line parses.
func backtracePayload(output string) map[string]interface{} {
	frames := gdb.ParseBacktraceFrames(output)
	if len(frames) == 0 {
		return map[string]interface{}{"output": output}
	}
	items := make([]interface{}, 0, len(frames))
	for _, frame := range frames {
		items = append(items, frame)
	}
	return map[string]interface{}{"frames": items, "frameCount": len(items)}
}

// crashReportPayload compacts a raw crash report. The backtrace and
// register sections are hoisted to top-level frames/registers when they
// parse, leaving the report map for the sections that stay raw, including
// pc_disassembly and per-command error markers.
func crashReportPayload(sessionID string, report map[string]string) map[string]interface{} {
	shaped := make(map[string]interface{}, len(report))
	for key, value := range report {
		shaped[key] = value
	}
	payload := map[string]interface{}{
		"sessionId": sessionID,
	}
	if raw, ok := report["backtrace"]; ok {
		if frames := gdb.ParseBacktraceFrames(raw); len(frames) > 0 {
			items := make([]interface{}, 0, len(frames))
			for _, frame := range frames {
				items = append(items, frame)
			}
			payload["frames"] = items
			delete(shaped, "backtrace")
		}
	}
	if raw, ok := report["registers"]; ok {
		if registers := gdb.ParseRegisters(raw); len(registers) > 0 {
			payload["registers"] = registers
			delete(shaped, "registers")
		}
	}
	payload["report"] = shaped
	return payload
}

// registersPayload shapes `info registers` output, preferring the parsed
// name/value map when it yields any entries.
func registersPayload(output string) map[string]interface{} {
	registers := gdb.ParseRegisters(output)
	if len(registers) == 0 {
		return map[string]interface{}{"output": output}
	}
	return map[string]interface{}{"registers": registers}
}

// breakpointListPayload shapes `info breakpoints` output. The raw table
// is kept alongside the parsed entries so conditions and hit counts that
// the parser does not model remain available.
func breakpointListPayload(output string) map[string]interface{} {
	breakpoints := gdb.ParseBreakpoints(output)
	items := make([]interface{}, 0, len(breakpoints))
	for _, bp := range breakpoints {
		items = append(items, bp)
	}
	return map[string]interface{}{
		"output":      output,
		"breakpoints": items,
		"count":       len(items),
	}
}
