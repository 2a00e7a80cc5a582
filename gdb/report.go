package gdb

import (
	"fmt"

	"github.com/xhd2015/gdb-mcp/logging"
)

type crashCommand struct {
	key     string
	command string
}

func crashReportCommands(backtraceLimit, disasmCount, stackWords int) []crashCommand {
	return []crashCommand{
		{"program_info", "info program"},
		{"current_frame", "frame"},
		{"thread_info", "info threads"},
		{"backtrace", fmt.Sprintf("backtrace %d", backtraceLimit)},
		{"registers", "info registers"},
		{"pc_disassembly", fmt.Sprintf("x/%di $pc", disasmCount)},
		{"stack_memory", fmt.Sprintf("x/%dgx $sp", stackWords)},
	}
}

// CollectCrashReport produces a diagnostic snapshot of the session without
// permanently disturbing the caller's frame selection. Each diagnostic
// command fails independently; a failing field carries an inline error
// marker and never aborts the remaining fields.
func (m *Manager) CollectCrashReport(sessionID string, backtraceLimit, disasmCount, stackWords int) (map[string]string, error) {
	if backtraceLimit == 0 {
		backtraceLimit = 20
	}
	if disasmCount == 0 {
		disasmCount = 8
	}
	if stackWords == 0 {
		stackWords = 16
	}
	if err := validatePositiveInt(backtraceLimit, "backtrace_limit"); err != nil {
		return nil, err
	}
	if err := validatePositiveInt(disasmCount, "disasm_count"); err != nil {
		return nil, err
	}
	if err := validatePositiveInt(stackWords, "stack_words"); err != nil {
		return nil, err
	}
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return collectCrashReport(sess, sessionID, backtraceLimit, disasmCount, stackWords), nil
}

func collectCrashReport(sess session, sessionID string, backtraceLimit, disasmCount, stackWords int) map[string]string {
	// Capture the caller's frame selection and switch to the innermost
	// frame, both best-effort. A failure here suppresses the restore step.
	originalFrame := 0
	restore := false
	if out, err := sess.Execute("frame", DefaultCommandTimeout); err == nil {
		if idx, ok := parseFrameIndex(out); ok && idx != 0 {
			if _, err := sess.Execute("frame 0", DefaultCommandTimeout); err == nil {
				originalFrame = idx
				restore = true
			}
		}
	}

	report := make(map[string]string, 7)
	defer func() {
		if !restore {
			return
		}
		if _, err := sess.Execute(fmt.Sprintf("frame %d", originalFrame), DefaultCommandTimeout); err != nil {
			logging.Logger.Warn().
				Str("session", sessionID).
				Int("frame", originalFrame).
				Msg("failed restoring frame selection")
		}
	}()

	for _, c := range crashReportCommands(backtraceLimit, disasmCount, stackWords) {
		out, err := sess.Execute(c.command, DefaultCommandTimeout)
		if err != nil {
			report[c.key] = "[error] " + errorLabel(err) + ": " + err.Error()
			continue
		}
		report[c.key] = out
	}
	return report
}

func errorLabel(err error) string {
	if kind, ok := KindOf(err); ok {
		return string(kind)
	}
	return "internal"
}
