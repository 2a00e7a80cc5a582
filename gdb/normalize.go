package gdb

import (
	"regexp"
	"strings"
)

// Matches CSI sequences, OSC sequences and 2-char escape sequences.
var terminalEscapeRE = regexp.MustCompile(`\x1b(?:\[[0-?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[@-Z\\-_])`)

func stripTerminalEscapes(raw string) string {
	return terminalEscapeRE.ReplaceAllString(raw, "")
}

// normalizeOutput strips terminal control sequences, unifies line endings
// and trims outer whitespace from raw process output.
func normalizeOutput(raw string) string {
	text := stripTerminalEscapes(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}
