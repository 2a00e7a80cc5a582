package gdb

import (
	"regexp"
	"strconv"
	"strings"
)

// Frame is one parsed backtrace line. Index 0 is the innermost frame.
type Frame struct {
	Index    int    `json:"index"`
	Function string `json:"function"`
	Address  string `json:"address,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Raw      string `json:"raw"`
}

// Register is one parsed `info registers` entry.
type Register struct {
	Value  string `json:"value"`
	Detail string `json:"detail"`
}

// Breakpoint is one parsed `info breakpoints` record. Raw is the full
// header plus continuation lines and serves as the fallback when
// classification fails.
type Breakpoint struct {
	Number  int    `json:"number"`
	Kind    string `json:"kind,omitempty"`
	Enabled bool   `json:"enabled"`
	Address string `json:"address,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Raw     string `json:"raw"`
}

// SourceLocation describes a displayed source window. It is derived from
// command output and recomputed on every listing request.
type SourceLocation struct {
	File        string `json:"file"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	CurrentLine int    `json:"currentLine,omitempty"`
}

var (
	backtraceLineRE     = regexp.MustCompile(`^#(\d+)\s+(?:(0x[0-9a-fA-F]+)\s+in\s+)?([^\s(]+)`)
	backtraceLocationRE = regexp.MustCompile(`\s+at\s+(.+?):(\d+)\s*$`)
	registerLineRE      = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_.]*)\s+(\S+)(?:\s+(.*))?$`)
	breakpointHeadRE    = regexp.MustCompile(`^\s*(\d+)\s+`)
	hexValueRE          = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	sourceAtRE          = regexp.MustCompile(`\bat\s(.+?):(\d+)(?:\s|$)`)
	frameIndexRE        = regexp.MustCompile(`^\s*#(\d+)\b`)
	infoLineRE          = regexp.MustCompile(`Line (\d+) of "([^"]+)"`)
	infoSourceRE        = regexp.MustCompile(`Current source file is (.+)`)
	listedLineRE        = regexp.MustCompile(`^\s*(\d+)(?:\s|$)`)
)

// ParseBacktraceFrames parses `backtrace` textual output into structured
// frames. Lines not matching the `#<index>` anchor are skipped.
func ParseBacktraceFrames(output string) []Frame {
	var frames []Frame
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		m := backtraceLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		frame := Frame{
			Index:    index,
			Address:  m[2],
			Function: m[3],
			Raw:      line,
		}
		if loc := backtraceLocationRE.FindStringSubmatch(line); loc != nil {
			frame.File = loc[1]
			frame.Line, _ = strconv.Atoi(loc[2])
		}
		frames = append(frames, frame)
	}
	return frames
}

// ParseRegisters parses `info registers` output into a register map.
func ParseRegisters(output string) map[string]Register {
	registers := make(map[string]Register)
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := registerLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		registers[m[1]] = Register{
			Value:  m[2],
			Detail: strings.TrimSpace(m[3]),
		}
	}
	return registers
}

// ParseBreakpoints parses `info breakpoints` output. A line starting with a
// numeric id opens a new record; following non-id lines are wrapped
// location text and are merged into the open record.
func ParseBreakpoints(output string) []Breakpoint {
	type group struct {
		head string
		tail []string
	}
	var groups []group
	var current *group

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if breakpointHeadRE.MatchString(line) {
			groups = append(groups, group{head: line})
			current = &groups[len(groups)-1]
			continue
		}
		if current != nil {
			current.tail = append(current.tail, line)
		}
	}

	var items []Breakpoint
	for _, g := range groups {
		parts := []string{strings.TrimSpace(g.head)}
		for _, t := range g.tail {
			if s := strings.TrimSpace(t); s != "" {
				parts = append(parts, s)
			}
		}
		combined := strings.Join(parts, " ")

		number, err := strconv.Atoi(strings.Fields(g.head)[0])
		if err != nil {
			continue
		}
		item := Breakpoint{Number: number, Raw: combined}

		lowered := " " + strings.ToLower(g.head) + " "
		switch {
		case strings.Contains(lowered, " breakpoint "):
			item.Kind = "breakpoint"
		case strings.Contains(lowered, " watchpoint "):
			item.Kind = "watchpoint"
		case strings.Contains(lowered, " catchpoint "):
			item.Kind = "catchpoint"
		}
		item.Enabled = strings.Contains(lowered, " y ")

		if addr := hexValueRE.FindString(g.head); addr != "" {
			item.Address = addr
		}
		if loc := sourceAtRE.FindStringSubmatch(combined); loc != nil {
			item.File = loc[1]
			item.Line, _ = strconv.Atoi(loc[2])
		}
		items = append(items, item)
	}
	return items
}

// ParseInfoLine extracts the file and line from `info line` output, e.g.
// `Line 17 of "crash.c" starts at address 0x1149 <main+0> ...`.
func ParseInfoLine(output string) (string, int, bool) {
	m := infoLineRE.FindStringSubmatch(output)
	if m == nil {
		return "", 0, false
	}
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return m[2], line, true
}

// ParseInfoSource extracts the current source file path from `info source`
// output.
func ParseInfoSource(output string) (string, bool) {
	m := infoSourceRE.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractLineRange returns the first and last line numbers of numbered
// `list` output, or false when no numbered lines are present.
func ExtractLineRange(output string) (int, int, bool) {
	start, end := 0, 0
	found := false
	for _, raw := range strings.Split(output, "\n") {
		m := listedLineRE.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !found {
			start = n
			found = true
		}
		end = n
	}
	return start, end, found
}

func parseFrameIndex(frameOutput string) (int, bool) {
	m := frameIndexRE.FindStringSubmatch(frameOutput)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
