package gdb

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"mvdan.cc/sh/v3/syntax"

	"github.com/xhd2015/gdb-mcp/logging"
)

const (
	// DefaultCommandTimeout bounds one command exchange with gdb.
	DefaultCommandTimeout = 10 * time.Second
	// DefaultStartupTimeout bounds process spawn through the first prompt.
	DefaultStartupTimeout = 10 * time.Second

	terminateTimeout = 5 * time.Second
)

// session is the execution surface the manager drives. *Session implements
// it; tests substitute scripted fakes.
type session interface {
	Execute(command string, timeout time.Duration) (string, error)
	Terminate(timeout time.Duration)
	Alive() bool
	Info() SessionInfo
	WorkingDir() string
	Target() string
	SetTarget(target string)
	StartupOutput() string
}

// Manager creates, tracks and tears down gdb sessions by identifier.
// Different sessions are fully independent; the map itself is safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]session
	shutdown sync.Once
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]session)}
}

// StartResult describes a newly started session.
type StartResult struct {
	SessionID  string
	WorkingDir string
	GdbPath    string
	Output     string
}

// StartSession resolves the gdb executable and working directory, then
// spawns and records a new session. Resolution failures surface before any
// process is spawned.
func (m *Manager) StartSession(gdbPath string, workingDir string) (*StartResult, error) {
	if gdbPath == "" {
		gdbPath = "gdb"
	}
	resolvedGdb, err := resolveGdbPath(gdbPath)
	if err != nil {
		return nil, err
	}

	cwd := workingDir
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return nil, newError(KindNotFound, "cannot determine working directory: %v", err)
		}
	}
	cwd, err = resolveDir(cwd)
	if err != nil {
		return nil, err
	}

	sessionID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	sess, err := StartSession(sessionID, resolvedGdb, cwd, DefaultStartupTimeout)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = sess
	m.mu.Unlock()
	logging.Logger.Info().Str("session", sessionID).Msg("started session")

	return &StartResult{
		SessionID:  sessionID,
		WorkingDir: cwd,
		GdbPath:    resolvedGdb,
		Output:     sess.StartupOutput(),
	}, nil
}

// ListSessions returns snapshots of every tracked session.
func (m *Manager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		infos = append(infos, sess.Info())
	}
	return infos
}

// TerminateSession terminates the session and removes it from the registry.
func (m *Manager) TerminateSession(sessionID string) error {
	sess, err := m.get(sessionID)
	if err != nil {
		return err
	}
	sess.Terminate(terminateTimeout)
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	logging.Logger.Info().Str("session", sessionID).Msg("session removed")
	return nil
}

// TerminateAll terminates every tracked session. Individual failures are
// logged and do not abort the loop.
func (m *Manager) TerminateAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		if err := m.TerminateSession(id); err != nil {
			logging.Logger.Warn().Str("session", id).Err(err).Msg("failed terminating session")
		}
	}
}

// Shutdown runs TerminateAll exactly once; it is the process-exit and
// signal-handler entry point.
func (m *Manager) Shutdown() {
	m.shutdown.Do(m.TerminateAll)
}

// Command executes one raw CLI command on the session.
func (m *Manager) Command(sessionID string, command string) (string, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return "", err
	}
	return sess.Execute(command, DefaultCommandTimeout)
}

// LoadResult describes a program load.
type LoadResult struct {
	Target     string
	LoadOutput string
	ArgsOutput string
}

// LoadProgram loads an executable into the session and optionally sets
// its arguments. The path is resolved against the session's working
// directory; absolute paths are honored as-is.
func (m *Manager) LoadProgram(sessionID string, program string, arguments []string) (*LoadResult, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	targetPath, err := resolveExistingPath(sess.WorkingDir(), program, "Program path")
	if err != nil {
		return nil, err
	}
	loadOutput, err := sess.Execute(fmt.Sprintf("file %q", targetPath), DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	argsOutput := ""
	if arguments != nil {
		argsOutput, err = m.SetProgramArgs(sessionID, arguments)
		if err != nil {
			return nil, err
		}
	}
	sess.SetTarget(targetPath)
	return &LoadResult{Target: targetPath, LoadOutput: loadOutput, ArgsOutput: argsOutput}, nil
}

// SetProgramArgs sets (or resets, for an empty list) the program arguments.
func (m *Manager) SetProgramArgs(sessionID string, arguments []string) (string, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return "", err
	}
	if len(arguments) == 0 {
		return sess.Execute("set args", DefaultCommandTimeout)
	}
	formatted, err := FormatProgramArguments(arguments)
	if err != nil {
		return "", err
	}
	return sess.Execute("set args "+formatted, DefaultCommandTimeout)
}

// Attach attaches the session to a running process.
func (m *Manager) Attach(sessionID string, pid int) (string, error) {
	if err := validatePositiveInt(pid, "pid"); err != nil {
		return "", err
	}
	return m.Command(sessionID, fmt.Sprintf("attach %d", pid))
}

// CoreResult describes a core-dump load.
type CoreResult struct {
	ProgramOutput   string
	CoreOutput      string
	BacktraceOutput string
}

// LoadCore loads an executable plus core dump and collects an initial
// backtrace. The core path must not contain whitespace: gdb's core-file
// argument cannot be disambiguated unquoted.
func (m *Manager) LoadCore(sessionID string, program string, corePath string) (*CoreResult, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	programPath, err := resolveExistingPath(sess.WorkingDir(), program, "Program path")
	if err != nil {
		return nil, err
	}
	coreFilePath, err := resolveExistingPath(sess.WorkingDir(), corePath, "Core file path")
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(coreFilePath, " \t\n") {
		return nil, newError(KindValidation, "core_path must not contain whitespace (gdb core-file parser limitation)")
	}
	programOut, err := sess.Execute(fmt.Sprintf("file %q", programPath), DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	coreOut, err := sess.Execute("core-file "+coreFilePath, DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	btOut, err := sess.Execute("backtrace", DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	return &CoreResult{ProgramOutput: programOut, CoreOutput: coreOut, BacktraceOutput: btOut}, nil
}

// BreakpointResult describes a breakpoint set operation.
type BreakpointResult struct {
	BreakpointOutput string
	ConditionOutput  string
}

var breakpointNumberRE = regexp.MustCompile(`Breakpoint\s+(\d+)`)

// SetBreakpoint sets a breakpoint at location with an optional condition.
func (m *Manager) SetBreakpoint(sessionID string, location string, condition string) (*BreakpointResult, error) {
	if strings.TrimSpace(location) == "" {
		return nil, newError(KindValidation, "location must not be empty")
	}
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	breakpointOutput, err := sess.Execute("break "+location, DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	conditionOutput := ""
	if condition != "" {
		if num := breakpointNumberRE.FindStringSubmatch(breakpointOutput); num != nil {
			conditionOutput, err = sess.Execute(fmt.Sprintf("condition %s %s", num[1], condition), DefaultCommandTimeout)
			if err != nil {
				return nil, err
			}
		}
	}
	return &BreakpointResult{BreakpointOutput: breakpointOutput, ConditionOutput: conditionOutput}, nil
}

// ListBreakpoints returns `info breakpoints` output.
func (m *Manager) ListBreakpoints(sessionID string) (string, error) {
	return m.Command(sessionID, "info breakpoints")
}

// DeleteBreakpoints deletes the listed breakpoints, or all of them when
// ids is nil.
func (m *Manager) DeleteBreakpoints(sessionID string, breakpointIDs []int) (string, error) {
	if breakpointIDs == nil {
		return m.Command(sessionID, "delete")
	}
	formatted, err := formatNumberList(breakpointIDs, "breakpoint_ids")
	if err != nil {
		return "", err
	}
	return m.Command(sessionID, "delete "+formatted)
}

// ToggleBreakpoints enables or disables the listed breakpoints.
func (m *Manager) ToggleBreakpoints(sessionID string, breakpointIDs []int, enabled bool) (string, error) {
	formatted, err := formatNumberList(breakpointIDs, "breakpoint_ids")
	if err != nil {
		return "", err
	}
	toggle := "disable"
	if enabled {
		toggle = "enable"
	}
	return m.Command(sessionID, toggle+" "+formatted)
}

var watchpointModes = map[string]string{
	"write":  "watch",
	"read":   "rwatch",
	"access": "awatch",
}

// SetWatchpoint sets a watchpoint on expression. Mode is one of write,
// read or access.
func (m *Manager) SetWatchpoint(sessionID string, expression string, mode string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", newError(KindValidation, "expression must not be empty")
	}
	if mode == "" {
		mode = "write"
	}
	command, ok := watchpointModes[mode]
	if !ok {
		return "", newError(KindValidation, "mode must be one of: write, read, access")
	}
	return m.Command(sessionID, command+" "+expression)
}

// ContinueExecution resumes the inferior.
func (m *Manager) ContinueExecution(sessionID string) (string, error) {
	return m.Command(sessionID, "continue")
}

// Step steps into the next line, or instruction when instructions is set.
func (m *Manager) Step(sessionID string, instructions bool) (string, error) {
	if instructions {
		return m.Command(sessionID, "stepi")
	}
	return m.Command(sessionID, "step")
}

// Next steps over the next line, or instruction when instructions is set.
func (m *Manager) Next(sessionID string, instructions bool) (string, error) {
	if instructions {
		return m.Command(sessionID, "nexti")
	}
	return m.Command(sessionID, "next")
}

// Finish runs until the current function returns.
func (m *Manager) Finish(sessionID string) (string, error) {
	return m.Command(sessionID, "finish")
}

// Backtrace collects a backtrace, optionally full and optionally limited
// to the given number of frames (0 means no limit argument).
func (m *Manager) Backtrace(sessionID string, full bool, limit int) (string, error) {
	command := "backtrace"
	if full {
		command = "backtrace full"
	}
	if limit != 0 {
		if err := validatePositiveInt(limit, "limit"); err != nil {
			return "", err
		}
		command = fmt.Sprintf("%s %d", command, limit)
	}
	return m.Command(sessionID, command)
}

// PrintExpression evaluates an expression via gdb's print command.
func (m *Manager) PrintExpression(sessionID string, expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", newError(KindValidation, "expression must not be empty")
	}
	return m.Command(sessionID, "print "+expression)
}

var examineFormats = map[string]bool{
	"x": true, "d": true, "u": true, "o": true, "t": true,
	"a": true, "c": true, "f": true, "i": true, "s": true, "z": true,
}

// Examine runs gdb's x command against an address or expression.
func (m *Manager) Examine(sessionID string, expression string, format string, count int) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", newError(KindValidation, "expression must not be empty")
	}
	if format == "" {
		format = "x"
	}
	if !examineFormats[format] {
		return "", newError(KindValidation, "unknown examine format: %s", format)
	}
	if count == 0 {
		count = 1
	}
	if err := validatePositiveInt(count, "count"); err != nil {
		return "", err
	}
	return m.Command(sessionID, fmt.Sprintf("x/%d%s %s", count, format, expression))
}

// InfoRegisters reads all registers, or a single named one.
func (m *Manager) InfoRegisters(sessionID string, register string) (string, error) {
	command := "info registers"
	if register != "" {
		command += " " + register
	}
	return m.Command(sessionID, command)
}

// InfoThreads lists the inferior's threads.
func (m *Manager) InfoThreads(sessionID string) (string, error) {
	return m.Command(sessionID, "info threads")
}

// SelectThread switches the session to the given thread.
func (m *Manager) SelectThread(sessionID string, threadID int) (string, error) {
	if err := validatePositiveInt(threadID, "thread_id"); err != nil {
		return "", err
	}
	return m.Command(sessionID, fmt.Sprintf("thread %d", threadID))
}

// SelectFrame switches the session to the given frame.
func (m *Manager) SelectFrame(sessionID string, frameID int) (string, error) {
	if frameID < 0 {
		return "", newError(KindValidation, "frame_id must be >= 0")
	}
	return m.Command(sessionID, fmt.Sprintf("frame %d", frameID))
}

// FrameUp moves count frames towards the outermost frame.
func (m *Manager) FrameUp(sessionID string, count int) (string, error) {
	if count == 0 {
		count = 1
	}
	if err := validatePositiveInt(count, "count"); err != nil {
		return "", err
	}
	return m.Command(sessionID, fmt.Sprintf("up %d", count))
}

// FrameDown moves count frames towards the innermost frame.
func (m *Manager) FrameDown(sessionID string, count int) (string, error) {
	if count == 0 {
		count = 1
	}
	if err := validatePositiveInt(count, "count"); err != nil {
		return "", err
	}
	return m.Command(sessionID, fmt.Sprintf("down %d", count))
}

// SourceResult describes one source listing.
type SourceResult struct {
	Output   string
	Location *SourceLocation
}

// ListSource lists source around the current frame or the requested
// location and derives the displayed window.
func (m *Manager) ListSource(sessionID string, location string, lineCount int) (*SourceResult, error) {
	if lineCount == 0 {
		lineCount = 10
	}
	if err := validatePositiveInt(lineCount, "line_count"); err != nil {
		return nil, err
	}
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Execute(fmt.Sprintf("set listsize %d", lineCount), DefaultCommandTimeout); err != nil {
		return nil, err
	}
	command := "list"
	if loc := strings.TrimSpace(location); loc != "" {
		command = "list " + loc
	}
	output, err := sess.Execute(command, DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}

	result := &SourceResult{Output: output}
	start, end, ok := ExtractLineRange(output)
	if !ok {
		return result, nil
	}
	loc := &SourceLocation{StartLine: start, EndLine: end}
	if out, err := sess.Execute("info source", DefaultCommandTimeout); err == nil {
		if file, ok := ParseInfoSource(out); ok {
			loc.File = file
		}
	}
	if out, err := sess.Execute("frame", DefaultCommandTimeout); err == nil {
		if at := sourceAtRE.FindStringSubmatch(out); at != nil {
			loc.CurrentLine, _ = strconv.Atoi(at[2])
		}
	}
	result.Location = loc
	return result, nil
}

func (m *Manager) get(sessionID string) (session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, newError(KindNotFound, "no active gdb session with id: %s", sessionID)
	}
	return sess, nil
}

// FormatProgramArguments shell-quotes each argument the way gdb's
// `set args` expects.
func FormatProgramArguments(arguments []string) (string, error) {
	quoted := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		q, err := syntax.Quote(argument, syntax.LangBash)
		if err != nil {
			return "", newError(KindValidation, "argument cannot be quoted: %v", err)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

func resolveGdbPath(gdbPath string) (string, error) {
	if strings.ContainsRune(gdbPath, os.PathSeparator) {
		expanded, err := homedir.Expand(gdbPath)
		if err != nil {
			return "", newError(KindNotFound, "gdb executable not found: %s", gdbPath)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", newError(KindNotFound, "gdb executable not found: %s", gdbPath)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", newError(KindNotFound, "gdb executable not found: %s", abs)
		}
		return abs, nil
	}
	resolved, err := exec.LookPath(gdbPath)
	if err != nil {
		return "", newError(KindNotFound, "gdb executable not found in PATH: %s", gdbPath)
	}
	return resolved, nil
}

func resolveDir(dir string) (string, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", newError(KindNotFound, "working directory does not exist: %s", dir)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", newError(KindNotFound, "working directory does not exist: %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", newError(KindNotFound, "working directory does not exist: %s", abs)
	}
	return abs, nil
}

func resolveExistingPath(workingDir string, rawPath string, fieldName string) (string, error) {
	if strings.TrimSpace(rawPath) == "" {
		return "", newError(KindValidation, "%s must not be empty", fieldName)
	}
	expanded, err := homedir.Expand(rawPath)
	if err != nil {
		return "", newError(KindNotFound, "%s does not exist: %s", fieldName, rawPath)
	}
	candidate := expanded
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(workingDir, candidate)
	}
	candidate = filepath.Clean(candidate)
	if _, err := os.Stat(candidate); err != nil {
		return "", newError(KindNotFound, "%s does not exist: %s", fieldName, candidate)
	}
	return candidate, nil
}

func validatePositiveInt(value int, fieldName string) error {
	if value <= 0 {
		return newError(KindValidation, "%s must be > 0", fieldName)
	}
	return nil
}

func formatNumberList(values []int, fieldName string) (string, error) {
	if len(values) == 0 {
		return "", newError(KindValidation, "%s must not be empty", fieldName)
	}
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if err := validatePositiveInt(value, fieldName); err != nil {
			return "", err
		}
		parts = append(parts, strconv.Itoa(value))
	}
	return strings.Join(parts, " "), nil
}
