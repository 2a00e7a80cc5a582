package gdb

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.uber.org/atomic"

	"github.com/xhd2015/gdb-mcp/logging"
)

// promptLiteral must match gdb's configured prompt exactly; it frames every
// request/response exchange.
const promptLiteral = "(gdb)"

// Sent once after the first prompt, in order. They turn the interactive
// REPL into something that answers exactly once per command.
var bootstrapCommands = []string{
	"set pagination off",
	"set confirm off",
	"set style enabled off",
	"set print thread-events off",
}

var (
	errExpectTimeout = errors.New("timed out waiting for gdb prompt")
	errProcessExited = errors.New("gdb process exited")
)

// Session owns one gdb process spawned under a pseudo-terminal and presents
// command execution as an atomic request/response call. All I/O with the
// process is funneled through the session mutex: commands on the same
// session are strictly sequential.
type Session struct {
	id         string
	gdbPath    string
	workingDir string
	startedAt  time.Time

	target        *atomic.String
	alive         *atomic.Bool
	startupOutput string

	mu   sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File
	out  chan []byte
	done chan struct{}
	// pending holds bytes read after the last prompt match, carried over
	// into the next expect call.
	pending bytes.Buffer
}

// SessionInfo is the caller-visible snapshot of one session.
type SessionInfo struct {
	ID         string `json:"id"`
	Target     string `json:"target"`
	WorkingDir string `json:"working_dir"`
	GdbPath    string `json:"gdb_path"`
	StartedAt  string `json:"started_at"`
}

// StartSession spawns gdb under a pty with a non-interactive terminal type,
// waits for the initial ready prompt and applies the bootstrap commands.
func StartSession(id string, gdbPath string, workingDir string, startupTimeout time.Duration) (*Session, error) {
	logging.Logger.Info().
		Str("session", id).
		Str("gdb", gdbPath).
		Str("cwd", workingDir).
		Msg("starting gdb session")

	cmd := exec.Command(gdbPath, "--quiet", "--nx")
	cmd.Dir = workingDir
	cmd.Env = append(os.Environ(), "TERM=dumb")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, newError(KindSession, "failed to start gdb: %v", err)
	}

	s := &Session{
		id:         id,
		gdbPath:    gdbPath,
		workingDir: workingDir,
		startedAt:  time.Now(),
		target:     atomic.NewString(""),
		alive:      atomic.NewBool(true),
		cmd:        cmd,
		ptmx:       ptmx,
		out:        make(chan []byte, 64),
		done:       make(chan struct{}),
	}
	go s.readLoop()
	go func() {
		cmd.Wait()
		s.alive.Store(false)
		close(s.done)
	}()

	banner, err := s.expect(promptLiteral, startupTimeout)
	if err != nil {
		s.forceClose()
		if errors.Is(err, errExpectTimeout) {
			return nil, newError(KindTimeout, "timed out waiting for gdb prompt during startup")
		}
		return nil, newError(KindSession, "gdb exited before initial prompt")
	}
	for _, command := range bootstrapCommands {
		if err := s.send(command); err != nil {
			s.forceClose()
			return nil, newError(KindSession, "failed to send bootstrap command: %v", err)
		}
		if _, err := s.expect(promptLiteral, startupTimeout); err != nil {
			s.forceClose()
			if errors.Is(err, errExpectTimeout) {
				return nil, newError(KindTimeout, "timed out waiting for gdb prompt during startup")
			}
			return nil, newError(KindSession, "gdb exited before initial prompt")
		}
	}
	s.startupOutput = normalizeOutput(banner)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// GdbPath returns the resolved gdb executable path.
func (s *Session) GdbPath() string { return s.gdbPath }

// WorkingDir returns the session's working directory.
func (s *Session) WorkingDir() string { return s.workingDir }

// StartupOutput returns the banner text captured before the first prompt.
func (s *Session) StartupOutput() string { return s.startupOutput }

// Target returns the currently loaded program path, if any.
func (s *Session) Target() string { return s.target.Load() }

// SetTarget records the currently loaded program path.
func (s *Session) SetTarget(target string) { s.target.Store(target) }

// Alive reports whether the gdb process is still running.
func (s *Session) Alive() bool { return s.alive.Load() }

// Info returns the caller-visible snapshot of the session.
func (s *Session) Info() SessionInfo {
	target := s.target.Load()
	if target == "" {
		target = "No program loaded"
	}
	return SessionInfo{
		ID:         s.id,
		Target:     target,
		WorkingDir: s.workingDir,
		GdbPath:    s.gdbPath,
		StartedAt:  s.startedAt.UTC().Format(time.RFC3339),
	}
}

// Execute sends one CLI command and collects output until the next ready
// prompt. On timeout the session stays usable and the error carries the
// partial output collected so far; on process exit the session is dead.
func (s *Session) Execute(command string, timeout time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive.Load() {
		return "", newError(KindSession, "gdb session %s is not alive", s.id)
	}
	logging.Logger.Debug().Str("session", s.id).Str("command", command).Msg("session command")

	if err := s.send(command); err != nil {
		return "", newError(KindSession, "failed to send command to gdb session %s: %v", s.id, err)
	}
	raw, err := s.expect(promptLiteral, timeout)
	if err != nil {
		partial := normalizeOutput(raw)
		if errors.Is(err, errExpectTimeout) {
			return "", &Error{
				Kind:    KindTimeout,
				Message: "command timeout after " + timeout.String() + " for `" + command + "`",
				Partial: partial,
			}
		}
		return "", &Error{
			Kind:    KindSession,
			Message: "gdb session terminated while executing `" + command + "`",
			Partial: partial,
		}
	}

	output := normalizeOutput(raw)
	lines := strings.Split(output, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == strings.TrimSpace(command) {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Terminate sends a quit command, answers gdb's confirmation question if it
// appears, waits for exit up to timeout and force-kills regardless of
// outcome. Cleanup problems are logged, never returned.
func (s *Session) Terminate(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive.Load() {
		s.forceClose()
		return
	}
	logging.Logger.Info().Str("session", s.id).Msg("terminating gdb session")

	if err := s.send("quit"); err == nil {
		idx, err := s.expectAny([]string{"Quit anyway? (y or n)"}, timeout)
		switch {
		case err == nil && idx == 0:
			s.send("y")
			s.waitExit(timeout)
		case errors.Is(err, errExpectTimeout):
			logging.Logger.Warn().Str("session", s.id).Msg("quit timeout, force closing")
		}
		// errProcessExited means the quit completed on its own.
	}
	s.forceClose()
}

func (s *Session) send(command string) error {
	_, err := s.ptmx.Write([]byte(command + "\n"))
	return err
}

func (s *Session) readLoop() {
	defer close(s.out)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.out <- chunk
		}
		if err != nil {
			return
		}
	}
}

// expect accumulates process output until literal appears. The text before
// the match is returned; bytes after it stay buffered for the next call.
// On failure the collected text is returned alongside the sentinel error.
func (s *Session) expect(literal string, timeout time.Duration) (string, error) {
	_, before, err := s.expectMulti([]string{literal}, timeout)
	return before, err
}

func (s *Session) expectAny(literals []string, timeout time.Duration) (int, error) {
	idx, _, err := s.expectMulti(literals, timeout)
	return idx, err
}

func (s *Session) expectMulti(literals []string, timeout time.Duration) (int, string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		data := s.pending.String()
		matched := -1
		matchPos := -1
		for i, literal := range literals {
			if pos := strings.Index(data, literal); pos >= 0 && (matchPos < 0 || pos < matchPos) {
				matched = i
				matchPos = pos
			}
		}
		if matched >= 0 {
			before := data[:matchPos]
			rest := data[matchPos+len(literals[matched]):]
			s.pending.Reset()
			s.pending.WriteString(rest)
			return matched, before, nil
		}

		select {
		case chunk, ok := <-s.out:
			if !ok {
				collected := s.pending.String()
				s.pending.Reset()
				return -1, collected, errProcessExited
			}
			s.pending.Write(chunk)
		case <-timer.C:
			// Keep pending intact: a late prompt may still resynchronize
			// the next command.
			return -1, s.pending.String(), errExpectTimeout
		}
	}
}

// waitExit drains output until the process closes its side of the pty or
// the timeout elapses.
func (s *Session) waitExit(timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-s.out:
			if !ok {
				return
			}
		case <-timer.C:
			return
		}
	}
}

// forceClose releases the pty and kills the process if it is still around.
func (s *Session) forceClose() {
	s.ptmx.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	// Drain remaining output so the read loop can observe the closed pty.
	go func() {
		for range s.out {
		}
	}()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
	s.alive.Store(false)
}
