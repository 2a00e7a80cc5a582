package gdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession replays scripted responses keyed by command prefix and
// records every command it receives.
type fakeSession struct {
	id        string
	dir       string
	target    string
	responses map[string]string
	failures  map[string]error
	commands  []string
	alive     bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{
		id:        id,
		dir:       "/tmp",
		responses: make(map[string]string),
		failures:  make(map[string]error),
		alive:     true,
	}
}

func (f *fakeSession) Execute(command string, timeout time.Duration) (string, error) {
	f.commands = append(f.commands, command)
	for prefix, err := range f.failures {
		if strings.HasPrefix(command, prefix) {
			return "", err
		}
	}
	for prefix, out := range f.responses {
		if strings.HasPrefix(command, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (f *fakeSession) Terminate(timeout time.Duration) { f.alive = false }
func (f *fakeSession) Alive() bool                     { return f.alive }
func (f *fakeSession) WorkingDir() string              { return f.dir }
func (f *fakeSession) Target() string                  { return f.target }
func (f *fakeSession) SetTarget(target string)         { f.target = target }
func (f *fakeSession) StartupOutput() string           { return "GNU gdb (GDB) 13.2" }
func (f *fakeSession) Info() SessionInfo {
	return SessionInfo{ID: f.id, Target: f.target, WorkingDir: f.dir, GdbPath: "gdb"}
}

func managerWith(fakes ...*fakeSession) *Manager {
	m := NewManager()
	for _, f := range fakes {
		m.sessions[f.id] = f
	}
	return m
}

func writeTempFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected a kinded error, got %v", err)
	assert.Equal(t, kind, got)
}

func TestStartSessionBadWorkingDir(t *testing.T) {
	m := NewManager()
	_, err := m.StartSession("/bin/sh", "/no/such/dir/at/all")
	assertKind(t, err, KindNotFound)
	assert.Contains(t, err.Error(), "working directory")
}

func TestStartSessionUnknownGdb(t *testing.T) {
	m := NewManager()
	_, err := m.StartSession("definitely-not-a-real-gdb-binary", "")
	assertKind(t, err, KindNotFound)
}

func TestCommandUnknownSession(t *testing.T) {
	m := NewManager()
	_, err := m.Command("nope", "info registers")
	assertKind(t, err, KindNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestTerminateSessionRemoves(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	require.NoError(t, m.TerminateSession("s1"))
	assert.False(t, fake.alive)
	assert.Empty(t, m.ListSessions())

	err := m.TerminateSession("s1")
	assertKind(t, err, KindNotFound)
}

func TestShutdownTerminatesAllOnce(t *testing.T) {
	a := newFakeSession("a")
	b := newFakeSession("b")
	m := managerWith(a, b)

	m.Shutdown()
	m.Shutdown()
	assert.False(t, a.alive)
	assert.False(t, b.alive)
	assert.Empty(t, m.ListSessions())
}

func TestSetProgramArgsQuoting(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.SetProgramArgs("s1", []string{"plain", "with space", "it's"})
	require.NoError(t, err)
	require.Len(t, fake.commands, 1)
	assert.Equal(t, "set args plain 'with space' \"it's\"", fake.commands[0])
}

func TestSetProgramArgsEmptyResets(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.SetProgramArgs("s1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"set args"}, fake.commands)
}

func TestAttachRejectsBadPid(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.Attach("s1", 0)
	assertKind(t, err, KindValidation)

	_, err = m.Attach("s1", 1234)
	require.NoError(t, err)
	assert.Equal(t, []string{"attach 1234"}, fake.commands)
}

func TestLoadCoreRejectsWhitespaceCorePath(t *testing.T) {
	fake := newFakeSession("s1")
	fake.dir = t.TempDir()
	m := managerWith(fake)

	writeTempFile(t, fake.dir, "prog", "")
	writeTempFile(t, fake.dir, "core file", "")

	_, err := m.LoadCore("s1", "prog", "core file")
	assertKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "whitespace")
}

func TestLoadCoreCommandSequence(t *testing.T) {
	fake := newFakeSession("s1")
	fake.dir = t.TempDir()
	fake.responses["backtrace"] = "#0  crash_here (p=0x0) at crash.c:7"
	m := managerWith(fake)

	writeTempFile(t, fake.dir, "prog", "")
	writeTempFile(t, fake.dir, "core.1234", "")

	result, err := m.LoadCore("s1", "prog", "core.1234")
	require.NoError(t, err)
	require.Len(t, fake.commands, 3)
	assert.Equal(t, "file \""+fake.dir+"/prog\"", fake.commands[0])
	// core-file takes its argument unquoted.
	assert.Equal(t, "core-file "+fake.dir+"/core.1234", fake.commands[1])
	assert.Equal(t, "backtrace", fake.commands[2])
	assert.Contains(t, result.BacktraceOutput, "crash_here")
}

func TestSetBreakpointWithCondition(t *testing.T) {
	fake := newFakeSession("s1")
	fake.responses["break"] = "Breakpoint 2 at 0x1149: file crash.c, line 7."
	m := managerWith(fake)

	result, err := m.SetBreakpoint("s1", "crash.c:7", "x > 5")
	require.NoError(t, err)
	assert.Equal(t, []string{"break crash.c:7", "condition 2 x > 5"}, fake.commands)
	assert.Contains(t, result.BreakpointOutput, "Breakpoint 2")
}

func TestSetBreakpointEmptyLocation(t *testing.T) {
	m := managerWith(newFakeSession("s1"))
	_, err := m.SetBreakpoint("s1", "  ", "")
	assertKind(t, err, KindValidation)
}

func TestDeleteBreakpointsAllVersusListed(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.DeleteBreakpoints("s1", nil)
	require.NoError(t, err)
	_, err = m.DeleteBreakpoints("s1", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"delete", "delete 1 3"}, fake.commands)
}

func TestToggleBreakpointsEmptyIDs(t *testing.T) {
	m := managerWith(newFakeSession("s1"))
	_, err := m.ToggleBreakpoints("s1", nil, true)
	assertKind(t, err, KindValidation)
}

func TestToggleBreakpointsCommands(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.ToggleBreakpoints("s1", []int{2}, true)
	require.NoError(t, err)
	_, err = m.ToggleBreakpoints("s1", []int{2, 4}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"enable 2", "disable 2 4"}, fake.commands)
}

func TestSetWatchpointModes(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.SetWatchpoint("s1", "counter", "")
	require.NoError(t, err)
	_, err = m.SetWatchpoint("s1", "counter", "read")
	require.NoError(t, err)
	_, err = m.SetWatchpoint("s1", "counter", "access")
	require.NoError(t, err)
	assert.Equal(t, []string{"watch counter", "rwatch counter", "awatch counter"}, fake.commands)

	_, err = m.SetWatchpoint("s1", "counter", "sideways")
	assertKind(t, err, KindValidation)
}

func TestSteppingCommands(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.Step("s1", false)
	require.NoError(t, err)
	_, err = m.Step("s1", true)
	require.NoError(t, err)
	_, err = m.Next("s1", false)
	require.NoError(t, err)
	_, err = m.Next("s1", true)
	require.NoError(t, err)
	_, err = m.Finish("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"step", "stepi", "next", "nexti", "finish"}, fake.commands)
}

func TestBacktraceVariants(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.Backtrace("s1", false, 0)
	require.NoError(t, err)
	_, err = m.Backtrace("s1", true, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"backtrace", "backtrace full 5"}, fake.commands)

	_, err = m.Backtrace("s1", false, -1)
	assertKind(t, err, KindValidation)
}

func TestExamineValidation(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.Examine("s1", "$sp", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x/1x $sp"}, fake.commands)

	_, err = m.Examine("s1", "$sp", "q", 1)
	assertKind(t, err, KindValidation)
	_, err = m.Examine("s1", "", "x", 1)
	assertKind(t, err, KindValidation)
}

func TestFrameNavigation(t *testing.T) {
	fake := newFakeSession("s1")
	m := managerWith(fake)

	_, err := m.SelectFrame("s1", 0)
	require.NoError(t, err)
	_, err = m.FrameUp("s1", 0)
	require.NoError(t, err)
	_, err = m.FrameDown("s1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame 0", "up 1", "down 2"}, fake.commands)

	_, err = m.SelectFrame("s1", -1)
	assertKind(t, err, KindValidation)
	_, err = m.SelectThread("s1", 0)
	assertKind(t, err, KindValidation)
}

func TestListSourceDerivesLocation(t *testing.T) {
	fake := newFakeSession("s1")
	fake.responses["list"] = "10\tint main(void) {\n11\t    int *p = 0;\n12\t    *p = 1;\n13\t}"
	fake.responses["info source"] = "Current source file is crash.c"
	fake.responses["frame"] = "#0  main () at crash.c:12"
	m := managerWith(fake)

	result, err := m.ListSource("s1", "", 4)
	require.NoError(t, err)
	assert.Equal(t, "set listsize 4", fake.commands[0])
	assert.Equal(t, "list", fake.commands[1])
	require.NotNil(t, result.Location)
	assert.Equal(t, "crash.c", result.Location.File)
	assert.Equal(t, 10, result.Location.StartLine)
	assert.Equal(t, 13, result.Location.EndLine)
	assert.Equal(t, 12, result.Location.CurrentLine)
}

func TestListSourceNoNumberedOutput(t *testing.T) {
	fake := newFakeSession("s1")
	fake.responses["list"] = "Function \"nope\" not defined."
	m := managerWith(fake)

	result, err := m.ListSource("s1", "nope", 0)
	require.NoError(t, err)
	assert.Nil(t, result.Location)
	assert.Contains(t, fake.commands, "list nope")
}

func TestFormatProgramArguments(t *testing.T) {
	formatted, err := FormatProgramArguments([]string{"a b", "$HOME", "plain"})
	require.NoError(t, err)
	assert.Equal(t, "'a b' '$HOME' plain", formatted)
}
