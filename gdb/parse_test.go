package gdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBacktraceFrames(t *testing.T) {
	output := "#0  crash_here (p=0x0) at crash.c:7\n" +
		"#1  0x0000555555555162 in main () at crash.c:12\n" +
		"some unrelated line\n"

	frames := ParseBacktraceFrames(output)
	require.Len(t, frames, 2)

	assert.Equal(t, 0, frames[0].Index)
	assert.Equal(t, "crash_here", frames[0].Function)
	assert.Empty(t, frames[0].Address)
	assert.Equal(t, "crash.c", frames[0].File)
	assert.Equal(t, 7, frames[0].Line)

	assert.Equal(t, 1, frames[1].Index)
	assert.Equal(t, "main", frames[1].Function)
	assert.Equal(t, "0x0000555555555162", frames[1].Address)
	assert.Equal(t, "crash.c", frames[1].File)
	assert.Equal(t, 12, frames[1].Line)
}

func TestParseBacktraceFramesNoMatches(t *testing.T) {
	assert.Empty(t, ParseBacktraceFrames("No stack."))
}

func TestParseRegisters(t *testing.T) {
	output := "rax            0x0                 0\n" +
		"rip            0x555555555149      0x555555555149 <main+8>\n" +
		"eflags         0x10246             [ PF ZF IF RF ]\n"

	registers := ParseRegisters(output)
	require.Len(t, registers, 3)
	assert.Equal(t, "0x0", registers["rax"].Value)
	assert.Equal(t, "0", registers["rax"].Detail)
	assert.Equal(t, "0x555555555149", registers["rip"].Value)
	assert.Equal(t, "0x555555555149 <main+8>", registers["rip"].Detail)
	assert.Equal(t, "[ PF ZF IF RF ]", registers["eflags"].Detail)
}

func TestParseBreakpointsWrappedLocation(t *testing.T) {
	// gdb wraps long locations onto a continuation line.
	output := "Num     Type           Disp Enb Address            What\n" +
		"1       breakpoint     keep y   0x0000555555555149 in main\n" +
		"                                                   at crash.c:12\n" +
		"2       hw watchpoint  keep n                      counter\n"

	items := ParseBreakpoints(output)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].Number)
	assert.Equal(t, "breakpoint", items[0].Kind)
	assert.True(t, items[0].Enabled)
	assert.Equal(t, "0x0000555555555149", items[0].Address)
	assert.Equal(t, "crash.c", items[0].File)
	assert.Equal(t, 12, items[0].Line)

	assert.Equal(t, 2, items[1].Number)
	assert.Equal(t, "watchpoint", items[1].Kind)
	assert.False(t, items[1].Enabled)
	assert.Empty(t, items[1].Address)
}

func TestParseInfoLine(t *testing.T) {
	file, line, ok := ParseInfoLine(`Line 17 of "crash.c" starts at address 0x1149 <main+0> and ends at 0x1160.`)
	require.True(t, ok)
	assert.Equal(t, "crash.c", file)
	assert.Equal(t, 17, line)

	_, _, ok = ParseInfoLine("No line number information available.")
	assert.False(t, ok)
}

func TestParseInfoSource(t *testing.T) {
	file, ok := ParseInfoSource("Current source file is crash.c\nCompilation directory is /tmp")
	require.True(t, ok)
	assert.Equal(t, "crash.c", file)

	_, ok = ParseInfoSource("No current source file.")
	assert.False(t, ok)
}

func TestExtractLineRange(t *testing.T) {
	output := "10\tint main(void) {\n" +
		"11\t    int *p = 0;\n" +
		"12\t    *p = 1;\n" +
		"13\t}\n"
	start, end, ok := ExtractLineRange(output)
	require.True(t, ok)
	assert.Equal(t, 10, start)
	assert.Equal(t, 13, end)
}

func TestExtractLineRangeNoNumberedLines(t *testing.T) {
	_, _, ok := ExtractLineRange("Function \"nope\" not defined.")
	assert.False(t, ok)
}

func TestParseFrameIndex(t *testing.T) {
	idx, ok := parseFrameIndex("#3  0x0000555555555162 in main () at crash.c:12")
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = parseFrameIndex("No stack.")
	assert.False(t, ok)
}
