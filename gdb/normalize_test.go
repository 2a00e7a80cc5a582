package gdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOutputStripsEscapes(t *testing.T) {
	raw := "\x1b[?2004h\x1b[32mReading symbols\x1b[m\r\n\x1b[?2004l"
	assert.Equal(t, "Reading symbols", normalizeOutput(raw))
}

func TestNormalizeOutputFoldsCarriageReturns(t *testing.T) {
	assert.Equal(t, "line1\nline2\nline3", normalizeOutput("line1\r\nline2\rline3\n"))
}

func TestNormalizeOutputPlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "Breakpoint 1 at 0x1149", normalizeOutput("Breakpoint 1 at 0x1149"))
}

func TestNormalizeOutputOSCSequence(t *testing.T) {
	// Title-setting sequence terminated by BEL.
	assert.Equal(t, "hello", normalizeOutput("\x1b]0;gdb\x07hello"))
}
