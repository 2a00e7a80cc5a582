package gdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMIRecordsResult(t *testing.T) {
	records := ParseMIRecords(`^done,bkpt={number="1",addr="0x1149"}`)
	require.Len(t, records, 1)
	assert.Equal(t, MIResult, records[0].Type)
	assert.Equal(t, "done", records[0].Message)
	payload, ok := records[0].Payload.(map[string]interface{})
	require.True(t, ok)
	bkpt, ok := payload["bkpt"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1", bkpt["number"])
	assert.Equal(t, "0x1149", bkpt["addr"])
}

func TestParseMIRecordsClasses(t *testing.T) {
	output := `*stopped,reason="breakpoint-hit"` + "\n" +
		`=thread-created,id="1"` + "\n" +
		`+download,section=".text"` + "\n" +
		`~"console text"` + "\n" +
		"plain output line"

	records := ParseMIRecords(output)
	require.Len(t, records, 3)
	assert.Equal(t, MIExec, records[0].Type)
	assert.Equal(t, "stopped", records[0].Message)
	assert.Equal(t, MINotify, records[1].Type)
	assert.Equal(t, MIStatus, records[2].Type)
}

func TestParseMIRecordsWithToken(t *testing.T) {
	records := ParseMIRecords(`42^done`)
	require.Len(t, records, 1)
	assert.Equal(t, MIResult, records[0].Type)
	assert.Equal(t, "done", records[0].Message)
	assert.Nil(t, records[0].Payload)
}

func TestParseMIRecordsList(t *testing.T) {
	records := ParseMIRecords(`^done,ids=["1","2"],empty=[]`)
	require.Len(t, records, 1)
	payload := records[0].Payload.(map[string]interface{})
	assert.Equal(t, []interface{}{"1", "2"}, payload["ids"])
	assert.Equal(t, []interface{}{}, payload["empty"])
}

func TestParseMIStreamsMergesAdjacent(t *testing.T) {
	output := `~"GNU gdb "` + "\n" +
		`~"(GDB) 13.2 "` + "\n" +
		`~"for x86_64-linux-gnu\n"` + "\n" +
		`&"warning: something\n"` + "\n" +
		`~"more console\n"`

	streams := ParseMIStreams(output)
	require.Len(t, streams, 3)
	assert.Equal(t, MIConsole, streams[0].Type)
	assert.Equal(t, "GNU gdb (GDB) 13.2 for x86_64-linux-gnu\n", streams[0].Payload)
	assert.Equal(t, MILog, streams[1].Type)
	assert.Equal(t, "warning: something\n", streams[1].Payload)
	assert.Equal(t, MIConsole, streams[2].Type)
}

func TestParseMIStreamsEscapes(t *testing.T) {
	streams := ParseMIStreams(`~"tab\there\n"`)
	require.Len(t, streams, 1)
	assert.Equal(t, "tab\there\n", streams[0].Payload)
}

func TestParseMIMixedOutputSeparation(t *testing.T) {
	output := `~"Breakpoint 1 at 0x1149\n"` + "\n" +
		`^done,bkpt={number="1"}` + "\n" +
		"(gdb)"

	records := ParseMIRecords(output)
	streams := ParseMIStreams(output)
	require.Len(t, records, 1)
	require.Len(t, streams, 1)
	assert.Equal(t, MIResult, records[0].Type)
	assert.Equal(t, MIConsole, streams[0].Type)
}

func TestParseMIRecordsIgnoresPlainText(t *testing.T) {
	assert.Empty(t, ParseMIRecords("Breakpoint 1 at 0x1149: file crash.c, line 7."))
	assert.Empty(t, ParseMIStreams("Breakpoint 1 at 0x1149: file crash.c, line 7."))
}

func TestParseMIRecordsIgnoresMarkerLookalikes(t *testing.T) {
	// Ordinary gdb output can start with an MI marker character:
	// disassembly arrows, dereferencing source lines, comparison output.
	// Without a comma-delimited payload these are not MI records.
	assert.Empty(t, ParseMIRecords("=> 0x401000 <main+0>: push %rbp"))
	assert.Empty(t, ParseMIRecords("*p = 1;"))
	assert.Empty(t, ParseMIRecords("*p = f(a, b);"))
	assert.Empty(t, ParseMIRecords("+1 if carry is set"))
}

func TestParseMIStreamsRequireQuotedPayload(t *testing.T) {
	assert.Empty(t, ParseMIStreams("~unquoted text"))
	assert.Empty(t, ParseMIStreams("&x is the log marker here"))
	assert.Empty(t, ParseMIStreams("@0x1000 raw target output"))
}
