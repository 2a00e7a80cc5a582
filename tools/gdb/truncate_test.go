package gdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePayloadClipsLongStrings(t *testing.T) {
	long := strings.Repeat("a", 100)
	out := truncatePayload(long, 10).(string)
	assert.Equal(t, strings.Repeat("a", 10)+truncationMarker, out)
}

func TestTruncatePayloadShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "short", truncatePayload("short", 10))
}

func TestTruncatePayloadRecursesNestedValues(t *testing.T) {
	long := strings.Repeat("x", 50)
	payload := map[string]interface{}{
		"output": long,
		"nested": map[string]interface{}{"inner": long},
		"list":   []interface{}{long, "ok", 3.0, true},
	}
	out := truncatePayload(payload, 5).(map[string]interface{})
	assert.Equal(t, "xxxxx"+truncationMarker, out["output"])
	assert.Equal(t, "xxxxx"+truncationMarker, out["nested"].(map[string]interface{})["inner"])
	list := out["list"].([]interface{})
	assert.Equal(t, "xxxxx"+truncationMarker, list[0])
	assert.Equal(t, "ok", list[1])
	assert.Equal(t, 3.0, list[2])
	assert.Equal(t, true, list[3])
}

func TestTruncatePayloadDisabled(t *testing.T) {
	long := strings.Repeat("a", 100)
	assert.Equal(t, long, truncatePayload(long, 0))
}

func TestTruncatePayloadCountsRunes(t *testing.T) {
	out := truncatePayload(strings.Repeat("日", 20), 5).(string)
	assert.Equal(t, strings.Repeat("日", 5)+truncationMarker, out)
}
