package gdb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesPartial(t *testing.T) {
	err := &Error{Kind: KindTimeout, Message: "command timeout", Partial: "some output"}
	assert.Equal(t, "command timeout. Partial output:\nsome output", err.Error())

	bare := &Error{Kind: KindSession, Message: "session gone"}
	assert.Equal(t, "session gone", bare.Error())
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", newError(KindNotFound, "missing"))
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)

	_, ok = KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}
