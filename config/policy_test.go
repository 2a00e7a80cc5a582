package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhd2015/gdb-mcp/gdb"
)

func defaultPolicy(mode string) CommandPolicy {
	return CommandPolicy{
		Mode:              mode,
		AllowPrefixes:     DefaultAllowPrefixes,
		DenyPrefixes:      DefaultDenyPrefixes,
		DangerousPrefixes: DefaultDangerousPrefixes,
	}
}

func assertPolicyKind(t *testing.T, err error, kind gdb.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := gdb.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, kind, got)
}

func TestPolicyDenylistBlocksShellEscapes(t *testing.T) {
	policy := defaultPolicy(PolicyModeDenylist)

	for _, command := range []string{
		"shell rm -rf /",
		"!ls",
		"python print(1)",
		"pi 1+1",
		"source evil.gdb",
		"define hook",
		"SHELL echo upper",
	} {
		assertPolicyKind(t, policy.Validate(command), gdb.KindPermission)
	}

	assert.NoError(t, policy.Validate("info registers"))
	assert.NoError(t, policy.Validate("break main"))
}

func TestPolicyDangerousPrefixesUnconditional(t *testing.T) {
	for _, mode := range []string{PolicyModeNone, PolicyModeAllowlist, PolicyModeDenylist} {
		policy := defaultPolicy(mode)
		policy.AllowPrefixes = []string{"call", "jump", "info"}

		for _, command := range []string{
			"call exit(0)",
			"jump *0x1000",
			"return 0",
			"signal SIGKILL",
			"set {int}0x1000 = 1",
			"set *0x1000 = 1",
		} {
			assertPolicyKind(t, policy.Validate(command), gdb.KindPermission)
		}
	}
}

func TestPolicyAllowlist(t *testing.T) {
	policy := defaultPolicy(PolicyModeAllowlist)
	policy.AllowPrefixes = []string{"info", "break"}

	assert.NoError(t, policy.Validate("info registers"))
	assert.NoError(t, policy.Validate("break main"))
	assertPolicyKind(t, policy.Validate("continue"), gdb.KindPermission)
	assert.Contains(t, policy.Validate("continue").Error(), "info, break")
}

func TestPolicyNoneAllowsDeniedPrefixes(t *testing.T) {
	policy := defaultPolicy(PolicyModeNone)
	assert.NoError(t, policy.Validate("shell echo hi"))
}

func TestPolicyEmptyCommand(t *testing.T) {
	policy := defaultPolicy(PolicyModeDenylist)
	assertPolicyKind(t, policy.Validate("   "), gdb.KindValidation)
}

func TestPolicyUnknownMode(t *testing.T) {
	policy := defaultPolicy("sideways")
	assertPolicyKind(t, policy.Validate("info registers"), gdb.KindValidation)
}

func TestPolicySetCommandNotOverblocked(t *testing.T) {
	// Plain `set var` style commands are fine; only the raw-memory forms
	// are dangerous.
	policy := defaultPolicy(PolicyModeDenylist)
	assert.NoError(t, policy.Validate("set pagination off"))
	assert.NoError(t, policy.Validate("set args a b"))
}
