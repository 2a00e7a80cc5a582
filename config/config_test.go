package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhd2015/gdb-mcp/gdb"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvConfigPath, path)
	return path
}

func clearModeEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvMode, "")
	t.Setenv(EnvModeAlt, "")
	t.Setenv(EnvMaxOutputChars, "")
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	clearModeEnv(t)
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.json"))

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, settings.Mode)
	assert.False(t, settings.IsAdvanced())
	assert.Equal(t, 20000, settings.MaxOutputChars)
	assert.Equal(t, PolicyModeDenylist, settings.CommandPolicy.Mode)
	assert.True(t, settings.AdvancedTools["gdb_attach"])
	assert.True(t, settings.AdvancedTools["gdb_collect_crash_report"])
}

func TestLoadConfigFileWithComments(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{
  // operating mode
  "mode": "advanced",
  "max_output_chars": 500,
  "command_policy": {
    "mode": "allowlist",
    "allow_prefixes": ["info", "break"]
  }
}`)

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeAdvanced, settings.Mode)
	assert.True(t, settings.IsAdvanced())
	assert.Equal(t, 500, settings.MaxOutputChars)
	assert.Equal(t, PolicyModeAllowlist, settings.CommandPolicy.Mode)
	assert.Equal(t, []string{"info", "break"}, settings.CommandPolicy.AllowPrefixes)
	// Unset lists keep the defaults.
	assert.Equal(t, DefaultDenyPrefixes, settings.CommandPolicy.DenyPrefixes)
}

func TestLoadEnvOverridesMode(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{"mode": "default"}`)
	t.Setenv(EnvMode, "advanced")

	settings, err := Load()
	require.NoError(t, err)
	assert.True(t, settings.IsAdvanced())
}

func TestLoadEnvModeAlias(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{}`)
	t.Setenv(EnvModeAlt, "advanced")

	settings, err := Load()
	require.NoError(t, err)
	assert.True(t, settings.IsAdvanced())
}

func TestLoadEnvOverridesMaxOutputChars(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{"max_output_chars": 500}`)
	t.Setenv(EnvMaxOutputChars, "100")

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, settings.MaxOutputChars)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearModeEnv(t)

	writeConfig(t, `{"mode": "sideways"}`)
	_, err := Load()
	assert.Error(t, err)

	writeConfig(t, `{"max_output_chars": 0}`)
	_, err = Load()
	assert.Error(t, err)

	writeConfig(t, `{"command_policy": {"mode": "sideways"}}`)
	_, err = Load()
	assert.Error(t, err)

	writeConfig(t, `{not json at all`)
	_, err = Load()
	assert.Error(t, err)

	writeConfig(t, `{}`)
	t.Setenv(EnvMaxOutputChars, "zero")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadCustomAdvancedTools(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{"advanced_tools": ["gdb_attach"]}`)

	settings, err := Load()
	require.NoError(t, err)
	assert.True(t, settings.AdvancedTools["gdb_attach"])
	assert.False(t, settings.AdvancedTools["gdb_load_core"])
	assert.Equal(t, []string{"gdb_attach"}, settings.AdvancedToolNames())
}

func TestRequireToolGating(t *testing.T) {
	clearModeEnv(t)
	writeConfig(t, `{}`)

	settings, err := Load()
	require.NoError(t, err)

	err = settings.RequireTool("gdb_attach")
	require.Error(t, err)
	kind, ok := gdb.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, gdb.KindPermission, kind)
	assert.Contains(t, err.Error(), "advanced mode")

	assert.NoError(t, settings.RequireTool("gdb_backtrace"))

	settings.Mode = ModeAdvanced
	assert.NoError(t, settings.RequireTool("gdb_attach"))
}
