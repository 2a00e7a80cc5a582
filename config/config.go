// Package config loads runtime settings for the gdb-mcp server: operating
// mode, output limits, the advanced tool set and the command policy.
// Config files are JSON with comments allowed; a few fields can be
// overridden through environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/tidwall/jsonc"

	"github.com/xhd2015/gdb-mcp/gdb"
)

// Operating modes.
const (
	ModeDefault  = "default"
	ModeAdvanced = "advanced"
)

// Environment variable names.
const (
	EnvConfigPath     = "GDB_MCP_CONFIG"
	EnvMode           = "GDB_MODE"
	EnvModeAlt        = "GDB_MCP_MODE"
	EnvMaxOutputChars = "GDB_MCP_MAX_OUTPUT_CHARS"
)

// DefaultAdvancedTools lists the tools gated to advanced mode.
var DefaultAdvancedTools = []string{
	"gdb_attach",
	"gdb_load_core",
	"gdb_set_watchpoint",
	"gdb_info_threads",
	"gdb_thread_select",
	"gdb_frame_select",
	"gdb_frame_up",
	"gdb_frame_down",
	"gdb_collect_crash_report",
}

const defaultMaxOutputChars = 20000

// Settings is the loaded server configuration.
type Settings struct {
	Mode           string
	MaxOutputChars int
	AdvancedTools  map[string]bool
	CommandPolicy  CommandPolicy
	ConfigPath     string
}

// IsAdvanced reports whether the server runs in advanced mode.
func (s *Settings) IsAdvanced() bool {
	return s.Mode == ModeAdvanced
}

// RequireTool rejects tools gated to advanced mode when the server is not
// running in it.
func (s *Settings) RequireTool(toolName string) error {
	if s.AdvancedTools[toolName] && !s.IsAdvanced() {
		return &gdb.Error{
			Kind: gdb.KindPermission,
			Message: fmt.Sprintf("%s requires advanced mode (current mode: %s). "+
				"Set mode=advanced in %s or %s=advanced.", toolName, s.Mode, s.ConfigPath, EnvMode),
		}
	}
	return nil
}

// ValidateCommand applies the command policy.
func (s *Settings) ValidateCommand(command string) error {
	return s.CommandPolicy.Validate(command)
}

// AdvancedToolNames returns the gated tool names sorted.
func (s *Settings) AdvancedToolNames() []string {
	names := make([]string, 0, len(s.AdvancedTools))
	for name := range s.AdvancedTools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type fileConfig struct {
	Mode           string            `json:"mode"`
	MaxOutputChars *int              `json:"max_output_chars"`
	AdvancedTools  []string          `json:"advanced_tools"`
	CommandPolicy  *filePolicyConfig `json:"command_policy"`
}

type filePolicyConfig struct {
	Mode              string   `json:"mode"`
	AllowPrefixes     []string `json:"allow_prefixes"`
	DenyPrefixes      []string `json:"deny_prefixes"`
	DangerousPrefixes []string `json:"dangerous_prefixes"`
}

// Load reads the config file (if present), applies defaults and
// environment overrides, and returns the effective settings.
func Load() (*Settings, error) {
	path := resolveConfigPath()

	var fc fileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
			if err := json.Unmarshal(jsonc.ToJSON(trimmed), &fc); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	case os.IsNotExist(err):
		// Missing config means defaults.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	mode := strings.ToLower(strings.TrimSpace(fc.Mode))
	if mode == "" {
		mode = ModeDefault
	}
	if mode != ModeDefault && mode != ModeAdvanced {
		return nil, fmt.Errorf("mode must be either %q or %q", ModeDefault, ModeAdvanced)
	}

	maxOutputChars := defaultMaxOutputChars
	if fc.MaxOutputChars != nil {
		maxOutputChars = *fc.MaxOutputChars
	}
	if maxOutputChars <= 0 {
		return nil, fmt.Errorf("max_output_chars must be > 0")
	}

	advanced := normalizeList(fc.AdvancedTools, DefaultAdvancedTools)
	advancedSet := make(map[string]bool, len(advanced))
	for _, name := range advanced {
		advancedSet[name] = true
	}

	policy := CommandPolicy{
		Mode:              PolicyModeDenylist,
		AllowPrefixes:     DefaultAllowPrefixes,
		DenyPrefixes:      DefaultDenyPrefixes,
		DangerousPrefixes: DefaultDangerousPrefixes,
	}
	if fc.CommandPolicy != nil {
		if m := strings.ToLower(strings.TrimSpace(fc.CommandPolicy.Mode)); m != "" {
			policy.Mode = m
		}
		policy.AllowPrefixes = normalizeList(fc.CommandPolicy.AllowPrefixes, DefaultAllowPrefixes)
		policy.DenyPrefixes = normalizeList(fc.CommandPolicy.DenyPrefixes, DefaultDenyPrefixes)
		policy.DangerousPrefixes = normalizeList(fc.CommandPolicy.DangerousPrefixes, DefaultDangerousPrefixes)
	}
	switch policy.Mode {
	case PolicyModeNone, PolicyModeAllowlist, PolicyModeDenylist:
	default:
		return nil, fmt.Errorf("invalid command policy mode: %s", policy.Mode)
	}

	if envMode := firstEnv(EnvMode, EnvModeAlt); envMode != "" {
		mode = strings.ToLower(strings.TrimSpace(envMode))
		if mode != ModeDefault && mode != ModeAdvanced {
			return nil, fmt.Errorf("%s must be either %q or %q", EnvMode, ModeDefault, ModeAdvanced)
		}
	}
	if envMax := os.Getenv(EnvMaxOutputChars); envMax != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(envMax))
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", EnvMaxOutputChars)
		}
		maxOutputChars = parsed
	}

	return &Settings{
		Mode:           mode,
		MaxOutputChars: maxOutputChars,
		AdvancedTools:  advancedSet,
		CommandPolicy:  policy,
		ConfigPath:     path,
	}, nil
}

// Dir returns the per-user gdb-mcp directory.
func Dir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".gdb-mcp"
	}
	return filepath.Join(home, ".gdb-mcp")
}

func resolveConfigPath() string {
	configured := os.Getenv(EnvConfigPath)
	if configured == "" {
		return filepath.Join(Dir(), "config.json")
	}
	if expanded, err := homedir.Expand(configured); err == nil {
		configured = expanded
	}
	if !filepath.IsAbs(configured) {
		if abs, err := filepath.Abs(configured); err == nil {
			configured = abs
		}
	}
	return configured
}

// normalizeList lowercases and trims entries, dropping empty ones; a nil
// list selects the defaults.
func normalizeList(values []string, defaults []string) []string {
	if values == nil {
		return append([]string(nil), defaults...)
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if v := strings.ToLower(strings.TrimSpace(value)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
