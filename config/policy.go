package config

import (
	"fmt"
	"strings"

	"github.com/xhd2015/gdb-mcp/gdb"
)

// Command policy modes.
const (
	PolicyModeNone      = "none"
	PolicyModeAllowlist = "allowlist"
	PolicyModeDenylist  = "denylist"
)

// Default prefix sets. Denied prefixes reach shell execution or gdb's
// scripting surface; dangerous prefixes alter inferior state or control
// flow and are rejected in every mode.
var (
	DefaultAllowPrefixes = []string{}
	DefaultDenyPrefixes  = []string{
		"shell",
		"!",
		"python",
		"pi",
		"source",
		"define",
		"document",
	}
	DefaultDangerousPrefixes = []string{
		"call",
		"jump",
		"return",
		"signal",
		"set {",
		"set *",
	}
)

// CommandPolicy validates raw commands against allow/deny/dangerous prefix
// rules before they reach the gdb process.
type CommandPolicy struct {
	Mode              string   `json:"mode"`
	AllowPrefixes     []string `json:"allow_prefixes"`
	DenyPrefixes      []string `json:"deny_prefixes"`
	DangerousPrefixes []string `json:"dangerous_prefixes"`
}

// Validate rejects commands the policy does not permit. The dangerous
// prefix check is unconditional and cannot be bypassed by mode selection.
func (p CommandPolicy) Validate(command string) error {
	normalized := strings.ToLower(strings.TrimSpace(command))
	if normalized == "" {
		return &gdb.Error{Kind: gdb.KindValidation, Message: "command must not be empty"}
	}

	switch p.Mode {
	case PolicyModeAllowlist:
		if !hasAnyPrefix(normalized, p.AllowPrefixes) {
			return &gdb.Error{
				Kind: gdb.KindPermission,
				Message: fmt.Sprintf("command blocked by allowlist policy: %q. Allowed prefixes: %s",
					command, strings.Join(p.AllowPrefixes, ", ")),
			}
		}
	case PolicyModeDenylist:
		if hasAnyPrefix(normalized, p.DenyPrefixes) {
			return &gdb.Error{
				Kind:    gdb.KindPermission,
				Message: fmt.Sprintf("command blocked by denylist policy: %q", command),
			}
		}
	case PolicyModeNone:
	default:
		return &gdb.Error{
			Kind:    gdb.KindValidation,
			Message: fmt.Sprintf("invalid command policy mode: %s", p.Mode),
		}
	}

	if hasAnyPrefix(normalized, p.DangerousPrefixes) {
		return &gdb.Error{
			Kind:    gdb.KindPermission,
			Message: fmt.Sprintf("dangerous command is disabled by policy: %q", command),
		}
	}
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
