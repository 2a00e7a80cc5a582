package install

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// Formats a client config file can use.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Target describes one MCP client's configuration file and where the
// server map lives inside it.
type Target struct {
	Name    string
	Path    string
	Format  string
	KeyPath []string
}

func jsonTarget(name string, dir string, file string, keyPath ...string) Target {
	if len(keyPath) == 0 {
		keyPath = []string{"mcpServers"}
	}
	return Target{Name: name, Path: filepath.Join(dir, file), Format: FormatJSON, KeyPath: keyPath}
}

func tomlTarget(name string, dir string, file string) Target {
	return Target{Name: name, Path: filepath.Join(dir, file), Format: FormatTOML, KeyPath: []string{"mcp_servers"}}
}

// Targets returns the install targets for the current platform.
func Targets() []Target {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "windows":
		appdata := os.Getenv("APPDATA")
		vscodeUser := filepath.Join(appdata, "Code", "User")
		return []Target{
			jsonTarget("Cline", filepath.Join(vscodeUser, "globalStorage", "saoudrizwan.claude-dev", "settings"), "cline_mcp_settings.json"),
			jsonTarget("Roo Code", filepath.Join(vscodeUser, "globalStorage", "rooveterinaryinc.roo-cline", "settings"), "mcp_settings.json"),
			jsonTarget("Kilo Code", filepath.Join(vscodeUser, "globalStorage", "kilocode.kilo-code", "settings"), "mcp_settings.json"),
			jsonTarget("Claude", filepath.Join(appdata, "Claude"), "claude_desktop_config.json"),
			jsonTarget("Cursor", filepath.Join(home, ".cursor"), "mcp.json"),
			jsonTarget("Windsurf", filepath.Join(home, ".codeium", "windsurf"), "mcp_config.json"),
			jsonTarget("Claude Code", home, ".claude.json"),
			jsonTarget("LM Studio", filepath.Join(home, ".lmstudio"), "mcp.json"),
			tomlTarget("Codex", filepath.Join(home, ".codex"), "config.toml"),
			jsonTarget("Zed", filepath.Join(appdata, "Zed"), "settings.json"),
			jsonTarget("Gemini CLI", filepath.Join(home, ".gemini"), "settings.json"),
			jsonTarget("Qwen Coder", filepath.Join(home, ".qwen"), "settings.json"),
			jsonTarget("Copilot CLI", filepath.Join(home, ".copilot"), "mcp-config.json"),
			jsonTarget("Crush", home, "crush.json"),
			jsonTarget("Augment Code", vscodeUser, "settings.json"),
			jsonTarget("Qodo Gen", vscodeUser, "settings.json"),
			jsonTarget("Antigravity IDE", filepath.Join(home, ".gemini", "antigravity"), "mcp_config.json"),
			jsonTarget("Warp", filepath.Join(home, ".warp"), "mcp_config.json"),
			jsonTarget("Amazon Q", filepath.Join(home, ".aws", "amazonq"), "mcp_config.json"),
			jsonTarget("Opencode", filepath.Join(home, ".opencode"), "mcp_config.json"),
			jsonTarget("Kiro", filepath.Join(home, ".kiro"), "mcp_config.json"),
			jsonTarget("Trae", filepath.Join(home, ".trae"), "mcp_config.json"),
			jsonTarget("VS Code", vscodeUser, "settings.json", "mcp", "servers"),
		}
	case "darwin":
		appSupport := filepath.Join(home, "Library", "Application Support")
		vscodeUser := filepath.Join(appSupport, "Code", "User")
		return []Target{
			jsonTarget("Cline", filepath.Join(vscodeUser, "globalStorage", "saoudrizwan.claude-dev", "settings"), "cline_mcp_settings.json"),
			jsonTarget("Roo Code", filepath.Join(vscodeUser, "globalStorage", "rooveterinaryinc.roo-cline", "settings"), "mcp_settings.json"),
			jsonTarget("Kilo Code", filepath.Join(vscodeUser, "globalStorage", "kilocode.kilo-code", "settings"), "mcp_settings.json"),
			jsonTarget("Claude", filepath.Join(appSupport, "Claude"), "claude_desktop_config.json"),
			jsonTarget("Cursor", filepath.Join(home, ".cursor"), "mcp.json"),
			jsonTarget("Windsurf", filepath.Join(home, ".codeium", "windsurf"), "mcp_config.json"),
			jsonTarget("Claude Code", home, ".claude.json"),
			jsonTarget("LM Studio", filepath.Join(home, ".lmstudio"), "mcp.json"),
			tomlTarget("Codex", filepath.Join(home, ".codex"), "config.toml"),
			jsonTarget("Antigravity IDE", filepath.Join(home, ".gemini", "antigravity"), "mcp_config.json"),
			jsonTarget("Zed", filepath.Join(appSupport, "Zed"), "settings.json"),
			jsonTarget("Gemini CLI", filepath.Join(home, ".gemini"), "settings.json"),
			jsonTarget("Qwen Coder", filepath.Join(home, ".qwen"), "settings.json"),
			jsonTarget("Copilot CLI", filepath.Join(home, ".copilot"), "mcp-config.json"),
			jsonTarget("Crush", home, "crush.json"),
			jsonTarget("Augment Code", vscodeUser, "settings.json"),
			jsonTarget("Qodo Gen", vscodeUser, "settings.json"),
			jsonTarget("BoltAI", filepath.Join(appSupport, "BoltAI"), "config.json"),
			jsonTarget("Perplexity", filepath.Join(appSupport, "Perplexity"), "mcp_config.json"),
			jsonTarget("Warp", filepath.Join(home, ".warp"), "mcp_config.json"),
			jsonTarget("Amazon Q", filepath.Join(home, ".aws", "amazonq"), "mcp_config.json"),
			jsonTarget("Opencode", filepath.Join(home, ".opencode"), "mcp_config.json"),
			jsonTarget("Kiro", filepath.Join(home, ".kiro"), "mcp_config.json"),
			jsonTarget("Trae", filepath.Join(home, ".trae"), "mcp_config.json"),
			jsonTarget("VS Code", vscodeUser, "settings.json", "mcp", "servers"),
		}
	case "linux":
		configDir := filepath.Join(home, ".config")
		vscodeUser := filepath.Join(configDir, "Code", "User")
		return []Target{
			jsonTarget("Cline", filepath.Join(vscodeUser, "globalStorage", "saoudrizwan.claude-dev", "settings"), "cline_mcp_settings.json"),
			jsonTarget("Roo Code", filepath.Join(vscodeUser, "globalStorage", "rooveterinaryinc.roo-cline", "settings"), "mcp_settings.json"),
			jsonTarget("Kilo Code", filepath.Join(vscodeUser, "globalStorage", "kilocode.kilo-code", "settings"), "mcp_settings.json"),
			jsonTarget("Cursor", filepath.Join(home, ".cursor"), "mcp.json"),
			jsonTarget("Windsurf", filepath.Join(home, ".codeium", "windsurf"), "mcp_config.json"),
			jsonTarget("Claude Code", home, ".claude.json"),
			jsonTarget("LM Studio", filepath.Join(home, ".lmstudio"), "mcp.json"),
			tomlTarget("Codex", filepath.Join(home, ".codex"), "config.toml"),
			jsonTarget("Antigravity IDE", filepath.Join(home, ".gemini", "antigravity"), "mcp_config.json"),
			jsonTarget("Zed", filepath.Join(configDir, "zed"), "settings.json"),
			jsonTarget("Gemini CLI", filepath.Join(home, ".gemini"), "settings.json"),
			jsonTarget("Qwen Coder", filepath.Join(home, ".qwen"), "settings.json"),
			jsonTarget("Copilot CLI", filepath.Join(home, ".copilot"), "mcp-config.json"),
			jsonTarget("Crush", home, "crush.json"),
			jsonTarget("Augment Code", vscodeUser, "settings.json"),
			jsonTarget("Qodo Gen", vscodeUser, "settings.json"),
			jsonTarget("Warp", filepath.Join(home, ".warp"), "mcp_config.json"),
			jsonTarget("Amazon Q", filepath.Join(home, ".aws", "amazonq"), "mcp_config.json"),
			jsonTarget("Opencode", filepath.Join(home, ".opencode"), "mcp_config.json"),
			jsonTarget("Kiro", filepath.Join(home, ".kiro"), "mcp_config.json"),
			jsonTarget("Trae", filepath.Join(home, ".trae"), "mcp_config.json"),
			jsonTarget("VS Code", vscodeUser, "settings.json", "mcp", "servers"),
		}
	}
	return []Target{
		tomlTarget("Codex", filepath.Join(home, ".codex"), "config.toml"),
	}
}
