// Package install writes gdb-mcp server entries into the configuration
// files of known MCP clients. JSON files are edited in place with
// gjson/sjson so untouched keys and formatting survive; TOML files go
// through a decode/patch/encode cycle.
package install

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/xhd2015/gdb-mcp/logging"
)

// Result describes the outcome for one client.
type Result struct {
	Client string `json:"client"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ServerConfig returns the stdio launch entry written into client configs.
func ServerConfig() map[string]interface{} {
	exe, err := os.Executable()
	if err != nil {
		exe = "gdb-mcp"
	}
	return map[string]interface{}{
		"command": exe,
		"args":    []string{"serve"},
	}
}

// SelectTargets filters the platform targets down to the requested client
// names (case-insensitive). An empty request selects everything.
func SelectTargets(clients []string) ([]Target, error) {
	targets := Targets()
	if len(clients) == 0 {
		return targets, nil
	}

	requested := make(map[string]bool)
	for _, name := range clients {
		if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
			requested[n] = true
		}
	}
	valid := make(map[string]bool, len(targets))
	for _, target := range targets {
		valid[strings.ToLower(target.Name)] = true
	}
	var unknown []string
	for name := range requested {
		if !valid[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		names := make([]string, 0, len(targets))
		for _, target := range targets {
			names = append(names, target.Name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown client(s): %s. Valid: %s",
			strings.Join(unknown, ", "), strings.Join(names, ", "))
	}

	var selected []Target
	for _, target := range targets {
		if requested[strings.ToLower(target.Name)] {
			selected = append(selected, target)
		}
	}
	return selected, nil
}

// Install writes the server entry into every selected client config.
func Install(serverName string, quiet bool, clients []string) ([]Result, error) {
	targets, err := SelectTargets(clients)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if _, err := os.Stat(filepath.Dir(target.Path)); err != nil {
			results = append(results, Result{Client: target.Name, Status: "skipped", Reason: "config dir not found"})
			continue
		}
		changed, err := installTarget(target, serverName)
		if err != nil {
			results = append(results, Result{Client: target.Name, Status: "failed", Reason: err.Error()})
			continue
		}
		status := "unchanged"
		if changed {
			status = "installed"
		}
		results = append(results, Result{Client: target.Name, Status: status, Path: target.Path})
		if !quiet {
			logging.Logger.Info().Str("client", target.Name).Str("status", status).Str("path", target.Path).Msg("install")
		}
	}
	return results, nil
}

// Uninstall removes the server entry from every selected client config.
func Uninstall(serverName string, quiet bool, clients []string) ([]Result, error) {
	targets, err := SelectTargets(clients)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if _, err := os.Stat(target.Path); err != nil {
			results = append(results, Result{Client: target.Name, Status: "skipped", Reason: "config file not found"})
			continue
		}
		changed, err := uninstallTarget(target, serverName)
		if err != nil {
			results = append(results, Result{Client: target.Name, Status: "failed", Reason: err.Error()})
			continue
		}
		status := "not-installed"
		if changed {
			status = "uninstalled"
		}
		results = append(results, Result{Client: target.Name, Status: status, Path: target.Path})
		if !quiet {
			logging.Logger.Info().Str("client", target.Name).Str("status", status).Str("path", target.Path).Msg("uninstall")
		}
	}
	return results, nil
}

func installTarget(target Target, serverName string) (bool, error) {
	switch target.Format {
	case FormatTOML:
		return patchTOML(target, serverName, false)
	default:
		return patchJSON(target, serverName, false)
	}
}

func uninstallTarget(target Target, serverName string) (bool, error) {
	switch target.Format {
	case FormatTOML:
		return patchTOML(target, serverName, true)
	default:
		return patchJSON(target, serverName, true)
	}
}

func patchJSON(target Target, serverName string, uninstall bool) (bool, error) {
	data, err := os.ReadFile(target.Path)
	if os.IsNotExist(err) || (err == nil && len(bytes.TrimSpace(data)) == 0) {
		data = []byte("{}")
	} else if err != nil {
		return false, err
	}
	if !gjson.ValidBytes(data) {
		return false, fmt.Errorf("invalid config: %s", target.Path)
	}

	key := sjsonPath(target.KeyPath, serverName)
	existing := gjson.GetBytes(data, key)

	if uninstall {
		if !existing.Exists() {
			return false, nil
		}
		updated, err := sjson.DeleteBytes(data, key)
		if err != nil {
			return false, err
		}
		return true, writeAtomic(target.Path, updated)
	}

	desired := ServerConfig()
	if existing.Exists() && sameJSON(existing.Raw, desired) {
		return false, nil
	}
	updated, err := sjson.SetBytes(data, key, desired)
	if err != nil {
		return false, err
	}
	return true, writeAtomic(target.Path, updated)
}

func patchTOML(target Target, serverName string, uninstall bool) (bool, error) {
	config := map[string]interface{}{}
	data, err := os.ReadFile(target.Path)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		if err := toml.Unmarshal(data, &config); err != nil {
			return false, fmt.Errorf("invalid config: %v", err)
		}
	} else if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	servers, err := ensureNested(config, target.KeyPath)
	if err != nil {
		return false, err
	}

	if uninstall {
		if _, ok := servers[serverName]; !ok {
			return false, nil
		}
		delete(servers, serverName)
	} else {
		servers[serverName] = ServerConfig()
	}

	encoded, err := toml.Marshal(config)
	if err != nil {
		return false, err
	}
	return true, writeAtomic(target.Path, encoded)
}

func ensureNested(config map[string]interface{}, keyPath []string) (map[string]interface{}, error) {
	cursor := config
	for _, key := range keyPath {
		value, ok := cursor[key]
		if !ok || value == nil {
			next := map[string]interface{}{}
			cursor[key] = next
			cursor = next
			continue
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("config key %s exists but is not a table", strings.Join(keyPath, "."))
		}
		cursor = next
	}
	return cursor, nil
}

func sjsonPath(keyPath []string, serverName string) string {
	parts := make([]string, 0, len(keyPath)+1)
	for _, key := range append(append([]string{}, keyPath...), serverName) {
		parts = append(parts, strings.ReplaceAll(key, ".", `\.`))
	}
	return strings.Join(parts, ".")
}

func sameJSON(raw string, desired interface{}) bool {
	want, err := json.Marshal(desired)
	if err != nil {
		return false
	}
	var a, b interface{}
	if json.Unmarshal([]byte(raw), &a) != nil || json.Unmarshal(want, &b) != nil {
		return false
	}
	ca, err := json.Marshal(a)
	if err != nil {
		return false
	}
	cb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp_*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// RenderManualConfig prints JSON and TOML snippets for manual setup.
func RenderManualConfig(serverName string) string {
	jsonPayload := map[string]interface{}{
		"mcpServers": map[string]interface{}{serverName: ServerConfig()},
	}
	tomlPayload := map[string]interface{}{
		"mcp_servers": map[string]interface{}{serverName: ServerConfig()},
	}
	jsonText, _ := json.MarshalIndent(jsonPayload, "", "  ")
	tomlText, _ := toml.Marshal(tomlPayload)
	return "[JSON config]\n" + string(jsonText) + "\n\n[TOML config]\n" + string(tomlText)
}

// DetectEnvironment reports the tool's runtime prerequisites and which
// client configuration directories exist on this machine.
func DetectEnvironment() map[string]interface{} {
	exe, err := os.Executable()
	if err != nil {
		exe = ""
	}
	gdbPath, err := exec.LookPath("gdb")
	if err != nil {
		gdbPath = ""
	}
	var available []string
	for _, target := range Targets() {
		if _, err := os.Stat(filepath.Dir(target.Path)); err == nil {
			available = append(available, target.Name)
		}
	}
	return map[string]interface{}{
		"executable":        exe,
		"gdb":               gdbPath,
		"platform":          runtime.GOOS,
		"available_clients": available,
	}
}
