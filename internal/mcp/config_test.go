package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempManager(t *testing.T) *ConfigManager {
	t.Helper()
	return NewConfigManager(filepath.Join(t.TempDir(), "mcp-config.json"))
}

func TestConfigManagerAddAndListSorted(t *testing.T) {
	m := tempManager(t)

	if err := m.AddServer(ServerConfig{Name: "zeta", Command: "npx", Args: []string{"zeta-server"}, Enabled: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.AddServer(ServerConfig{Name: "alpha", Command: "uvx", Enabled: false}); err != nil {
		t.Fatalf("add: %v", err)
	}

	servers, err := m.ListServers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}
	if servers[0].Name != "alpha" || servers[1].Name != "zeta" {
		t.Fatalf("not sorted: %+v", servers)
	}
	if servers[0].Enabled || !servers[1].Enabled {
		t.Fatalf("enabled flags wrong: %+v", servers)
	}
}

func TestConfigManagerAddDuplicateFails(t *testing.T) {
	m := tempManager(t)
	if err := m.AddServer(ServerConfig{Name: "dup", Command: "x", Enabled: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.AddServer(ServerConfig{Name: "dup", Command: "y", Enabled: true}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestConfigManagerUpdateRenames(t *testing.T) {
	m := tempManager(t)
	if err := m.AddServer(ServerConfig{Name: "old", Command: "x", Enabled: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.UpdateServer("old", ServerConfig{Name: "new", Command: "y", Enabled: true}); err != nil {
		t.Fatalf("update: %v", err)
	}

	servers, _ := m.ListServers()
	if len(servers) != 1 || servers[0].Name != "new" || servers[0].Command != "y" {
		t.Fatalf("rename failed: %+v", servers)
	}
}

func TestConfigManagerDeleteAndToggle(t *testing.T) {
	m := tempManager(t)
	if err := m.AddServer(ServerConfig{Name: "srv", Command: "x", Enabled: true}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := m.ToggleServer("srv", false); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	servers, _ := m.ListServers()
	if servers[0].Enabled {
		t.Fatalf("toggle off failed")
	}

	if err := m.DeleteServer("srv"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteServer("srv"); err == nil {
		t.Fatalf("expected not-found on second delete")
	}
	if err := m.ToggleServer("srv", true); err == nil {
		t.Fatalf("expected not-found toggling deleted server")
	}
}

func TestConfigManagerDiskFormatMatchesCopilotCLI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp-config.json")
	m := NewConfigManager(path)
	if err := m.AddServer(ServerConfig{
		Name:    "files",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-filesystem"},
		Env:     map[string]string{"ROOT": "/src"},
		Enabled: false,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entry, ok := raw["mcpServers"]["files"]
	if !ok {
		t.Fatalf("mcpServers.files missing: %s", data)
	}
	if entry["command"] != "npx" {
		t.Fatalf("command field wrong: %v", entry)
	}
	if entry["disabled"] != true {
		t.Fatalf("disabled flag not written: %v", entry)
	}
}

func TestConfigManagerMissingFileListsEmpty(t *testing.T) {
	m := tempManager(t)
	servers, err := m.ListServers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(servers) != 0 {
		t.Fatalf("expected empty, got %+v", servers)
	}
}
