// Package mcp manages the copilot CLI's MCP server configuration and
// exposes stored transcripts over an MCP server of its own.
package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ServerConfig is one configured MCP server as shown to the UI.
type ServerConfig struct {
	Name    string            `json:"name"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Enabled bool              `json:"enabled"`
}

// On-disk format shared with the copilot CLI:
// {"mcpServers": {"<name>": {"command", "args", "env", "disabled"}}}
type configFile struct {
	McpServers map[string]serverEntry `json:"mcpServers"`
}

type serverEntry struct {
	Command  string            `json:"command"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// ConfigManager does CRUD over the copilot MCP config file.
type ConfigManager struct {
	mu   sync.Mutex
	path string
}

// DefaultConfigPath is ~/.copilot/mcp-config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".copilot", "mcp-config.json")
	}
	return filepath.Join(home, ".copilot", "mcp-config.json")
}

func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &ConfigManager{path: path}
}

func (m *ConfigManager) read() (configFile, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return configFile{McpServers: map[string]serverEntry{}}, nil
		}
		return configFile{}, err
	}
	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return configFile{}, fmt.Errorf("invalid MCP config: %w", err)
	}
	if cfg.McpServers == nil {
		cfg.McpServers = map[string]serverEntry{}
	}
	return cfg, nil
}

func (m *ConfigManager) write(cfg configFile) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// ListServers returns configured servers sorted by name.
func (m *ConfigManager) ListServers() ([]ServerConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, err := m.read()
	if err != nil {
		return nil, err
	}
	servers := make([]ServerConfig, 0, len(cfg.McpServers))
	for name, entry := range cfg.McpServers {
		servers = append(servers, ServerConfig{
			Name:    name,
			Command: entry.Command,
			Args:    entry.Args,
			Env:     entry.Env,
			Enabled: !entry.Disabled,
		})
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers, nil
}

func (m *ConfigManager) AddServer(server ServerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, err := m.read()
	if err != nil {
		return err
	}
	if _, exists := cfg.McpServers[server.Name]; exists {
		return fmt.Errorf("MCP server %q already exists", server.Name)
	}
	cfg.McpServers[server.Name] = serverEntry{
		Command:  server.Command,
		Args:     server.Args,
		Env:      server.Env,
		Disabled: !server.Enabled,
	}
	return m.write(cfg)
}

// UpdateServer replaces the entry under name; a changed server.Name
// renames it.
func (m *ConfigManager) UpdateServer(name string, server ServerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, err := m.read()
	if err != nil {
		return err
	}
	if _, exists := cfg.McpServers[name]; !exists {
		return fmt.Errorf("MCP server %q not found", name)
	}
	if name != server.Name {
		delete(cfg.McpServers, name)
	}
	cfg.McpServers[server.Name] = serverEntry{
		Command:  server.Command,
		Args:     server.Args,
		Env:      server.Env,
		Disabled: !server.Enabled,
	}
	return m.write(cfg)
}

func (m *ConfigManager) DeleteServer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, err := m.read()
	if err != nil {
		return err
	}
	if _, exists := cfg.McpServers[name]; !exists {
		return fmt.Errorf("MCP server %q not found", name)
	}
	delete(cfg.McpServers, name)
	return m.write(cfg)
}

func (m *ConfigManager) ToggleServer(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, err := m.read()
	if err != nil {
		return err
	}
	entry, exists := cfg.McpServers[name]
	if !exists {
		return fmt.Errorf("MCP server %q not found", name)
	}
	entry.Disabled = !enabled
	cfg.McpServers[name] = entry
	return m.write(cfg)
}
