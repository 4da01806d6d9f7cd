package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CopilotPath    string   `yaml:"copilot_path"`
	DefaultModel   string   `yaml:"default_model"`
	DefaultMode    string   `yaml:"mode"`
	Theme          string   `yaml:"theme"`
	RecentProjects []string `yaml:"recent_projects"`
	SendOnEnter    bool     `yaml:"send_on_enter"`
	AutoScroll     bool     `yaml:"auto_scroll"`
	StorageRoot    string   `yaml:"storage_root"`
}

const maxRecentProjects = 10

func DefaultConfig() Config {
	return Config{
		Theme:       "dark",
		DefaultMode: string(ModeSuggest),
		SendOnEnter: true,
		AutoScroll:  true,
	}
}

// DefaultConfigPath is ~/.config/copilot-term/config.yaml, honoring
// XDG_CONFIG_HOME when set.
func DefaultConfigPath() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "copilot-term", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "copilot-term", "config.yaml")
	}
	return filepath.Join(os.TempDir(), "copilot-term", "config.yaml")
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	if _, ok := ParseMode(cfg.DefaultMode); !ok {
		cfg.DefaultMode = string(ModeSuggest)
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RememberProject moves dir to the front of the recent list, dropping
// duplicates and anything beyond the cap.
func (c *Config) RememberProject(dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	recent := make([]string, 0, len(c.RecentProjects)+1)
	recent = append(recent, dir)
	for _, p := range c.RecentProjects {
		if p != dir {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}
