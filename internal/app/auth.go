package app

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// copilotConfigPath is ~/.copilot/config.json, the file the copilot CLI
// writes its login state and default model into.
func copilotConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".copilot", "config.json")
}

type copilotConfig struct {
	LoggedInUsers []struct {
		Login string `json:"login"`
	} `json:"logged_in_users"`
	Model string `json:"model"`
}

func readCopilotConfig() (copilotConfig, bool) {
	path := copilotConfigPath()
	if path == "" {
		return copilotConfig{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return copilotConfig{}, false
	}
	var cfg copilotConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return copilotConfig{}, false
	}
	return cfg, true
}

// CheckAuth reports whether the copilot CLI has a logged-in user. Login
// itself happens through the CLI (`/login` over the prompt channel); this
// only observes the result.
func CheckAuth() AuthStatus {
	cfg, ok := readCopilotConfig()
	if !ok || len(cfg.LoggedInUsers) == 0 {
		return AuthStatus{}
	}
	return AuthStatus{
		Authenticated: true,
		Username:      cfg.LoggedInUsers[0].Login,
	}
}
