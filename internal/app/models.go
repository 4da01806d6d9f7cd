package app

// AvailableModels is the current copilot CLI model catalog. The CLI does
// not expose a listing command, so the picker carries it statically.
func AvailableModels() []ModelInfo {
	return []ModelInfo{
		{ID: "claude-sonnet-4.5", Name: "Claude Sonnet 4.5", Provider: "Anthropic", Description: "Best balance of speed and intelligence"},
		{ID: "claude-haiku-4.5", Name: "Claude Haiku 4.5", Provider: "Anthropic", Description: "Fast and lightweight"},
		{ID: "claude-opus-4.6", Name: "Claude Opus 4.6", Provider: "Anthropic", Description: "Most capable Anthropic model"},
		{ID: "claude-opus-4.5", Name: "Claude Opus 4.5", Provider: "Anthropic", Description: "Previous generation flagship"},
		{ID: "claude-sonnet-4", Name: "Claude Sonnet 4", Provider: "Anthropic", Description: "Fast and capable"},
		{ID: "gemini-3-pro-preview", Name: "Gemini 3 Pro", Provider: "Google", Description: "Preview of Google's latest"},
		{ID: "gpt-5.2-codex", Name: "GPT-5.2 Codex", Provider: "OpenAI", Description: "Latest codex model"},
		{ID: "gpt-5.2", Name: "GPT-5.2", Provider: "OpenAI", Description: "Latest GPT model"},
		{ID: "gpt-5.1-codex", Name: "GPT-5.1 Codex", Provider: "OpenAI", Description: "Codex optimized"},
		{ID: "gpt-5.1", Name: "GPT-5.1", Provider: "OpenAI", Description: "GPT-5.1 generation"},
		{ID: "gpt-5", Name: "GPT-5", Provider: "OpenAI", Description: "OpenAI flagship"},
		{ID: "gpt-5-mini", Name: "GPT-5 Mini", Provider: "OpenAI", Description: "Small and efficient"},
		{ID: "gpt-4.1", Name: "GPT-4.1", Provider: "OpenAI", Description: "Previous generation"},
	}
}

// DefaultModel resolves the model a new session should start with: the
// copilot CLI's own configured model when present, else the catalog head.
func DefaultModel() string {
	if cfg, ok := readCopilotConfig(); ok && cfg.Model != "" {
		return cfg.Model
	}
	return AvailableModels()[0].ID
}
