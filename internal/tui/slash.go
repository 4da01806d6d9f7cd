package tui

import (
	"strings"

	"github.com/muesli/reflow/truncate"
)

type slashItem struct {
	Label       string
	Description string
	InsertText  string
}

// slashCommands are the copilot CLI commands surfaced in the popup.
// Local commands (handled by the TUI itself) sit alongside the ones
// forwarded straight to the backend process.
var slashCommands = []slashItem{
	{Label: "/login", Description: "sign in to GitHub Copilot", InsertText: "/login"},
	{Label: "/logout", Description: "sign out", InsertText: "/logout"},
	{Label: "/usage", Description: "show quota and usage", InsertText: "/usage"},
	{Label: "/model", Description: "pick a model for this session", InsertText: "/model "},
	{Label: "/mode", Description: "set autonomy: suggest, autoedit, autopilot", InsertText: "/mode "},
	{Label: "/clear", Description: "clear this session's transcript", InsertText: "/clear"},
	{Label: "/quit", Description: "exit copilot-term", InsertText: "/quit"},
}

// slashPopupItems returns the commands matching the current input, or
// nil when the popup should be hidden.
func (m *Model) slashPopupItems() []slashItem {
	raw := strings.TrimLeft(m.input.Value(), " \t")
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return nil
	}
	if strings.ContainsAny(raw, "\n\r") {
		return nil
	}
	// Once a command has an argument the popup is done helping.
	if strings.ContainsAny(strings.TrimSpace(raw), " \t") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(raw))
	var items []slashItem
	for _, item := range slashCommands {
		if strings.HasPrefix(item.Label, prefix) {
			items = append(items, item)
		}
	}
	return items
}

func (m *Model) renderSlashPopup(items []slashItem) string {
	width := m.windowWidth - 4
	if width > 64 {
		width = 64
	}
	if width < 24 {
		width = 24
	}

	var b strings.Builder
	for i, item := range items {
		line := item.Label + "  " + item.Description
		line = truncate.StringWithTail(line, uint(width-2), "…")
		style := popupItemStyle
		if i == m.slashIndex {
			style = popupSelectedStyle
		}
		b.WriteString(style.Render(line))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return popupStyle.Width(width).Render(b.String())
}

func (m *Model) clampSlashIndex(items []slashItem) {
	if len(items) == 0 {
		m.slashIndex = 0
		return
	}
	if m.slashIndex < 0 {
		m.slashIndex = 0
	}
	if m.slashIndex >= len(items) {
		m.slashIndex = len(items) - 1
	}
}
