package tui

import "strings"

type helpEntry struct {
	key  string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{
		title: "Chat",
		entries: []helpEntry{
			{"enter", "send the prompt"},
			{"ctrl+j", "insert a newline"},
			{"/", "open the command popup"},
			{"ctrl+l", "clear the transcript"},
		},
	},
	{
		title: "Sessions",
		entries: []helpEntry{
			{"tab", "cycle through sessions"},
			{"ctrl+n", "new session in the current directory"},
			{"ctrl+w", "close the active session"},
		},
	},
	{
		title: "Commands",
		entries: []helpEntry{
			{"/model <id>", "switch the model"},
			{"/mode <m>", "suggest, autoedit or autopilot"},
			{"/login /logout", "forwarded to the Copilot CLI"},
			{"/usage", "forwarded to the Copilot CLI"},
		},
	},
	{
		title: "App",
		entries: []helpEntry{
			{"f1 / esc", "toggle this help"},
			{"ctrl+c", "quit"},
		},
	},
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(helpTitleStyle.Render("copilot-term keys"))
	b.WriteString("\n")
	for _, sec := range helpSections {
		b.WriteString("\n  ")
		b.WriteString(helpSectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, e := range sec.entries {
			b.WriteString("    ")
			b.WriteString(helpKeyStyle.Render(padRight(e.key, 16)))
			b.WriteString(helpDescStyle.Render(e.desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n  ")
	b.WriteString(helpDescStyle.Render("press esc to return"))
	b.WriteString("\n")
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
