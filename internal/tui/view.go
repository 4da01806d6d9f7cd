package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"copilot-term/internal/app"
)

func (m *Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTranscript())
	b.WriteString("\n")

	if popup := m.slashPopupItems(); len(popup) > 0 {
		b.WriteString(m.renderSlashPopup(popup))
		b.WriteString("\n")
	}

	b.WriteString(inputBorderStyle.Width(m.windowWidth - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	var tabs []string
	active := m.ws.Registry.ActiveID()
	for _, sess := range m.ws.Registry.Sessions() {
		label := sess.Name
		if label == "" {
			label = shortID(sess.ID)
		}
		if sess.ID == active {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	if len(tabs) == 0 {
		tabs = append(tabs, tabStyle.Render("no session"))
	}

	meta := m.headerMeta()
	left := headerStyle.Render("copilot-term") + " " + strings.Join(tabs, " ")
	gap := m.windowWidth - lipgloss.Width(left) - lipgloss.Width(meta)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + meta
}

func (m *Model) headerMeta() string {
	sess, ok := m.ws.Registry.Active()
	if !ok {
		return headerMetaStyle.Render(m.authBadge())
	}
	return headerMetaStyle.Render(fmt.Sprintf("%s · %s · %s", sess.Model, sess.Mode, m.authBadge()))
}

func (m *Model) authBadge() string {
	if !m.auth.Authenticated {
		return "not signed in"
	}
	return m.auth.Username
}

func (m *Model) renderTranscript() string {
	sessionID := m.ws.Registry.ActiveID()
	msgs := m.ws.Chat.Messages(sessionID)

	inputLines := 5
	chrome := 4 // header, footer, spacing
	budget := m.windowHeight - inputLines - chrome
	if budget < 3 {
		budget = 3
	}

	width := m.windowWidth - 4
	if width < 20 {
		width = 20
	}

	var lines []string
	for _, msg := range msgs {
		lines = append(lines, m.renderMessage(msg, width)...)
		lines = append(lines, "")
	}
	if m.ws.Chat.IsStreaming() {
		lines = append(lines, spinnerStyle.Render(spinnerFrames[m.spinnerFrame]+" thinking"))
	}
	if m.notice != "" {
		lines = append(lines, errorStyle.Render(m.notice))
	}

	if len(lines) > budget {
		lines = lines[len(lines)-budget:]
	}
	for len(lines) < budget {
		lines = append(lines, "")
	}
	return "  " + strings.Join(lines, "\n  ")
}

func (m *Model) renderMessage(msg app.Message, width int) []string {
	var label string
	switch msg.Role {
	case app.RoleUser:
		label = userLabelStyle.Render("You")
	case app.RoleAssistant:
		label = assistantLabelStyle.Render("Copilot")
	default:
		label = systemLabelStyle.Render("System")
	}
	stamp := timestampStyle.Render(msg.Timestamp.Format("15:04"))

	body := msg.Content
	if msg.Role == app.RoleAssistant && body != "" {
		body = m.renderer.Render(body, width)
	}
	body = strings.TrimRight(body, "\n")

	lines := []string{label + " " + stamp}
	if body == "" {
		lines = append(lines, timestampStyle.Render("…"))
		return lines
	}
	lines = append(lines, strings.Split(body, "\n")...)
	return lines
}

func (m *Model) renderFooter() string {
	hints := "enter send · ctrl+j newline · tab sessions · ctrl+n new · ctrl+w close · f1 help · ctrl+c quit"
	return footerStyle.Render(truncateTo(hints, m.windowWidth-2))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateTo(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	return s[:width]
}
