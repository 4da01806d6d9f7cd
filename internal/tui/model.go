// Package tui is the terminal front end: a streaming transcript, a
// prompt input, session tabs and a slash command popup.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"copilot-term/internal/app"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root bubbletea model.
type Model struct {
	ws       *app.Workspace
	input    textarea.Model
	renderer *MarkdownRenderer

	windowWidth  int
	windowHeight int
	spinnerFrame int
	slashIndex   int
	showHelp     bool
	notice       string

	auth app.AuthStatus
}

// StreamEventMsg wakes the render loop when the subscriber applied a
// stream event. Sent from outside via tea.Program.Send.
type StreamEventMsg struct {
	SessionID string
	Event     app.StreamEvent
}

type promptSentMsg struct{}

type sessionCreatedMsg struct {
	session app.Session
	err     error
}

type spinTickMsg struct{}

func New(ws *app.Workspace) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask Copilot... (/ for commands)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color(colorFgMuted))
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color(colorFgMuted))

	return &Model{
		ws:           ws,
		input:        ta,
		renderer:     NewMarkdownRenderer(),
		windowWidth:  80,
		windowHeight: 24,
		auth:         app.CheckAuth(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.input.SetWidth(msg.Width - 6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		// Store mutations already happened on the subscriber goroutine;
		// this message only forces a repaint and spinner upkeep.
		if m.ws.Chat.IsStreaming() {
			return m, m.spinCmd()
		}
		return m, nil

	case promptSentMsg:
		return m, m.spinCmd()

	case sessionCreatedMsg:
		if msg.err != nil {
			m.notice = "could not start session: " + msg.err.Error()
		}
		return m, nil

	case spinTickMsg:
		if m.ws.Chat.IsStreaming() {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
			return m, m.spinCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	popup := m.slashPopupItems()
	m.clampSlashIndex(popup)

	switch msg.String() {
	case "ctrl+c":
		m.ws.Shutdown()
		return m, tea.Quit

	case "f1":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.notice = ""

	case "up":
		if len(popup) > 0 {
			m.slashIndex--
			m.clampSlashIndex(popup)
			return m, nil
		}

	case "down":
		if len(popup) > 0 {
			m.slashIndex++
			m.clampSlashIndex(popup)
			return m, nil
		}

	case "tab":
		if len(popup) > 0 {
			m.input.SetValue(popup[m.slashIndex].InsertText)
			m.input.CursorEnd()
			return m, nil
		}
		m.cycleSession()
		return m, nil

	case "ctrl+n":
		return m, m.newSessionCmd()

	case "ctrl+w":
		if id := m.ws.Registry.ActiveID(); id != "" {
			m.ws.CloseSession(id)
			m.fallbackToFirstSession()
		}
		return m, nil

	case "ctrl+l":
		if id := m.ws.Registry.ActiveID(); id != "" {
			m.clearTranscript(id)
		}
		return m, nil

	case "enter":
		if len(popup) > 0 {
			m.input.SetValue(popup[m.slashIndex].InsertText)
			m.input.CursorEnd()
			if strings.HasSuffix(m.input.Value(), " ") {
				return m, nil // command expects an argument
			}
			return m.submit()
		}
		return m.submit()

	case "ctrl+j":
		m.input.InsertString("\n")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ws.Chat.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}
	sessionID := m.ws.Registry.ActiveID()
	if sessionID == "" {
		m.notice = "no active session, press ctrl+n to start one"
		return m, nil
	}

	if strings.HasPrefix(value, "/") {
		m.input.Reset()
		m.ws.Chat.SetInput("")
		return m.runSlashCommand(sessionID, value)
	}

	if m.ws.Chat.IsStreaming() {
		return m, nil // input area is gated while a response streams
	}

	m.input.Reset()
	m.ws.Chat.SetInput("")
	return m, m.sendPromptCmd(sessionID, value)
}

func (m *Model) runSlashCommand(sessionID, value string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(value)
	name := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(value, name))

	switch name {
	case "/quit":
		m.ws.Shutdown()
		return m, tea.Quit

	case "/clear":
		m.clearTranscript(sessionID)
		return m, nil

	case "/mode":
		mode, ok := app.ParseMode(arg)
		if !ok {
			m.notice = "unknown mode; one of: suggest, autoedit, autopilot"
			return m, nil
		}
		m.ws.Registry.SetMode(sessionID, mode)
		m.ws.Chat.AddMessage(sessionID, app.Message{
			ID:        uuid.NewString(),
			Role:      app.RoleSystem,
			Content:   fmt.Sprintf("Mode set to %s. Applies to the next session process.", mode),
			Timestamp: time.Now(),
		})
		return m, nil

	case "/model":
		if arg == "" {
			m.notice = "usage: /model <id>"
			return m, nil
		}
		m.ws.Registry.SetModel(sessionID, arg)
		return m, m.forwardSlashCmd(sessionID, value)

	default:
		return m, m.forwardSlashCmd(sessionID, value)
	}
}

func (m *Model) clearTranscript(sessionID string) {
	m.ws.Chat.ClearMessages(sessionID)
	if m.ws.Transcripts != nil {
		if err := m.ws.Transcripts.ClearMessages(sessionID); err != nil {
			m.notice = "could not clear stored transcript: " + err.Error()
		}
	}
}

func (m *Model) cycleSession() {
	sessions := m.ws.Registry.Sessions()
	if len(sessions) < 2 {
		return
	}
	active := m.ws.Registry.ActiveID()
	for i, sess := range sessions {
		if sess.ID == active {
			next := sessions[(i+1)%len(sessions)]
			m.ws.SwitchSession(context.Background(), next.ID)
			return
		}
	}
	m.ws.SwitchSession(context.Background(), sessions[0].ID)
}

func (m *Model) fallbackToFirstSession() {
	if m.ws.Registry.ActiveID() != "" {
		return
	}
	sessions := m.ws.Registry.Sessions()
	if len(sessions) > 0 {
		m.ws.SwitchSession(context.Background(), sessions[0].ID)
	}
}

func (m *Model) sendPromptCmd(sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		m.ws.Dispatcher.SendPrompt(ctx, sessionID, text)
		return promptSentMsg{}
	}
}

func (m *Model) forwardSlashCmd(sessionID, command string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.ws.Dispatcher.SendSlashCommand(ctx, sessionID, command); err != nil {
			m.ws.Logger.Error("slash command", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return promptSentMsg{}
	}
}

func (m *Model) newSessionCmd() tea.Cmd {
	dir := "."
	if sess, ok := m.ws.Registry.Active(); ok {
		dir = sess.WorkingDir
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess, err := m.ws.NewSession(ctx, dir)
		return sessionCreatedMsg{session: sess, err: err}
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinTickMsg{}
	})
}
