package proc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"copilot-term/internal/app"
)

const agentBinary = "copilot"

// Manager owns one copilot CLI process per session. Output is stripped,
// line-buffered and published to the broker as Output events for that
// session; process termination publishes a final Exit event with the
// exit code. It implements app.Backend and app.EventSource.
type Manager struct {
	BinaryPath  string // optional override; otherwise resolved from PATH
	Logger      *app.Logger
	Broker      *Broker
	Transcripts app.TranscriptStore

	mu    sync.Mutex
	procs map[string]*process
}

type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	cancel context.CancelFunc
}

func NewManager(binaryPath string, logger *app.Logger, broker *Broker, transcripts app.TranscriptStore) *Manager {
	return &Manager{
		BinaryPath:  binaryPath,
		Logger:      logger,
		Broker:      broker,
		Transcripts: transcripts,
		procs:       make(map[string]*process),
	}
}

// resolveBinary finds the copilot executable: explicit override first,
// then PATH.
func (m *Manager) resolveBinary() (string, error) {
	if strings.TrimSpace(m.BinaryPath) != "" {
		return m.BinaryPath, nil
	}
	path, err := exec.LookPath(agentBinary)
	if err != nil {
		return "", app.ErrAgentNotFound
	}
	return path, nil
}

// Detect reports whether the copilot binary is installed and, when it
// is, its version.
func (m *Manager) Detect(ctx context.Context) app.AgentStatus {
	path, err := m.resolveBinary()
	if err != nil {
		return app.AgentStatus{}
	}
	status := app.AgentStatus{Installed: true, Path: path}

	vctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(vctx, path, "--version").Output()
	if err == nil {
		if line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n"); line != "" {
			status.Version = line
		}
	}
	return status
}

// Start spawns the copilot process for the session in its working
// directory. Starting an already-running session is an error.
func (m *Manager) Start(ctx context.Context, session app.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := m.resolveBinary()
	if err != nil {
		return err
	}

	// The process outlives the caller's startup context; Stop or
	// StopAll ends it.
	procCtx, cancel := context.WithCancel(context.Background())

	// Check and reserve in one critical section so concurrent Starts
	// for the same session cannot both pass the running check.
	m.mu.Lock()
	if _, exists := m.procs[session.ID]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("session %s: process already running", session.ID)
	}
	entry := &process{cancel: cancel}
	m.procs[session.ID] = entry
	m.mu.Unlock()

	release := func() {
		m.mu.Lock()
		delete(m.procs, session.ID)
		m.mu.Unlock()
		cancel()
	}

	args := []string{"--add-dir", session.WorkingDir}
	if session.Model != "" {
		args = append(args, "--model", session.Model)
	}
	if app.AllowsAllTools(session.Mode) {
		args = append(args, "--allow-all-tools")
	}

	cmd := exec.CommandContext(procCtx, path, args...)
	cmd.Dir = session.WorkingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		release()
		return err
	}
	// One pipe for both streams keeps stdout/stderr interleaving in
	// process emission order.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		release()
		_ = pw.Close()
		return err
	}

	m.mu.Lock()
	entry.cmd = cmd
	entry.stdin = stdin
	m.mu.Unlock()

	m.Logger.Info("copilot process started", map[string]interface{}{
		"session_id":  session.ID,
		"working_dir": session.WorkingDir,
		"pid":         cmd.Process.Pid,
	})

	var g errgroup.Group
	parser := NewParser()
	g.Go(func() error {
		return m.pump(session.ID, parser, pr)
	})

	go func() {
		waitErr := cmd.Wait()
		_ = pw.Close()
		_ = g.Wait()

		for _, line := range parser.Flush() {
			m.Broker.Publish(session.ID, app.StreamEvent{Type: app.EventOutput, Data: line})
		}

		code := 0
		if waitErr != nil {
			if exitErr, ok := waitErr.(*exec.ExitError); ok {
				code = exitErr.ExitCode()
			} else {
				code = -1
			}
		}
		m.Broker.Publish(session.ID, app.StreamEvent{Type: app.EventExit, Code: code})

		m.mu.Lock()
		delete(m.procs, session.ID)
		m.mu.Unlock()
		cancel()

		m.Logger.Info("copilot process exited", map[string]interface{}{
			"session_id": session.ID,
			"exit_code":  code,
		})
	}()

	return nil
}

// pump reads combined output and publishes one Output event per parsed
// line until EOF.
func (m *Manager) pump(sessionID string, parser *Parser, r io.Reader) error {
	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			for _, line := range parser.Feed(string(buf[:n])) {
				m.Broker.Publish(sessionID, app.StreamEvent{Type: app.EventOutput, Data: line})
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (m *Manager) write(sessionID, input string) error {
	m.mu.Lock()
	proc, ok := m.procs[sessionID]
	m.mu.Unlock()
	// A nil stdin means the slot is reserved but the process has not
	// finished spawning yet.
	if !ok || proc.stdin == nil {
		return app.ErrSessionNotFound
	}
	if _, err := io.WriteString(proc.stdin, input+"\n"); err != nil {
		return fmt.Errorf("write to session %s: %w", sessionID, err)
	}
	return nil
}

// SendMessage forwards a prompt to the session's process.
func (m *Manager) SendMessage(ctx context.Context, sessionID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.write(sessionID, message)
}

// SendSlashCommand forwards a structured command on the same channel.
func (m *Manager) SendSlashCommand(ctx context.Context, sessionID, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.write(sessionID, command)
}

// SessionEvents returns the persisted transcript for the session in
// stored order.
func (m *Manager) SessionEvents(ctx context.Context, sessionID string) ([]app.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Transcripts == nil {
		return nil, nil
	}
	return m.Transcripts.LoadMessages(sessionID)
}

// Subscribe exposes the broker's per-session event channel.
func (m *Manager) Subscribe(ctx context.Context, sessionID string) (<-chan app.StreamEvent, func(), error) {
	return m.Broker.Subscribe(ctx, sessionID)
}

// Stop kills the session's process if running. The Exit event is
// published by the wait goroutine as usual.
func (m *Manager) Stop(sessionID string) {
	m.mu.Lock()
	proc, ok := m.procs[sessionID]
	m.mu.Unlock()
	if !ok {
		return
	}
	proc.cancel()
}

// StopAll kills every running process.
func (m *Manager) StopAll() {
	m.mu.Lock()
	procs := make([]*process, 0, len(m.procs))
	for _, p := range m.procs {
		procs = append(procs, p)
	}
	m.mu.Unlock()
	for _, p := range procs {
		p.cancel()
	}
}

// Running reports whether a process exists for the session.
func (m *Manager) Running(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.procs[sessionID]
	return ok
}
