package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"copilot-term/internal/app"
	"copilot-term/internal/files"
	"copilot-term/internal/mcp"
	"copilot-term/internal/proc"
	"copilot-term/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	version = "0.1.0"
	repoURL = "https://github.com/copilot-term/copilot-term"
)

func openLogger(storageRoot string) (*app.Logger, func()) {
	logPath := filepath.Join(storageRoot, "copilot-term.log")
	if err := os.MkdirAll(storageRoot, 0755); err != nil {
		return app.NewLogger(nil), func() {}
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return app.NewLogger(nil), func() {}
	}
	return app.NewLogger(f), func() { f.Close() }
}

func openTranscripts(cfg app.Config, logger *app.Logger) app.TranscriptStore {
	root := cfg.StorageRoot
	if root == "" {
		root = app.DefaultStorageRoot()
	}
	store, err := app.NewSQLiteTranscriptStore(root)
	if err != nil {
		logger.Warn("sqlite transcripts unavailable, using file store", map[string]interface{}{
			"error": err.Error(),
		})
		return app.NewFileTranscriptStore(root)
	}
	return store
}

func buildWorkspace(cfg app.Config, logger *app.Logger, transcripts app.TranscriptStore, binaryPath string) *app.Workspace {
	broker := proc.NewBroker(logger)
	manager := proc.NewManager(binaryPath, logger, broker, transcripts)
	chat := app.NewChatStore()
	dispatcher := app.NewDispatcher(chat, manager, transcripts, logger)
	subscriber := app.NewSubscriber(chat, manager, transcripts, logger)
	return &app.Workspace{
		Config:      &cfg,
		Logger:      logger,
		Registry:    app.NewSessionRegistry(),
		Chat:        chat,
		Dispatcher:  dispatcher,
		Subscriber:  subscriber,
		Transcripts: transcripts,
		Processes:   manager,
		Watcher:     files.NewWatcher(logger),
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return err
	}

	storageRoot := cfg.StorageRoot
	if storageRoot == "" {
		storageRoot = app.DefaultStorageRoot()
	}
	logger, closeLog := openLogger(storageRoot)
	defer closeLog()

	transcripts := openTranscripts(cfg, logger)
	defer transcripts.Close()

	binaryPath, _ := cmd.Flags().GetString("copilot-path")
	if binaryPath == "" {
		binaryPath = cfg.CopilotPath
	}
	ws := buildWorkspace(cfg, logger, transcripts, binaryPath)

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg.RememberProject(abs)
	if err := app.SaveConfig(cfg, app.DefaultConfigPath()); err != nil {
		logger.Warn("save config", map[string]interface{}{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := ws.NewSession(ctx, abs); err != nil {
		cancel()
		return fmt.Errorf("start session: %w", err)
	}
	cancel()

	model := tui.New(ws)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ws.Subscriber.Notify = func(sessionID string, ev app.StreamEvent) {
		p.Send(tui.StreamEventMsg{SessionID: sessionID, Event: ev})
	}

	_, err = p.Run()
	ws.Shutdown()
	return err
}

func newSessionsCmd(logger *app.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			store := openTranscripts(cfg, logger)
			defer store.Close()

			sessions, err := store.ListSessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("no stored sessions")
				return nil
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-20s  %s  %s/%s\n",
					s.ID, s.Name, s.CreatedAt.Format("2006-01-02 15:04"), s.Model, s.Mode)
			}
			return nil
		},
	}
}

func newMCPCmd(logger *app.Logger) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server management",
	}

	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Expose stored transcripts as an MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			store := openTranscripts(cfg, logger)
			defer store.Close()
			return mcp.ServeTranscripts(store, version)
		},
	})

	mcpCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured MCP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := mcp.NewConfigManager(mcp.DefaultConfigPath())
			servers, err := mgr.ListServers()
			if err != nil {
				return err
			}
			if len(servers) == 0 {
				fmt.Println("no MCP servers configured")
				return nil
			}
			for _, s := range servers {
				state := "enabled"
				if !s.Enabled {
					state = "disabled"
				}
				fmt.Printf("%-20s %-9s %s %v\n", s.Name, state, s.Command, s.Args)
			}
			return nil
		},
	})

	mcpCmd.AddCommand(&cobra.Command{
		Use:   "toggle [name]",
		Short: "Enable or disable an MCP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := mcp.NewConfigManager(mcp.DefaultConfigPath())
			servers, err := mgr.ListServers()
			if err != nil {
				return err
			}
			for _, s := range servers {
				if s.Name == args[0] {
					return mgr.ToggleServer(s.Name, !s.Enabled)
				}
			}
			return fmt.Errorf("no MCP server named %q", args[0])
		},
	})

	return mcpCmd
}

func newDoctorCmd(logger *app.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the Copilot CLI installation and authentication",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			manager := proc.NewManager(cfg.CopilotPath, logger, proc.NewBroker(logger), nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			status := manager.Detect(ctx)
			if status.Installed {
				fmt.Printf("copilot CLI:   ok (%s, %s)\n", status.Path, status.Version)
			} else {
				fmt.Println("copilot CLI:   not found in PATH")
			}

			auth := app.CheckAuth()
			if auth.Authenticated {
				fmt.Printf("auth:          signed in as %s\n", auth.Username)
			} else {
				fmt.Println("auth:          not signed in (run `copilot` and /login)")
			}
			return nil
		},
	}
}

func main() {
	logger := app.NewLogger(os.Stderr)

	root := &cobra.Command{
		Use:     "copilot-term [dir]",
		Short:   "Terminal chat client for the GitHub Copilot CLI",
		Long:    "copilot-term wraps the GitHub Copilot CLI in a multi-session chat interface with streamed responses and persistent transcripts.\n\nFor more information, visit: " + repoURL,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runTUI,
	}
	root.Flags().String("copilot-path", "", "Path to the copilot binary (defaults to PATH lookup)")

	root.AddCommand(newSessionsCmd(logger))
	root.AddCommand(newMCPCmd(logger))
	root.AddCommand(newDoctorCmd(logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
