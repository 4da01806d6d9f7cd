package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"copilot-term/internal/app"
)

// sessionSummary is one stored session in the list_sessions result.
type sessionSummary struct {
	SessionID  string `json:"session_id"`
	Name       string `json:"name"`
	WorkingDir string `json:"working_dir"`
	Model      string `json:"model,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type transcriptMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Sequence  int    `json:"sequence"`
}

// ServeTranscripts runs an MCP stdio server exposing the stored session
// transcripts, so other agents can look up past copilot conversations.
func ServeTranscripts(store app.TranscriptStore, version string) error {
	s := server.NewMCPServer("copilot-term", version)

	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List stored copilot-term chat sessions in creation order."),
	)
	s.AddTool(listTool, makeListSessionsHandler(store))

	transcriptTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Retrieve the full ordered transcript of one stored session."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id as returned by list_sessions")),
	)
	s.AddTool(transcriptTool, makeGetTranscriptHandler(store))

	return server.ServeStdio(s)
}

func makeListSessionsHandler(store app.TranscriptStore) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessions, err := store.ListSessions()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list sessions: %v", err)), nil
		}
		summaries := make([]sessionSummary, 0, len(sessions))
		for _, sess := range sessions {
			summaries = append(summaries, sessionSummary{
				SessionID:  sess.ID,
				Name:       sess.Name,
				WorkingDir: sess.WorkingDir,
				Model:      sess.Model,
				CreatedAt:  sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		payload, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func makeGetTranscriptHandler(store app.TranscriptStore) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			SessionID string `json:"session_id"`
		}
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.SessionID == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}

		msgs, err := store.LoadMessages(args.SessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load transcript: %v", err)), nil
		}
		transcript := make([]transcriptMessage, 0, len(msgs))
		for i, msg := range msgs {
			transcript = append(transcript, transcriptMessage{
				Role:      msg.Role,
				Content:   msg.Content,
				Timestamp: msg.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
				Sequence:  i,
			})
		}
		payload, err := json.MarshalIndent(transcript, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
