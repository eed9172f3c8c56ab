package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"inkwell/internal/store"
)

// NotesServer exposes the note store to assistants over MCP.
type NotesServer struct {
	store store.Store
	srv   *server.MCPServer
}

func NewNotesServer(st store.Store) *NotesServer {
	s := &NotesServer{store: st}

	mcpServer := server.NewMCPServer("Inkwell", "1.0.0")

	listTool := mcp.NewTool("list_notes",
		mcp.WithDescription("List a user's notes, most recently modified first."),
		mcp.WithString("username", mcp.Required(), mcp.Description("The username whose notes to list")),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	mcpServer.AddTool(listTool, s.listNotesHandler)

	createTool := mcp.NewTool("create_note",
		mcp.WithDescription("Create a note for a user."),
		mcp.WithString("username", mcp.Required(), mcp.Description("The username to create the note for")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	mcpServer.AddTool(createTool, s.createNoteHandler)

	s.srv = mcpServer
	return s
}

// HTTPServer wraps the MCP server for mounting on the HTTP mux.
func (s *NotesServer) HTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.srv, server.WithStateLess(true))
}

func (s *NotesServer) listNotesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := request.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username is required"), nil
	}

	userID, _, err := s.store.GetUserByUsername(username)
	if err != nil {
		return mcp.NewToolResultError("user not found"), nil
	}

	notes, err := s.store.GetNotes(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}

	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes found for this user."), nil
	}

	var lines []string
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", n.LastModified.Format(time.RFC3339), n.Title, n.Content))
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d notes:\n%s", len(notes), strings.Join(lines, "\n"))), nil
}

func (s *NotesServer) createNoteHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := request.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username is required"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content is required"), nil
	}

	userID, _, err := s.store.GetUserByUsername(username)
	if err != nil {
		return mcp.NewToolResultError("user not found"), nil
	}

	note, err := s.store.CreateNote(userID, title, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created note %d: %s", note.ID, note.Title)), nil
}
