// ABOUTME: MCP server initialization and configuration for folio.
// ABOUTME: Exposes the client post store's actions as tools for AI agent access.
package mcp

import (
	"context"
	"errors"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

type toolHandler func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error)

// Server wraps the MCP server around a post store.
type Server struct {
	mcp      *gomcp.Server
	store    *store.Store
	userID   string
	log      zerolog.Logger
	handlers map[string]toolHandler
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithUserID sets the user id used for comments and post details.
func WithUserID(id string) ServerOption {
	return func(s *Server) {
		if id != "" {
			s.userID = id
		}
	}
}

// WithLogger sets the logger used to trace tool calls.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates an MCP server backed by st.
func NewServer(st *store.Store, opts ...ServerOption) (*Server, error) {
	if st == nil {
		return nil, errors.New("post store is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "folio",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    st,
		userID:   models.AnonymousUserID,
		log:      zerolog.Nop(),
		handlers: make(map[string]toolHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerPostTools()
	s.registerCommentTools()
	s.registerPublishTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// addTool registers a tool and keeps its handler addressable by name.
func (s *Server) addTool(tool *gomcp.Tool, h toolHandler) {
	name := tool.Name
	logged := func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		result, err := h(ctx, req)
		if result != nil && result.IsError {
			s.log.Warn().Str("tool", name).Msg("tool call failed")
		} else {
			s.log.Debug().Str("tool", name).Msg("tool call")
		}
		return result, err
	}
	s.handlers[name] = logged
	s.mcp.AddTool(tool, logged)
}

func toolError(format string, args ...any) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolText(format string, args ...any) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}
