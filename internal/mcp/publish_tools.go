// ABOUTME: MCP tool implementation for publishing posts.
// ABOUTME: Accepts inline fields or a markdown draft path, checks the password, then publishes.
package mcp

import (
	"context"
	"encoding/json"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/folio/internal/draft"
	"github.com/2389-research/folio/internal/models"
)

func (s *Server) registerPublishTools() {
	s.addTool(&gomcp.Tool{
		Name:        "publish_post",
		Description: "Publish a new post, either from inline fields or from a markdown draft with YAML frontmatter.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"draft_path": {"type": "string", "description": "Path to a markdown draft; overrides inline fields"},
				"title": {"type": "string"},
				"content": {"type": "string", "description": "Markdown body"},
				"summary": {"type": "string"},
				"tags": {"type": "array", "items": {"type": "string"}},
				"author": {"type": "string"},
				"password": {"type": "string", "description": "Publishing password"}
			}
		}`),
	}, s.handlePublishPost)
}

func (s *Server) handlePublishPost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		DraftPath string   `json:"draft_path"`
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Summary   string   `json:"summary"`
		Tags      []string `json:"tags"`
		Author    string   `json:"author"`
		Password  string   `json:"password"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	post := models.PublishRequest{
		Title:   args.Title,
		Content: args.Content,
		Summary: args.Summary,
		Tags:    args.Tags,
		Author:  args.Author,
	}
	if args.DraftPath != "" {
		loaded, err := draft.Load(args.DraftPath)
		if err != nil {
			return toolError("%v", err), nil
		}
		post = *loaded
	}
	post.Password = args.Password

	if post.Password != "" {
		auth, err := s.store.CheckAuthPassword(ctx, post.Password)
		if err != nil {
			return toolError("%v", err), nil
		}
		if !auth.OK() {
			return toolError("publishing password rejected"), nil
		}
	}

	result, err := s.store.PublishPost(ctx, post)
	if err != nil {
		return toolError("%v", err), nil
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "no reason given"
		}
		return toolError("server rejected the post: %s", msg), nil
	}
	return toolText("Published %q (ID: %d)", post.Title, result.ID), nil
}
