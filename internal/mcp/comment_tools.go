// ABOUTME: MCP tool implementations for post comments.
// ABOUTME: Registers list_comments, add_comment, and delete_comment tools.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/models"
)

func (s *Server) registerCommentTools() {
	s.addTool(&gomcp.Tool{
		Name:        "list_comments",
		Description: "List the comments of a post, grouped into threads.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "integer", "minimum": 1}
			},
			"required": ["post_id"]
		}`),
	}, s.handleListComments)

	s.addTool(&gomcp.Tool{
		Name:        "add_comment",
		Description: "Comment on a post, or reply to an existing comment.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "integer", "minimum": 1},
				"content": {"type": "string", "minLength": 1},
				"parent_id": {"type": "integer", "description": "ID of the comment to reply to (optional)"}
			},
			"required": ["post_id", "content"]
		}`),
	}, s.handleAddComment)

	s.addTool(&gomcp.Tool{
		Name:        "delete_comment",
		Description: "Delete one of your own comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"comment_id": {"type": "integer", "minimum": 1}
			},
			"required": ["comment_id"]
		}`),
	}, s.handleDeleteComment)
}

func (s *Server) handleListComments(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	postID, errResult := postIDArg(req, "post_id")
	if errResult != nil {
		return errResult, nil
	}

	comments, err := s.store.FetchComments(ctx, postID)
	if err != nil {
		return toolError("%v", err), nil
	}
	if len(comments) == 0 {
		return toolText("No comments yet."), nil
	}
	return toolText("%s", formatThreads(models.BuildThreads(comments))), nil
}

func (s *Server) handleAddComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	postID, errResult := postIDArg(req, "post_id")
	if errResult != nil {
		return errResult, nil
	}
	var args struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	content := strings.TrimSpace(args.Content)
	if content == "" {
		return toolError("content is required"), nil
	}

	comment, err := s.store.AddComment(ctx, postID, s.userID, content, args.ParentID)
	if err != nil {
		return toolError("%v", err), nil
	}
	if comment.ParentID != nil {
		return toolText("Reply %d added to comment %d on post %d", comment.ID, *comment.ParentID, postID), nil
	}
	return toolText("Comment %d added to post %d", comment.ID, postID), nil
}

func (s *Server) handleDeleteComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	commentID, errResult := postIDArg(req, "comment_id")
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.DeleteComment(ctx, commentID, s.userID); err != nil {
		if blogapi.StatusCode(err) == http.StatusForbidden {
			return toolError("comment %d belongs to another user", commentID), nil
		}
		return toolError("%v", err), nil
	}
	return toolText("Comment %d deleted", commentID), nil
}
