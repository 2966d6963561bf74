// ABOUTME: MCP tool implementations for browsing and reacting to posts.
// ABOUTME: Registers list, detail, tag selection, like/dislike, and stats tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

var postIDSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"id": {"type": "integer", "description": "Post ID", "minimum": 1}
	},
	"required": ["id"]
}`)

var emptySchema = json.RawMessage(`{"type": "object", "properties": {}}`)

func (s *Server) registerPostTools() {
	s.addTool(&gomcp.Tool{
		Name:        "list_posts",
		Description: "Fetch a page of blog posts. The result is narrowed by the current tag selection (see toggle_tag).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"page": {"type": "integer", "description": "Page number (default 1)"},
				"limit": {"type": "integer", "description": "Posts per page (default 10)"},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Server-side tag filter"},
				"search": {"type": "string", "description": "Full-text search query"}
			}
		}`),
	}, s.handleListPosts)

	s.addTool(&gomcp.Tool{
		Name:        "get_post",
		Description: "Fetch a single post with its full content.",
		InputSchema: postIDSchema,
	}, s.handleGetPost)

	s.addTool(&gomcp.Tool{
		Name:        "list_tags",
		Description: "List every tag known to the blog.",
		InputSchema: emptySchema,
	}, s.handleListTags)

	s.addTool(&gomcp.Tool{
		Name:        "toggle_tag",
		Description: "Add a tag to the local selection, or remove it if already selected. Posts carrying any selected tag are shown.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"tag": {"type": "string", "minLength": 1}
			},
			"required": ["tag"]
		}`),
	}, s.handleToggleTag)

	s.addTool(&gomcp.Tool{
		Name:        "clear_tags",
		Description: "Clear the local tag selection.",
		InputSchema: emptySchema,
	}, s.handleClearTags)

	s.addTool(&gomcp.Tool{
		Name:        "like_post",
		Description: "Toggle an anonymous like on a post.",
		InputSchema: postIDSchema,
	}, s.handleLikePost)

	s.addTool(&gomcp.Tool{
		Name:        "dislike_post",
		Description: "Toggle an anonymous dislike on a post.",
		InputSchema: postIDSchema,
	}, s.handleDislikePost)

	s.addTool(&gomcp.Tool{
		Name:        "post_stats",
		Description: "Fetch like, dislike, and comment counts of a post.",
		InputSchema: postIDSchema,
	}, s.handlePostStats)
}

func (s *Server) handleListPosts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Page   int      `json:"page"`
		Limit  int      `json:"limit"`
		Tags   []string `json:"tags"`
		Search string   `json:"search"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	err := s.store.FetchPosts(ctx, models.ListPostsOptions{
		Page:   args.Page,
		Limit:  args.Limit,
		Tags:   args.Tags,
		Search: args.Search,
	})
	if errors.Is(err, store.ErrSuperseded) {
		return toolError("request superseded by a newer list_posts call"), nil
	}
	if err != nil {
		return toolError("%v", err), nil
	}

	st := s.store.Snapshot()
	posts := st.FilteredPosts()

	var sb strings.Builder
	sb.WriteString(formatPageInfo(st.Page, len(st.Posts)))
	if len(st.SelectedTags) > 0 {
		fmt.Fprintf(&sb, "Selected tags: %s (%d of %d shown)\n", strings.Join(st.SelectedTags, ", "), len(posts), len(st.Posts))
	}
	if len(posts) == 0 {
		sb.WriteString("No posts found.\n")
	}
	for _, p := range posts {
		sb.WriteString(formatPostSummary(p))
	}
	if len(st.AllTags) > 0 {
		fmt.Fprintf(&sb, "---\nTags on this page: %s\n", strings.Join(st.AllTags, ", "))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleGetPost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := postIDArg(req, "id")
	if errResult != nil {
		return errResult, nil
	}

	post, err := s.store.GetPostByID(ctx, id, s.userID)
	if err != nil {
		return toolError("%v", err), nil
	}
	return toolText("%s", formatPostDetail(*post)), nil
}

func (s *Server) handleListTags(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	if err := s.store.FetchTags(ctx); err != nil {
		return toolError("%v", err), nil
	}
	st := s.store.Snapshot()
	if len(st.AllTags) == 0 {
		return toolText("No tags found."), nil
	}
	return toolText("%s", formatTagList(st)), nil
}

func (s *Server) handleToggleTag(_ context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Tag string `json:"tag"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	args.Tag = strings.TrimSpace(args.Tag)
	if args.Tag == "" {
		return toolError("tag is required"), nil
	}

	s.store.ToggleTag(args.Tag)
	st := s.store.Snapshot()
	verb := "Deselected"
	if st.IsSelected(args.Tag) {
		verb = "Selected"
	}
	return toolText("%s %q. %s", verb, args.Tag, formatSelection(st)), nil
}

func (s *Server) handleClearTags(_ context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.store.ClearTags()
	return toolText("Tag selection cleared. %s", formatSelection(s.store.Snapshot())), nil
}

func (s *Server) handleLikePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := postIDArg(req, "id")
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.store.ToggleLike(ctx, id)
	if err != nil {
		return toolError("%v", err), nil
	}
	if result.Liked {
		return toolText("Liked post %d (%d likes)", id, result.LikesCount), nil
	}
	return toolText("Removed like from post %d (%d likes)", id, result.LikesCount), nil
}

func (s *Server) handleDislikePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := postIDArg(req, "id")
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.store.ToggleDislike(ctx, id)
	if err != nil {
		return toolError("%v", err), nil
	}
	if result.Disliked {
		return toolText("Disliked post %d (%d dislikes)", id, result.DislikesCount), nil
	}
	return toolText("Removed dislike from post %d (%d dislikes)", id, result.DislikesCount), nil
}

func (s *Server) handlePostStats(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, errResult := postIDArg(req, "id")
	if errResult != nil {
		return errResult, nil
	}

	stats, err := s.store.GetPostStats(ctx, id, s.userID)
	if err != nil {
		return toolError("%v", err), nil
	}
	return toolText("Post %d: %d likes, %d dislikes, %d comments", id, stats.LikesCount, stats.DislikesCount, stats.CommentsCount), nil
}

func unmarshalArgs(req *gomcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

// postIDArg reads a required positive integer argument.
func postIDArg(req *gomcp.CallToolRequest, name string) (int64, *gomcp.CallToolResult) {
	var args map[string]json.RawMessage
	if err := unmarshalArgs(req, &args); err != nil {
		return 0, toolError("invalid arguments: %v", err)
	}
	raw, ok := args[name]
	if !ok || string(raw) == "null" {
		return 0, toolError("%s is required", name)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, toolError("%s must be a positive integer", name)
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, toolError("%s must be a positive integer", name)
	}
	return id, nil
}
