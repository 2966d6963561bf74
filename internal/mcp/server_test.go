// ABOUTME: Tests for MCP server creation and tool registration.
// ABOUTME: Verifies the store requirement, options, and the full tool set.
package mcp

import (
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/store"
)

func TestNewServerRequiresStore(t *testing.T) {
	_, err := NewServer(nil)
	if err == nil {
		t.Error("expected error when store is nil")
	}
}

func TestNewServerDefaults(t *testing.T) {
	server, err := NewServer(store.New(blogapi.NewClient("http://example.com/api")))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.userID != "anonymous" {
		t.Errorf("expected anonymous user id, got %q", server.userID)
	}
}

func TestNewServerWithOptions(t *testing.T) {
	var buf strings.Builder
	server, err := NewServer(
		store.New(blogapi.NewClient("http://example.com/api")),
		WithUserID("alice"),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
	)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.userID != "alice" {
		t.Errorf("expected user id alice, got %q", server.userID)
	}

	callTool(t, server, "clear_tags", map[string]any{})
	if !strings.Contains(buf.String(), `"tool":"clear_tags"`) {
		t.Errorf("expected tool call to be logged, got %q", buf.String())
	}
}

func TestNewServerRegistersAllTools(t *testing.T) {
	server, _ := makeServer(t)

	want := []string{
		"add_comment", "clear_tags", "delete_comment", "dislike_post", "get_post",
		"like_post", "list_comments", "list_posts", "list_tags", "post_stats",
		"publish_post", "toggle_tag",
	}
	var got []string
	for name := range server.handlers {
		got = append(got, name)
	}
	sort.Strings(got)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("registered tools = %v, want %v", got, want)
	}
}
