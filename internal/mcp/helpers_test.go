// ABOUTME: Shared test fixtures for MCP tool handlers.
// ABOUTME: A chi router stands in for the blog API; handlers are invoked directly by name.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

const testPassword = "open sesame"

type fakeBlog struct {
	mu        sync.Mutex
	posts     []models.Post
	comments  []models.Comment
	published []models.PublishRequest
	nextID    int64
}

func newFakeBlog() *fakeBlog {
	return &fakeBlog{
		posts: []models.Post{
			{ID: 1, Title: "Go generics", Summary: "Type params", Content: "Body one", Author: "ann", Tags: []string{"go"}, LikesCount: 2},
			{ID: 2, Title: "Rust lifetimes", Content: "Body two", Tags: []string{"rust"}, LikesCount: 1, UserLiked: true},
			{ID: 3, Title: "Polyglot", Content: "Body three", Tags: []string{"go", "rust"}},
		},
		comments: []models.Comment{
			{ID: 10, PostID: 1, UserID: "ann", Content: "Nice"},
		},
		nextID: 100,
	}
}

func (f *fakeBlog) find(r *http.Request) *models.Post {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i]
		}
	}
	return nil
}

func (f *fakeBlog) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/tags", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]string{"tags": {"go", "python", "rust"}})
		})
		r.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			writeJSON(w, models.PostPage{Posts: f.posts, Page: 1, Limit: 10, Total: len(f.posts), TotalPages: 1})
		})
		r.Post("/posts/publish", func(w http.ResponseWriter, r *http.Request) {
			var req models.PublishRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != testPassword {
				writeJSON(w, models.PublishResult{Success: false, Message: "bad password"})
				return
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextID++
			f.published = append(f.published, req)
			f.posts = append(f.posts, models.Post{ID: f.nextID, Title: req.Title, Content: req.Content, Tags: req.Tags})
			writeJSON(w, models.PublishResult{Success: true, ID: f.nextID})
		})
		r.Post("/auth/check", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, models.AuthResult{Valid: body.Password == testPassword})
		})
		r.Route("/posts/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				defer f.mu.Unlock()
				if p := f.find(r); p != nil {
					writeJSON(w, p)
					return
				}
				http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
			})
			r.Post("/like", func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				defer f.mu.Unlock()
				p := f.find(r)
				if p == nil {
					http.NotFound(w, r)
					return
				}
				p.UserLiked = !p.UserLiked
				if p.UserLiked {
					p.LikesCount++
				} else {
					p.LikesCount--
				}
				writeJSON(w, models.LikeResult{Liked: p.UserLiked, LikesCount: p.LikesCount})
			})
			r.Post("/dislike", func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				defer f.mu.Unlock()
				p := f.find(r)
				if p == nil {
					http.NotFound(w, r)
					return
				}
				p.UserDisliked = !p.UserDisliked
				if p.UserDisliked {
					p.DislikesCount++
					if p.UserLiked {
						p.UserLiked = false
						p.LikesCount--
					}
				} else {
					p.DislikesCount--
				}
				writeJSON(w, models.DislikeResult{Disliked: p.UserDisliked, DislikesCount: p.DislikesCount})
			})
			r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				defer f.mu.Unlock()
				p := f.find(r)
				if p == nil {
					http.NotFound(w, r)
					return
				}
				n := 0
				for _, c := range f.comments {
					if c.PostID == p.ID {
						n++
					}
				}
				writeJSON(w, models.Stats{LikesCount: p.LikesCount, DislikesCount: p.DislikesCount, CommentsCount: n})
			})
			r.Get("/comments", func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				defer f.mu.Unlock()
				id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
				out := []models.Comment{}
				for _, c := range f.comments {
					if c.PostID == id {
						out = append(out, c)
					}
				}
				writeJSON(w, out)
			})
			r.Post("/comments", func(w http.ResponseWriter, r *http.Request) {
				var nc models.NewComment
				_ = json.NewDecoder(r.Body).Decode(&nc)
				f.mu.Lock()
				defer f.mu.Unlock()
				id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
				f.nextID++
				c := models.Comment{ID: f.nextID, PostID: id, UserID: nc.UserID, Content: nc.Content, ParentID: nc.ParentID}
				f.comments = append(f.comments, c)
				writeJSON(w, c)
			})
		})
		r.Delete("/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			for i, c := range f.comments {
				if c.ID != id {
					continue
				}
				if c.UserID != r.URL.Query().Get("user_id") {
					http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
					return
				}
				f.comments = append(f.comments[:i], f.comments[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.NotFound(w, r)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func makeServer(t *testing.T, opts ...ServerOption) (*Server, *fakeBlog) {
	t.Helper()
	blog := newFakeBlog()
	httpServer := httptest.NewServer(blog.router())
	t.Cleanup(httpServer.Close)

	st := store.New(blogapi.NewClient(httpServer.URL + "/api"))
	server, err := NewServer(st, opts...)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return server, blog
}

func callTool(t *testing.T, s *Server, name string, args any) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	h, ok := s.handlers[name]
	if !ok {
		t.Fatalf("unknown tool %q", name)
	}
	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func mustSucceed(t *testing.T, result *gomcp.CallToolResult) string {
	t.Helper()
	text := getTextContent(result)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", text)
	}
	return text
}

func mustFail(t *testing.T, result *gomcp.CallToolResult, want string) {
	t.Helper()
	text := getTextContent(result)
	if !result.IsError {
		t.Fatalf("expected error containing %q, got success: %s", want, text)
	}
	if !strings.Contains(text, want) {
		t.Errorf("expected error containing %q, got: %s", want, text)
	}
}
