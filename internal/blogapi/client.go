// ABOUTME: HTTP client for the remote blog REST API.
// ABOUTME: One method per endpoint; non-2xx responses become *HTTPError values.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/2389-research/folio/internal/models"
)

// DefaultAPIURL is the API base URL compiled into the binary.
// Override at build time with -ldflags "-X github.com/2389-research/folio/internal/blogapi.DefaultAPIURL=...".
var DefaultAPIURL = "http://localhost:12377/api"

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to the blog API.
type Client struct {
	apiURL string
	client *http.Client
	log    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.client = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the given API base URL, e.g. https://host/api.
func NewClient(apiURL string, opts ...Option) *Client {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = strings.TrimRight(DefaultAPIURL, "/")
	}
	c := &Client{
		apiURL: apiURL,
		client: &http.Client{Timeout: DefaultTimeout},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.apiURL
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, opts models.ListPostsOptions) (*models.PostPage, error) {
	opts = opts.WithDefaults()

	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("limit", strconv.Itoa(opts.Limit))
	if tags := models.NormalizeTags(opts.Tags); len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.UserID != "" {
		q.Set("user_id", opts.UserID)
	}

	var page models.PostPage
	if err := c.do(ctx, "list_posts", http.MethodGet, "/posts", q, nil, &page); err != nil {
		return nil, err
	}
	if page.Posts == nil {
		page.Posts = []models.Post{}
	}
	return &page, nil
}

// ListTags fetches every tag known to the server.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := c.do(ctx, "list_tags", http.MethodGet, "/tags", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp.Tags, nil
}

// GetPost fetches a single post. userID, when set, fills the viewer reaction flags.
func (c *Client) GetPost(ctx context.Context, id int64, userID string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "get_post", http.MethodGet, postPath(id, ""), userQuery(userID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Like toggles a like for userID on a post.
func (c *Client) Like(ctx context.Context, id int64, userID string) (*models.LikeResult, error) {
	body := map[string]string{"user_id": userID}
	var result models.LikeResult
	if err := c.do(ctx, "like", http.MethodPost, postPath(id, "like"), nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Dislike toggles a dislike for userID on a post.
func (c *Client) Dislike(ctx context.Context, id int64, userID string) (*models.DislikeResult, error) {
	body := map[string]string{"user_id": userID}
	var result models.DislikeResult
	if err := c.do(ctx, "dislike", http.MethodPost, postPath(id, "dislike"), nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment creates a comment and returns it as stored by the server.
func (c *Client) AddComment(ctx context.Context, postID int64, comment models.NewComment) (*models.Comment, error) {
	var created models.Comment
	if err := c.do(ctx, "add_comment", http.MethodPost, postPath(postID, "comments"), nil, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListComments fetches all comments of a post.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, "list_comments", http.MethodGet, postPath(postID, "comments"), nil, nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// DeleteComment deletes a comment on behalf of userID.
func (c *Client) DeleteComment(ctx context.Context, commentID int64, userID string) error {
	q := url.Values{}
	q.Set("user_id", userID)
	return c.do(ctx, "delete_comment", http.MethodDelete, "/comments/"+strconv.FormatInt(commentID, 10), q, nil, nil)
}

// PostStats fetches like, dislike, and comment counters of a post.
func (c *Client) PostStats(ctx context.Context, postID int64, userID string) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, "post_stats", http.MethodGet, postPath(postID, "stats"), userQuery(userID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CheckPassword asks the server whether password may publish posts.
func (c *Client) CheckPassword(ctx context.Context, password string) (*models.AuthResult, error) {
	body := map[string]string{"password": password}
	var result models.AuthResult
	if err := c.do(ctx, "check_password", http.MethodPost, "/auth/check", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Publish submits a new post.
func (c *Client) Publish(ctx context.Context, req models.PublishRequest) (*models.PublishResult, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	var result models.PublishResult
	if err := c.do(ctx, "publish", http.MethodPost, "/posts/publish", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends a request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) (err error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	status := "error"
	defer func() {
		elapsed := time.Since(start)
		observe(op, status, elapsed)
		ev := c.log.Debug()
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Str("op", op).
			Str("method", method).
			Str("path", path).
			Str("status", status).
			Dur("duration", elapsed).
			Str("request_id", requestID).
			Msg("blog api request")
	}()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("blog API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: respBody, RequestID: requestID}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func postPath(id int64, sub string) string {
	p := "/posts/" + strconv.FormatInt(id, 10)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

func userQuery(userID string) url.Values {
	if userID == "" {
		return nil
	}
	q := url.Values{}
	q.Set("user_id", userID)
	return q
}
