// ABOUTME: Markdown post drafts with YAML frontmatter, turned into publish requests.
// ABOUTME: Supports loading, rendering, listing a drafts directory, and writing new templates.
package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/folio/internal/models"
)

// Ext is the file extension of draft files.
const Ext = ".md"

// ErrExists is returned by WriteTemplate when the target file already exists.
var ErrExists = errors.New("draft already exists")

// templateFrontmatter keeps empty keys visible in a fresh draft.
type templateFrontmatter struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	Author  string   `yaml:"author,omitempty"`
}

// Entry is one draft found by List. Err is set when the file could not be parsed.
type Entry struct {
	Path    string
	Request *models.PublishRequest
	Err     error
}

// Load reads and parses the draft at path.
func Load(path string) (*models.PublishRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	req, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return req, nil
}

// Parse turns draft content into a validated publish request. Without a
// frontmatter title, the first "# " heading of the body becomes the title.
func Parse(content string) (*models.PublishRequest, error) {
	yamlStr, body := ParseFrontmatter(content)

	var req models.PublishRequest
	if yamlStr != "" {
		if err := yaml.Unmarshal([]byte(yamlStr), &req); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	if strings.TrimSpace(req.Title) == "" {
		req.Title, body = headingTitle(body)
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Summary = strings.TrimSpace(req.Summary)
	req.Content = strings.TrimSpace(body)
	req.Tags = models.NormalizeTags(req.Tags)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Render formats req as draft content.
func Render(req models.PublishRequest) (string, error) {
	return RenderFrontmatter(req, strings.TrimSpace(req.Content)+"\n")
}

// WriteTemplate writes an empty draft to path. An empty title is derived from
// the file name. It never overwrites an existing file.
func WriteTemplate(path, title, author string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	} else if !os.IsNotExist(err) {
		return err
	}

	if title == "" {
		title = titleFromPath(path)
	}
	content, err := RenderFrontmatter(templateFrontmatter{
		Title:  title,
		Tags:   []string{},
		Author: author,
	}, "Write your post here.\n")
	if err != nil {
		return err
	}
	return atomicWrite(path, []byte(content))
}

// List parses every draft in dir, in file name order.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drafts directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), Ext) || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, f.Name())
		req, err := Load(path)
		entries = append(entries, Entry{Path: path, Request: req, Err: err})
	}
	return entries, nil
}

func headingTitle(body string) (title, rest string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:]), strings.Join(lines[i+1:], "\n")
		}
		break
	}
	return "", body
}

func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
