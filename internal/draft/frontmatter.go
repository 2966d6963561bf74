// ABOUTME: YAML frontmatter parsing and rendering for markdown drafts.
// ABOUTME: Also provides the atomic temp-file-and-rename write used for draft files.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// ParseFrontmatter splits content into its YAML frontmatter and body.
// yamlStr is empty when content has no frontmatter block.
func ParseFrontmatter(content string) (yamlStr, body string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return "", content
	}
	rest := content[len(fence)+1:]

	var end int
	switch {
	case strings.HasPrefix(rest, fence+"\n") || rest == fence:
		end = 0
	default:
		i := strings.Index(rest, "\n"+fence+"\n")
		if i < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return "", content
			}
			i = len(rest) - len(fence) - 1
		}
		end = i + 1
	}

	yamlStr = rest[:end]
	body = strings.TrimLeft(strings.TrimPrefix(rest[end:], fence), "\n")
	return yamlStr, body
}

// RenderFrontmatter marshals fm as YAML and prepends it to body.
func RenderFrontmatter(fm any, body string) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(data)
	b.WriteString(fence + "\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// atomicWrite writes data to path through a temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
