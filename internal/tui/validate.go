// ABOUTME: Connection validation for the blog API used by the setup wizard.
// ABOUTME: Probes the tag listing endpoint, which needs no credentials.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/folio/internal/blogapi"
)

// validateTimeout bounds the setup probe independently of the configured timeout.
const validateTimeout = 10 * time.Second

// ValidateConnection checks that apiURL serves the blog API by listing tags.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL string) error {
	client := blogapi.NewClient(apiURL, blogapi.WithTimeout(validateTimeout))
	if _, err := client.ListTags(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
