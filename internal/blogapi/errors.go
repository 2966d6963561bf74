// ABOUTME: Error type for non-2xx responses from the blog API.
// ABOUTME: Keeps the status code and body so callers can report them.
package blogapi

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("blog API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("blog API returned %d: %s", e.StatusCode, body)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
