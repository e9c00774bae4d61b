package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout indicates the request exceeded its wall-clock bound and
	// the in-flight transfer was aborted.
	ErrTimeout = errors.New("analysis request timed out")
	// ErrUnreachable indicates no usable network path to the backend.
	ErrUnreachable = errors.New("analysis backend unreachable")
)

// BackendError is a non-success status from the backend. Credential
// rejection surfaces here too; the status code alone cannot distinguish
// a bad key from any other rejection.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// extractErrorMessage pulls a display message from an error body:
// structured `error` field, then `detail`, then the raw body text.
func extractErrorMessage(body []byte, status int) string {
	var structured struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Error != "" {
			return structured.Error
		}
		if structured.Detail != "" {
			return structured.Detail
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("backend error (%d)", status)
}
