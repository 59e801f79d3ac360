package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// ErrEmptyResponse is returned when a 2xx reply carries no usable text field.
var ErrEmptyResponse = errors.New("backend response has no text")

// Service is the contract the controller depends on.
type Service interface {
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// SummarizeRequest asks for a summary of one source. URL is used by the web
// and YouTube modes, File by the transcript mode.
type SummarizeRequest struct {
	Mode source.Mode
	URL  string
	File *source.Transcript
}

// ChatRequest asks a question about one source within a session.
type ChatRequest struct {
	Mode      source.Mode
	Question  string
	SessionID string
	URL       string
	File      *source.Transcript
}

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Route      string
	StatusCode int
	// Detail is the "detail" string the backend attached, if any.
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s returned status %d: %s", e.Route, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s returned status %d", e.Route, e.StatusCode)
}

// DetailOf returns the backend-supplied detail message carried by err, or "".
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

type urlPayload struct {
	URL string `json:"url"`
}

type chatPayload struct {
	Question  string `json:"question"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// textResponse covers both reply shapes: {"output": ...} and, for some
// transcript summarize deployments, {"summary": ...}.
type textResponse struct {
	Output  *string `json:"output"`
	Summary *string `json:"summary"`
}
