package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// DefaultBaseURL is where the summarization service listens in a local setup.
const DefaultBaseURL = "http://localhost:5000"

// Client talks to the summarization/chat backend over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Summarize posts the source to the mode's summarize route and returns the
// raw summary text.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	route := req.Mode.SummarizeRoute()

	var (
		body        io.Reader
		contentType string
		err         error
	)
	if req.Mode.UsesFile() {
		if req.File == nil {
			return "", fmt.Errorf("summarize %s: no transcript file selected", req.Mode)
		}
		body, contentType, err = multipartBody(nil, req.File)
	} else {
		body, contentType, err = jsonBody(urlPayload{URL: req.URL})
	}
	if err != nil {
		return "", fmt.Errorf("building %s request: %w", route, err)
	}

	resp, err := c.post(ctx, route, body, contentType)
	if err != nil {
		return "", err
	}

	// The transcript route has been seen answering with "summary" instead of
	// "output"; accept either, preferring the mode's usual field.
	if req.Mode == source.ModeTranscript {
		if resp.Summary != nil {
			return *resp.Summary, nil
		}
		if resp.Output != nil {
			return *resp.Output, nil
		}
	} else {
		if resp.Output != nil {
			return *resp.Output, nil
		}
		if resp.Summary != nil {
			return *resp.Summary, nil
		}
	}
	return "", fmt.Errorf("%s: %w", route, ErrEmptyResponse)
}

// Chat posts a question to the mode's chat route and returns the answer text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	route := req.Mode.ChatRoute()

	var (
		body        io.Reader
		contentType string
		err         error
	)
	if req.Mode.UsesFile() {
		fields := [][2]string{
			{"question", req.Question},
			{"session_id", req.SessionID},
		}
		body, contentType, err = multipartBody(fields, req.File)
	} else {
		body, contentType, err = jsonBody(chatPayload{
			Question:  req.Question,
			URL:       req.URL,
			SessionID: req.SessionID,
		})
	}
	if err != nil {
		return "", fmt.Errorf("building %s request: %w", route, err)
	}

	resp, err := c.post(ctx, route, body, contentType)
	if err != nil {
		return "", err
	}
	if resp.Output == nil {
		return "", fmt.Errorf("%s: %w", route, ErrEmptyResponse)
	}
	return *resp.Output, nil
}

func (c *Client) post(ctx context.Context, route string, body io.Reader, contentType string) (*textResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + "/" + route
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", route, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", route, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", route, err)
	}

	c.logger.Debug("backend call",
		zap.String("route", route),
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(respBody)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &APIError{
			Route:      route,
			StatusCode: httpResp.StatusCode,
			Detail:     parseDetail(respBody),
			Body:       string(respBody),
		}
	}

	var out textResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", route, err)
	}
	return &out, nil
}

// parseDetail pulls a string "detail" field out of an error body. FastAPI
// validation errors put an array there; those yield "".
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func jsonBody(v any) (io.Reader, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// multipartBody writes the text fields in order, then the file part if any.
func multipartBody(fields [][2]string, file *source.Transcript) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
