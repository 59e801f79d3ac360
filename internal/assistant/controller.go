// Package assistant holds the interaction controller: the client-side state
// for one page view and the summarize and chat flows against the backend.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/ai-assistant/internal/backend"
	"github.com/ziadkadry99/ai-assistant/internal/history"
	"github.com/ziadkadry99/ai-assistant/internal/markdown"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// Recorder receives a record of every completed backend exchange.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Controller owns the state of one session. All methods are safe for
// concurrent use.
type Controller struct {
	service   backend.Service
	logger    *zap.Logger
	recorder  Recorder
	sessionID string

	mu            sync.Mutex
	mode          source.Mode
	url           string
	youtubeURL    string
	transcript    *source.Transcript
	question      string
	loading       bool
	summary       string
	currentSource string
	chatVisible   bool
	messages      []Message
	// generation advances on every source reset; results from requests
	// issued under an older generation are dropped.
	generation uint64
	subs       map[chan State]struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for request failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder journals completed exchanges.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// WithMode sets the initially active mode.
func WithMode(m source.Mode) Option {
	return func(c *Controller) {
		if m.Valid() {
			c.mode = m
		}
	}
}

// New creates a controller in web mode with a fresh session identifier.
func New(service backend.Service, opts ...Option) *Controller {
	c := &Controller{
		service:   service,
		logger:    zap.NewNop(),
		sessionID: uuid.New().String(),
		mode:      source.ModeWeb,
		subs:      make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the identifier sent with every chat request.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// SetMode switches the active tab. Switching alone does not clear state.
func (c *Controller) SetMode(m source.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w %q", source.ErrUnknownMode, m)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == m {
		return nil
	}
	c.mode = m
	c.publishLocked()
	return nil
}

// SetURL updates the web page URL.
func (c *Controller) SetURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url == u {
		return
	}
	c.url = u
	c.resetLocked()
	c.publishLocked()
}

// SetYouTubeURL updates the YouTube video URL.
func (c *Controller) SetYouTubeURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.youtubeURL == u {
		return
	}
	c.youtubeURL = u
	c.resetLocked()
	c.publishLocked()
}

// SetTranscript selects a transcript file. Selecting the same file again
// keeps the current state; nil clears the selection.
func (c *Controller) SetTranscript(t *source.Transcript) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transcript.Equal(t) {
		return
	}
	c.transcript = t
	c.resetLocked()
	c.publishLocked()
}

// SetQuestion updates the pending question input.
func (c *Controller) SetQuestion(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.question == q {
		return
	}
	c.question = q
	c.publishLocked()
}

// resetLocked applies the source-change rule. Caller holds c.mu.
func (c *Controller) resetLocked() {
	c.messages = nil
	c.chatVisible = false
	c.summary = ""
	c.currentSource = ""
	c.generation++
}

// Summarize sends the active source to its summarize route and stores the
// cleaned result. On failure the previous summary is kept.
func (c *Controller) Summarize(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	mode := c.mode
	req := backend.SummarizeRequest{Mode: mode}
	var label string
	switch mode {
	case source.ModeWeb:
		req.URL, label = c.url, c.url
	case source.ModeYouTube:
		req.URL, label = c.youtubeURL, c.youtubeURL
	case source.ModeTranscript:
		req.File = c.transcript
		if c.transcript != nil {
			label = c.transcript.Name
		}
	}
	if label == "" {
		c.mu.Unlock()
		return ErrNoSource
	}
	c.loading = true
	gen := c.generation
	c.publishLocked()
	c.mu.Unlock()

	text, err := c.service.Summarize(ctx, req)

	c.mu.Lock()
	c.loading = false
	stale := gen != c.generation
	var cleaned string
	if err != nil {
		c.logger.Error("summarize failed",
			zap.String("mode", string(mode)),
			zap.String("source", label),
			zap.Error(err),
		)
	} else if !stale {
		cleaned = markdown.Clean(text)
		c.summary = cleaned
		c.currentSource = label
	}
	c.publishLocked()
	c.mu.Unlock()

	c.record(ctx, history.Entry{
		Kind:     history.KindSummarize,
		Mode:     string(mode),
		Source:   label,
		Response: cleaned,
		OK:       err == nil,
		Error:    errString(err),
	})

	if err != nil {
		return fmt.Errorf("summarizing %s: %w", mode.Subject(), err)
	}
	if stale {
		return ErrSuperseded
	}
	return nil
}

// OpenChat shows the chat panel and greets once per source.
func (c *Controller) OpenChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatVisible = true
	if len(c.messages) == 0 {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: Greeting(c.mode)})
	}
	c.publishLocked()
}

// AskPending asks the question currently held in the input field.
func (c *Controller) AskPending(ctx context.Context) error {
	c.mu.Lock()
	q := c.question
	c.mu.Unlock()
	return c.Ask(ctx, q)
}

// Ask appends the question to the transcript, sends it to the active mode's
// chat route and appends the reply. A failed call still appends an
// assistant message (the backend detail or a generic sentence) and returns
// the error.
func (c *Controller) Ask(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	mode := c.mode
	req := backend.ChatRequest{
		Mode:      mode,
		Question:  question,
		SessionID: c.sessionID,
	}
	var label string
	switch mode {
	case source.ModeWeb:
		req.URL, label = c.url, c.url
	case source.ModeYouTube:
		req.URL, label = c.youtubeURL, c.youtubeURL
	case source.ModeTranscript:
		req.File = c.transcript
		if c.transcript != nil {
			label = c.transcript.Name
		}
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Content: question})
	c.loading = true
	gen := c.generation
	c.publishLocked()
	c.mu.Unlock()

	answer, err := c.service.Chat(ctx, req)

	reply := answer
	if err != nil {
		c.logger.Error("chat failed",
			zap.String("mode", string(mode)),
			zap.String("source", label),
			zap.Error(err),
		)
		reply = ChatFailure(mode)
		if detail := backend.DetailOf(err); detail != "" {
			reply = detail
		}
	}

	c.mu.Lock()
	c.loading = false
	c.question = ""
	stale := gen != c.generation
	if !stale {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: reply})
	}
	c.publishLocked()
	c.mu.Unlock()

	c.record(ctx, history.Entry{
		Kind:     history.KindChat,
		Mode:     string(mode),
		Source:   label,
		Question: question,
		Response: reply,
		OK:       err == nil,
		Error:    errString(err),
	})

	if err != nil {
		return fmt.Errorf("asking about %s: %w", mode.Subject(), err)
	}
	if stale {
		return ErrSuperseded
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	st := State{
		SessionID:     c.sessionID,
		Mode:          c.mode,
		URL:           c.url,
		YouTubeURL:    c.youtubeURL,
		Question:      c.question,
		Loading:       c.loading,
		Summary:       c.summary,
		CurrentSource: c.currentSource,
		ChatVisible:   c.chatVisible,
		Messages:      make([]Message, len(c.messages)),
	}
	copy(st.Messages, c.messages)
	if c.transcript != nil {
		st.TranscriptName = c.transcript.Name
		st.TranscriptSize = c.transcript.Size()
	}
	return st
}

// Subscribe returns a channel that receives a snapshot after every state
// change, and a function that ends the subscription. A slow reader misses
// intermediate snapshots but always gets the latest one.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publishLocked pushes the current state to subscribers. Caller holds c.mu.
func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	st := c.snapshotLocked()
	for ch := range c.subs {
		select {
		case ch <- st:
		default:
			// Replace the stale snapshot with the newest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

func (c *Controller) record(ctx context.Context, e history.Entry) {
	if c.recorder == nil {
		return
	}
	e.SessionID = c.sessionID
	if err := c.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		c.logger.Warn("recording exchange", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
