package assistant

import (
	"errors"

	"github.com/ziadkadry99/ai-assistant/internal/source"
)

var (
	// ErrNoSource is returned by Summarize when the active mode has no reference.
	ErrNoSource = errors.New("no source selected")
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrBusy is returned while another request is outstanding.
	ErrBusy = errors.New("a request is already in progress")
	// ErrSuperseded is returned when the source changed while a request was
	// in flight and its result was dropped.
	ErrSuperseded = errors.New("source changed while the request was in flight")
)

// Role tags who produced a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State is a point-in-time copy of everything a front end renders.
type State struct {
	SessionID      string      `json:"session_id"`
	Mode           source.Mode `json:"mode"`
	URL            string      `json:"url"`
	YouTubeURL     string      `json:"youtube_url"`
	TranscriptName string      `json:"transcript_name,omitempty"`
	TranscriptSize int         `json:"transcript_size,omitempty"`
	Question       string      `json:"question"`
	Loading        bool        `json:"loading"`
	Summary        string      `json:"summary"`
	CurrentSource  string      `json:"current_source,omitempty"`
	ChatVisible    bool        `json:"chat_visible"`
	Messages       []Message   `json:"messages"`
}

// HasSource reports whether the active mode has a usable reference.
func (s State) HasSource() bool {
	switch s.Mode {
	case source.ModeYouTube:
		return s.YouTubeURL != ""
	case source.ModeTranscript:
		return s.TranscriptName != ""
	default:
		return s.URL != ""
	}
}

// Greeting is the first assistant message shown when chat opens for a source.
func Greeting(m source.Mode) string {
	return "What would you like to know about this " + m.Subject() + "?"
}

// ChatFailure is the assistant message used when a chat call fails without
// a backend detail.
func ChatFailure(m source.Mode) string {
	return "An error occurred while processing your question about the " + m.Subject() + "."
}
