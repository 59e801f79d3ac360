package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for values outside the three modes.
var ErrUnknownMode = errors.New("unknown source mode")

// Mode selects which input kind is active and which pair of backend
// routes it talks to.
type Mode string

const (
	ModeWeb        Mode = "web"
	ModeYouTube    Mode = "youtube"
	ModeTranscript Mode = "transcript"
)

// Modes lists every mode in tab order.
var Modes = []Mode{ModeWeb, ModeYouTube, ModeTranscript}

// ParseMode converts user input into a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWeb:
		return ModeWeb, nil
	case ModeYouTube:
		return ModeYouTube, nil
	case ModeTranscript:
		return ModeTranscript, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of web, youtube, transcript", ErrUnknownMode, s)
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeWeb, ModeYouTube, ModeTranscript:
		return true
	}
	return false
}

// SummarizeRoute is the backend path (without leading slash) for summarize calls.
func (m Mode) SummarizeRoute() string {
	switch m {
	case ModeYouTube:
		return "summarize-youtube"
	case ModeTranscript:
		return "summarize-transcript"
	default:
		return "summarize"
	}
}

// ChatRoute is the backend path (without leading slash) for chat calls.
func (m Mode) ChatRoute() string {
	switch m {
	case ModeYouTube:
		return "chat-youtube"
	case ModeTranscript:
		return "chat-transcript"
	default:
		return "chat"
	}
}

// Subject names what the mode's source is, for greetings and error text.
func (m Mode) Subject() string {
	switch m {
	case ModeYouTube:
		return "YouTube video"
	case ModeTranscript:
		return "meeting transcript"
	default:
		return "web page"
	}
}

// Label is the tab title shown by front ends.
func (m Mode) Label() string {
	switch m {
	case ModeYouTube:
		return "YouTube"
	case ModeTranscript:
		return "Meeting Transcript"
	default:
		return "Web URL"
	}
}

// UsesFile reports whether the mode's reference is a file rather than a URL.
func (m Mode) UsesFile() bool {
	return m == ModeTranscript
}
