package history

import "time"

// Kind says which flow produced an entry.
type Kind string

const (
	KindSummarize Kind = "summarize"
	KindChat      Kind = "chat"
)

// Entry is one completed backend exchange.
type Entry struct {
	ID        string
	Timestamp time.Time
	SessionID string
	Kind      Kind
	Mode      string
	Source    string
	Question  string
	Response  string
	OK        bool
	Error     string
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	SessionID string
	Mode      string
	Kind      Kind
	Since     *time.Time
	Limit     int
}
