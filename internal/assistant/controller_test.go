package assistant

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/ai-assistant/internal/backend"
	"github.com/ziadkadry99/ai-assistant/internal/history"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// fakeService records requests and answers from the configured functions.
type fakeService struct {
	mu          sync.Mutex
	summarizes  []backend.SummarizeRequest
	chats       []backend.ChatRequest
	summarizeFn func(backend.SummarizeRequest) (string, error)
	chatFn      func(backend.ChatRequest) (string, error)
}

func (f *fakeService) Summarize(_ context.Context, req backend.SummarizeRequest) (string, error) {
	f.mu.Lock()
	f.summarizes = append(f.summarizes, req)
	fn := f.summarizeFn
	f.mu.Unlock()
	if fn == nil {
		return "summary", nil
	}
	return fn(req)
}

func (f *fakeService) Chat(_ context.Context, req backend.ChatRequest) (string, error) {
	f.mu.Lock()
	f.chats = append(f.chats, req)
	fn := f.chatFn
	f.mu.Unlock()
	if fn == nil {
		return "answer", nil
	}
	return fn(req)
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (m *memoryRecorder) Record(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func TestSummarizeWebCleansOutput(t *testing.T) {
	svc := &fakeService{summarizeFn: func(backend.SummarizeRequest) (string, error) {
		return "**Hello** World", nil
	}}
	c := New(svc)
	c.SetURL("http://example.com")

	require.NoError(t, c.Summarize(context.Background()))

	st := c.Snapshot()
	assert.Equal(t, "Hello World", st.Summary)
	assert.Equal(t, "http://example.com", st.CurrentSource)
	assert.False(t, st.Loading)
	require.Len(t, svc.summarizes, 1)
	assert.Equal(t, source.ModeWeb, svc.summarizes[0].Mode)
	assert.Equal(t, "http://example.com", svc.summarizes[0].URL)
}

func TestSummarizeWithoutSourceIsNoop(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)

	assert.ErrorIs(t, c.Summarize(context.Background()), ErrNoSource)

	// A URL in another tab does not count for the active one.
	c.SetURL("http://example.com")
	require.NoError(t, c.SetMode(source.ModeTranscript))
	assert.ErrorIs(t, c.Summarize(context.Background()), ErrNoSource)

	assert.Empty(t, svc.summarizes)
	assert.False(t, c.Snapshot().Loading)
}

func TestSummarizeTranscriptSendsFile(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, WithMode(source.ModeTranscript))
	file := &source.Transcript{Name: "minutes.pdf", Data: []byte("%PDF")}
	c.SetTranscript(file)

	require.NoError(t, c.Summarize(context.Background()))

	require.Len(t, svc.summarizes, 1)
	assert.Same(t, file, svc.summarizes[0].File)
	assert.Equal(t, "minutes.pdf", c.Snapshot().CurrentSource)
}

func TestSummarizeFailureKeepsPreviousSummary(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)
	c.SetURL("http://example.com")
	require.NoError(t, c.Summarize(context.Background()))

	svc.summarizeFn = func(backend.SummarizeRequest) (string, error) {
		return "", &backend.APIError{Route: "summarize", StatusCode: http.StatusBadRequest, Detail: "forbidden"}
	}
	err := c.Summarize(context.Background())
	require.Error(t, err)
	assert.Equal(t, "forbidden", backend.DetailOf(err))

	st := c.Snapshot()
	assert.Equal(t, "summary", st.Summary)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Messages, "summarize failures are not surfaced in the chat")
}

func TestOpenChatGreetsOnce(t *testing.T) {
	c := New(&fakeService{}, WithMode(source.ModeYouTube))
	c.SetYouTubeURL("https://youtu.be/dQw4w9WgXcQ")

	c.OpenChat()
	c.OpenChat()

	st := c.Snapshot()
	assert.True(t, st.ChatVisible)
	require.Len(t, st.Messages, 1)
	assert.Equal(t, Message{Role: RoleAssistant, Content: "What would you like to know about this YouTube video?"}, st.Messages[0])
}

func TestGreetingPerMode(t *testing.T) {
	assert.Equal(t, "What would you like to know about this web page?", Greeting(source.ModeWeb))
	assert.Equal(t, "What would you like to know about this meeting transcript?", Greeting(source.ModeTranscript))
}

func TestAskAppendsRawAnswer(t *testing.T) {
	svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
		return "**raw** answer", nil
	}}
	c := New(svc, WithSessionID("sess-42"))
	c.SetURL("http://example.com")
	c.OpenChat()
	c.SetQuestion("what is it?")

	require.NoError(t, c.AskPending(context.Background()))

	st := c.Snapshot()
	require.Len(t, st.Messages, 3)
	assert.Equal(t, Message{Role: RoleUser, Content: "what is it?"}, st.Messages[1])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "**raw** answer"}, st.Messages[2])
	assert.Empty(t, st.Question, "question input is cleared")
	assert.False(t, st.Loading)

	require.Len(t, svc.chats, 1)
	assert.Equal(t, backend.ChatRequest{
		Mode:      source.ModeWeb,
		Question:  "what is it?",
		SessionID: "sess-42",
		URL:       "http://example.com",
	}, svc.chats[0])
}

func TestAskEmptyQuestionIsNoop(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)
	c.SetURL("http://example.com")
	c.OpenChat()
	before := len(c.Snapshot().Messages)

	assert.ErrorIs(t, c.Ask(context.Background(), ""), ErrEmptyQuestion)
	assert.ErrorIs(t, c.Ask(context.Background(), "   "), ErrEmptyQuestion)

	assert.Len(t, c.Snapshot().Messages, before)
	assert.Empty(t, svc.chats)
}

func TestAskFailureUsesDetail(t *testing.T) {
	svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
		return "", &backend.APIError{Route: "chat", StatusCode: http.StatusTooManyRequests, Detail: "rate limited"}
	}}
	c := New(svc)
	c.SetURL("http://example.com")
	c.SetQuestion("q")

	err := c.Ask(context.Background(), "q")
	require.Error(t, err)

	st := c.Snapshot()
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "rate limited", st.Messages[1].Content)
	assert.Equal(t, RoleAssistant, st.Messages[1].Role)
	assert.Empty(t, st.Question)
	assert.False(t, st.Loading)
}

func TestAskFailureWithoutDetailUsesGenericSentence(t *testing.T) {
	tests := []struct {
		mode source.Mode
		want string
	}{
		{source.ModeWeb, "An error occurred while processing your question about the web page."},
		{source.ModeYouTube, "An error occurred while processing your question about the YouTube video."},
		{source.ModeTranscript, "An error occurred while processing your question about the meeting transcript."},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
				return "", errors.New("connection refused")
			}}
			c := New(svc, WithMode(tt.mode))

			require.Error(t, c.Ask(context.Background(), "hello?"))

			msgs := c.Snapshot().Messages
			require.Len(t, msgs, 2)
			assert.Equal(t, tt.want, msgs[1].Content)
		})
	}
}

func TestAskTranscriptSendsFileAndSession(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, WithMode(source.ModeTranscript))
	file := &source.Transcript{Name: "standup.txt", Data: []byte("notes")}
	c.SetTranscript(file)

	require.NoError(t, c.Ask(context.Background(), "action items?"))

	require.Len(t, svc.chats, 1)
	assert.Same(t, file, svc.chats[0].File)
	assert.Equal(t, c.SessionID(), svc.chats[0].SessionID)
	assert.Empty(t, svc.chats[0].URL)
}

func TestSourceChangeResetsState(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)
	c.SetURL("http://a.example")
	require.NoError(t, c.Summarize(context.Background()))
	c.OpenChat()
	require.NoError(t, c.Ask(context.Background(), "q"))

	c.SetURL("http://b.example")

	st := c.Snapshot()
	assert.Empty(t, st.Messages)
	assert.False(t, st.ChatVisible)
	assert.Empty(t, st.Summary)
	assert.Empty(t, st.CurrentSource)

	// Chat opens fresh with a new greeting for the new source.
	c.OpenChat()
	assert.Len(t, c.Snapshot().Messages, 1)
}

func TestResetAppliesToEveryReference(t *testing.T) {
	setters := map[string]func(*Controller){
		"url":        func(c *Controller) { c.SetURL("http://x.example") },
		"youtube":    func(c *Controller) { c.SetYouTubeURL("https://youtu.be/dQw4w9WgXcQ") },
		"transcript": func(c *Controller) { c.SetTranscript(&source.Transcript{Name: "t.txt", Data: []byte("t")}) },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			c := New(&fakeService{})
			c.SetURL("http://start.example")
			require.NoError(t, c.Summarize(context.Background()))
			c.OpenChat()

			set(c)

			st := c.Snapshot()
			assert.Empty(t, st.Messages)
			assert.False(t, st.ChatVisible)
			assert.Empty(t, st.Summary)
		})
	}
}

func TestUnchangedReferenceKeepsState(t *testing.T) {
	c := New(&fakeService{})
	c.SetURL("http://example.com")
	require.NoError(t, c.Summarize(context.Background()))
	c.OpenChat()

	c.SetURL("http://example.com")
	c.SetTranscript(nil)

	st := c.Snapshot()
	assert.NotEmpty(t, st.Summary)
	assert.True(t, st.ChatVisible)
}

func TestModeSwitchAloneKeepsState(t *testing.T) {
	c := New(&fakeService{})
	c.SetURL("http://example.com")
	require.NoError(t, c.Summarize(context.Background()))
	c.OpenChat()

	require.NoError(t, c.SetMode(source.ModeYouTube))

	st := c.Snapshot()
	assert.Equal(t, source.ModeYouTube, st.Mode)
	assert.NotEmpty(t, st.Summary)
	assert.Len(t, st.Messages, 1)

	assert.ErrorIs(t, c.SetMode("podcast"), source.ErrUnknownMode)
}

func TestBusyGuardRejectsConcurrentRequests(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{summarizeFn: func(backend.SummarizeRequest) (string, error) {
		close(started)
		<-release
		return "done", nil
	}}
	c := New(svc)
	c.SetURL("http://example.com")

	errc := make(chan error, 1)
	go func() { errc <- c.Summarize(context.Background()) }()
	<-started

	assert.True(t, c.Snapshot().Loading)
	assert.ErrorIs(t, c.Summarize(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Ask(context.Background(), "q"), ErrBusy)
	assert.Empty(t, c.Snapshot().Messages, "a rejected ask appends nothing")

	close(release)
	require.NoError(t, <-errc)
	assert.False(t, c.Snapshot().Loading)
	assert.Equal(t, "done", c.Snapshot().Summary)
}

func TestLateSummaryIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{summarizeFn: func(backend.SummarizeRequest) (string, error) {
		close(started)
		<-release
		return "old page summary", nil
	}}
	c := New(svc)
	c.SetURL("http://old.example")

	errc := make(chan error, 1)
	go func() { errc <- c.Summarize(context.Background()) }()
	<-started

	c.SetURL("http://new.example")
	close(release)

	assert.ErrorIs(t, <-errc, ErrSuperseded)
	st := c.Snapshot()
	assert.Empty(t, st.Summary)
	assert.False(t, st.Loading)
}

func TestLateChatReplyIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
		close(started)
		<-release
		return "stale answer", nil
	}}
	c := New(svc)
	c.SetURL("http://old.example")

	errc := make(chan error, 1)
	go func() { errc <- c.Ask(context.Background(), "q") }()
	<-started

	c.SetURL("http://new.example")
	close(release)

	assert.ErrorIs(t, <-errc, ErrSuperseded)
	assert.Empty(t, c.Snapshot().Messages)
}

func TestUserMessagePrecedesReply(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
		close(started)
		<-release
		return "reply", nil
	}}
	c := New(svc)

	errc := make(chan error, 1)
	go func() { errc <- c.Ask(context.Background(), "first") }()
	<-started

	msgs := c.Snapshot().Messages
	require.Len(t, msgs, 1, "the question is shown before the reply arrives")
	assert.Equal(t, RoleUser, msgs[0].Role)

	close(release)
	require.NoError(t, <-errc)
	msgs = c.Snapshot().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
}

func TestSessionIDStable(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)
	id := c.SessionID()
	require.NotEmpty(t, id)

	require.NoError(t, c.Ask(context.Background(), "one"))
	require.NoError(t, c.SetMode(source.ModeYouTube))
	c.SetYouTubeURL("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, c.Ask(context.Background(), "two"))

	require.Len(t, svc.chats, 2)
	assert.Equal(t, id, svc.chats[0].SessionID)
	assert.Equal(t, id, svc.chats[1].SessionID)
	assert.NotEqual(t, id, New(svc).SessionID())
}

func TestSubscribeReceivesLatestState(t *testing.T) {
	c := New(&fakeService{})
	updates, cancel := c.Subscribe()
	defer cancel()

	c.SetURL("http://a.example")
	c.SetURL("http://b.example")
	c.OpenChat()

	select {
	case st := <-updates:
		assert.Equal(t, "http://b.example", st.URL)
		assert.True(t, st.ChatVisible)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}

	cancel()
	_, open := <-updates
	assert.False(t, open, "channel closes after cancel")
	c.SetURL("http://c.example") // must not panic after cancel
}

func TestRecorderReceivesExchanges(t *testing.T) {
	rec := &memoryRecorder{}
	svc := &fakeService{chatFn: func(backend.ChatRequest) (string, error) {
		return "", &backend.APIError{Route: "chat", StatusCode: 500, Detail: "boom"}
	}}
	c := New(svc, WithRecorder(rec), WithSessionID("s-1"))
	c.SetURL("http://example.com")

	require.NoError(t, c.Summarize(context.Background()))
	require.Error(t, c.Ask(context.Background(), "q"))

	require.Len(t, rec.entries, 2)
	assert.Equal(t, history.KindSummarize, rec.entries[0].Kind)
	assert.True(t, rec.entries[0].OK)
	assert.Equal(t, "s-1", rec.entries[0].SessionID)
	assert.Equal(t, history.KindChat, rec.entries[1].Kind)
	assert.False(t, rec.entries[1].OK)
	assert.Equal(t, "boom", rec.entries[1].Response)
	assert.Equal(t, "boom", rec.entries[1].Error)
}

func TestStateHasSource(t *testing.T) {
	assert.False(t, State{Mode: source.ModeWeb}.HasSource())
	assert.True(t, State{Mode: source.ModeWeb, URL: "u"}.HasSource())
	assert.False(t, State{Mode: source.ModeYouTube, URL: "u"}.HasSource())
	assert.True(t, State{Mode: source.ModeTranscript, TranscriptName: "t.txt"}.HasSource())
}
