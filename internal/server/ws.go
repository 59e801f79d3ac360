package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/ai-assistant/internal/assistant"
	"github.com/ziadkadry99/ai-assistant/internal/markdown"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	FileName string `json:"file_name,omitempty"`
	FileData string `json:"file_data,omitempty"` // base64
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type        string           `json:"type"` // "state" or "error"
	State       *assistant.State `json:"state,omitempty"`
	SummaryHTML string           `json:"summary_html,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// handleWebSocket runs one page session. Closing the socket cancels any
// request still in flight.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctrl := s.newController()
	log := s.logger.With(zap.String("session_id", ctrl.SessionID()))
	log.Debug("page session started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, unsubscribe := ctrl.Subscribe()
	errs := make(chan string, 8)

	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeLoop(conn, log, ctrl.Snapshot(), updates, errs)
	}()

	var inflight sync.WaitGroup
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendError(errs, "invalid message format")
			continue
		}
		if err := s.dispatch(ctx, ctrl, msg, &inflight, log); err != nil {
			sendError(errs, err.Error())
		}
	}

	cancel()
	inflight.Wait()
	unsubscribe()
	writer.Wait()
	log.Debug("page session ended")
}

// dispatch applies one client message. Network-bound operations run on
// their own goroutine so the socket keeps reading.
func (s *Server) dispatch(ctx context.Context, ctrl *assistant.Controller, msg clientMessage, inflight *sync.WaitGroup, log *zap.Logger) error {
	switch msg.Type {
	case "mode":
		mode, err := source.ParseMode(msg.Value)
		if err != nil {
			return err
		}
		return ctrl.SetMode(mode)
	case "url":
		ctrl.SetURL(msg.Value)
	case "youtube_url":
		ctrl.SetYouTubeURL(msg.Value)
	case "transcript":
		if msg.FileName == "" {
			ctrl.SetTranscript(nil)
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(msg.FileData)
		if err != nil {
			return errors.New("transcript file is not valid base64")
		}
		if !source.AcceptsTranscript(msg.FileName) {
			log.Info("transcript outside accept list", zap.String("file", msg.FileName))
		}
		ctrl.SetTranscript(&source.Transcript{Name: msg.FileName, Data: data})
	case "question":
		ctrl.SetQuestion(msg.Value)
	case "open_chat":
		ctrl.OpenChat()
	case "summarize":
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if err := ctrl.Summarize(ctx); err != nil {
				log.Debug("summarize ended", zap.Error(err))
			}
		}()
	case "ask":
		if msg.Value != "" {
			ctrl.SetQuestion(msg.Value)
		}
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if err := ctrl.AskPending(ctx); err != nil {
				log.Debug("ask ended", zap.Error(err))
			}
		}()
	default:
		return errors.New("unknown message type: " + msg.Type)
	}
	return nil
}

// writeLoop is the only goroutine writing to conn.
func (s *Server) writeLoop(conn *websocket.Conn, log *zap.Logger, initial assistant.State, updates <-chan assistant.State, errs <-chan string) {
	if err := conn.WriteJSON(stateMessage(initial, log)); err != nil {
		log.Debug("websocket write", zap.Error(err))
		return
	}
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(stateMessage(st, log)); err != nil {
				log.Debug("websocket write", zap.Error(err))
				return
			}
		case text := <-errs:
			if err := conn.WriteJSON(serverMessage{Type: "error", Error: text}); err != nil {
				log.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}

func stateMessage(st assistant.State, log *zap.Logger) serverMessage {
	msg := serverMessage{Type: "state", State: &st}
	if st.Summary != "" {
		html, err := markdown.ToHTML(st.Summary)
		if err != nil {
			log.Warn("rendering summary", zap.Error(err))
		} else {
			msg.SummaryHTML = html
		}
	}
	return msg
}

func sendError(errs chan<- string, text string) {
	select {
	case errs <- text:
	default:
	}
}
