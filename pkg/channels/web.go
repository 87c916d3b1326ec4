// Package channels exposes the conversation controller on the surfaces an
// employee actually talks through: the browser UI over a websocket gateway
// and Telegram.
package channels

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/katsu224/asistenteRRHH/pkg/bots"
	"github.com/katsu224/asistenteRRHH/pkg/bus"
	"github.com/katsu224/asistenteRRHH/pkg/chat"
	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
	"github.com/katsu224/asistenteRRHH/pkg/logger"
)

// ControllerFactory builds a fresh controller (with its own session
// knowledge store and history) for each attached session.
type ControllerFactory func() *chat.Controller

// WebGateway upgrades browser connections to websockets and speaks a small
// JSON frame protocol: knowledge adds, questions and follow-up actions in;
// history snapshots, stream deltas and errors out. One controller per
// connection; nothing survives the connection.
type WebGateway struct {
	factory  ControllerFactory
	upgrader websocket.Upgrader
}

func NewWebGateway(factory ControllerFactory) *WebGateway {
	return &WebGateway{
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 20, // pasted documents and images arrive inline
			WriteBufferSize: 1 << 20,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type inboundFrame struct {
	Type      string `json:"type"` // question, action, knowledge_text, knowledge_image
	Text      string `json:"text,omitempty"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"` // base64 for knowledge_image
	Action    string `json:"action,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

type outboundFrame struct {
	Type     string        `json:"type"` // bot, history, knowledge, stream, error
	Bot      *bots.Bot     `json:"bot,omitempty"`
	Messages []wireMessage `json:"messages,omitempty"`
	Items    []wireItem    `json:"items,omitempty"`
	Text     string        `json:"text,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type wireMessage struct {
	ID                string     `json:"id"`
	Role              string     `json:"role"`
	Text              string     `json:"text"`
	RelatedQuestionID string     `json:"related_question_id,omitempty"`
	Image             *wireImage `json:"image,omitempty"`
}

type wireImage struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data"` // base64
}

type wireItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (g *WebGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnCF("web", "Websocket upgrade failed", map[string]interface{}{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		})
		return
	}
	defer conn.Close()

	session := newWebSession(conn, g.factory())
	session.run(r.Context())
}

// webSession is one attached browser session.
type webSession struct {
	conn *websocket.Conn
	ctrl *chat.Controller

	outbound chan outboundFrame

	// current receives answer deltas while a question is streaming.
	streamMu sync.Mutex
	current  *bus.StreamNotifier
}

func newWebSession(conn *websocket.Conn, ctrl *chat.Controller) *webSession {
	s := &webSession{
		conn:     conn,
		ctrl:     ctrl,
		outbound: make(chan outboundFrame, 16),
	}

	ctrl.Subscribe(func(history []chat.Message) {
		s.send(outboundFrame{Type: "history", Messages: toWireMessages(history)})
	})
	ctrl.Knowledge().Subscribe(func(items []knowledge.Item) {
		s.send(outboundFrame{Type: "knowledge", Items: toWireItems(items)})
	})
	ctrl.SetStreamSink(func(delta string) {
		s.streamMu.Lock()
		n := s.current
		s.streamMu.Unlock()
		if n != nil {
			n.Append(delta)
		}
	})
	return s
}

func (s *webSession) run(ctx context.Context) {
	done := make(chan struct{})
	go s.writeLoop(done)
	defer close(done)

	bot := s.ctrl.Bot()
	s.send(outboundFrame{Type: "bot", Bot: &bot})

	for {
		var frame inboundFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case "question":
			// Run async so the read loop stays responsive; the
			// controller's guard rejects overlapping submissions.
			go s.handleQuestion(ctx, frame.Text)
		case "action":
			go s.handleAction(ctx, chat.Action(frame.Action), frame.MessageID)
		case "knowledge_text":
			s.handleKnowledgeText(frame.Name, frame.Text)
		case "knowledge_image":
			s.handleKnowledgeImage(frame.Name, frame.MediaType, frame.Data)
		default:
			s.sendError("Tipo de mensaje desconocido.")
		}
	}
}

func (s *webSession) writeLoop(done chan struct{}) {
	for {
		select {
		case frame := <-s.outbound:
			if err := s.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *webSession) handleQuestion(ctx context.Context, text string) {
	notifier := bus.NewStreamNotifier(0, func(fullText string) {
		s.send(outboundFrame{Type: "stream", Text: fullText})
	})
	s.streamMu.Lock()
	s.current = notifier
	s.streamMu.Unlock()

	_, err := s.ctrl.SubmitQuestion(ctx, text)

	s.streamMu.Lock()
	s.current = nil
	s.streamMu.Unlock()
	notifier.Flush()

	if err != nil {
		s.sendError(chat.UserMessage(err))
	}
}

func (s *webSession) handleAction(ctx context.Context, action chat.Action, messageID string) {
	if _, err := s.ctrl.TriggerAction(ctx, action, messageID); err != nil {
		s.sendError(chat.UserMessage(err))
	}
}

func (s *webSession) handleKnowledgeText(name, text string) {
	item, err := knowledge.IngestText(name, text)
	if err != nil {
		s.sendError("No se ha podido añadir el texto a la base de conocimiento.")
		return
	}
	s.ctrl.Knowledge().Add(item)
}

func (s *webSession) handleKnowledgeImage(name, mediaType, data string) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || mediaType == "" || len(raw) == 0 {
		s.sendError("No se ha podido añadir la imagen a la base de conocimiento.")
		return
	}
	s.ctrl.Knowledge().Add(knowledge.NewImageItem(name, raw, mediaType))
}

func (s *webSession) send(frame outboundFrame) {
	select {
	case s.outbound <- frame:
	default:
		// Slow consumer; drop rather than block the controller.
		logger.DebugCF("web", "Dropping outbound frame", map[string]interface{}{
			"type": frame.Type,
		})
	}
}

func (s *webSession) sendError(msg string) {
	s.send(outboundFrame{Type: "error", Message: msg})
}

func toWireMessages(history []chat.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, m := range history {
		wm := wireMessage{
			ID:                m.ID,
			Role:              string(m.Role),
			Text:              m.Text,
			RelatedQuestionID: m.RelatedQuestionID,
		}
		if m.Image != nil {
			wm.Image = &wireImage{
				MediaType: m.Image.MediaType,
				Data:      base64.StdEncoding.EncodeToString(m.Image.Data),
			}
		}
		out = append(out, wm)
	}
	return out
}

func toWireItems(items []knowledge.Item) []wireItem {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		out = append(out, wireItem{ID: it.ID, Name: it.Name, Kind: string(it.Kind)})
	}
	return out
}
