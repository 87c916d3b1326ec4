// Package chat owns the conversation: history, back-references from answers
// to their originating questions, and the single in-flight request guard.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/katsu224/asistenteRRHH/pkg/bots"
	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
	"github.com/katsu224/asistenteRRHH/pkg/logger"
	"github.com/katsu224/asistenteRRHH/pkg/providers"
)

// imageCaption is the fixed text accompanying a generated image.
const imageCaption = "Aquí tienes una imagen que ilustra la respuesta:"

// Completer is the slice of the completion client the controller needs.
type Completer interface {
	GetAnswer(ctx context.Context, items []knowledge.Item, question, botName string) (string, error)
	ReExplain(ctx context.Context, items []knowledge.Item, question, priorAnswer, botName string) (string, error)
	GetExample(ctx context.Context, items []knowledge.Item, question, priorAnswer, botName string) (string, error)
	GenerateImageForConcept(ctx context.Context, question, answer string) (*providers.ImageResponse, error)
}

// StreamingCompleter is implemented by completers that can push partial
// answer text while the call is in flight.
type StreamingCompleter interface {
	Completer
	GetAnswerStream(ctx context.Context, items []knowledge.Item, question, botName string, onDelta func(string)) (string, error)
}

// Controller sequences one request at a time against the completion client
// and owns the append-only chat history. Guards run synchronously before any
// provider contact; a second submission while one is outstanding is rejected,
// never queued.
type Controller struct {
	store     *knowledge.Store
	completer Completer
	bot       bots.Bot

	busy atomic.Bool

	mu        sync.RWMutex
	history   []Message
	observers []func([]Message)

	// onDelta, when set, receives raw partial text during a streaming
	// answer. History is only mutated once the call completes.
	onDelta func(string)
}

func NewController(store *knowledge.Store, completer Completer, bot bots.Bot) *Controller {
	return &Controller{store: store, completer: completer, bot: bot}
}

// Bot returns the active bot profile.
func (c *Controller) Bot() bots.Bot { return c.bot }

// Knowledge returns the session knowledge base.
func (c *Controller) Knowledge() *knowledge.Store { return c.store }

// SetStreamSink registers a callback for partial answer text. Optional; only
// used when the completer supports streaming.
func (c *Controller) SetStreamSink(fn func(delta string)) {
	c.onDelta = fn
}

// History returns the messages in chronological order.
func (c *Controller) History() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Subscribe registers an observer called with a history snapshot after every
// append.
func (c *Controller) Subscribe(fn func([]Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Busy reports whether a request is outstanding.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// SubmitQuestion appends the user question, asks the model, and appends the
// answer back-referenced to the question. On generation failure the user
// message stays in the history, no model message is appended, and the
// controller returns to idle.
func (c *Controller) SubmitQuestion(ctx context.Context, text string) (Message, error) {
	if c.store.Len() == 0 {
		return Message{}, ErrEmptyKnowledge
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrBlankQuestion
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Message{}, ErrBusy
	}
	defer c.busy.Store(false)

	question := Message{ID: uuid.NewString(), Role: RoleUser, Text: text}
	c.append(question)

	items := c.store.All()

	var answer string
	var err error
	if sc, ok := c.completer.(StreamingCompleter); ok && c.onDelta != nil {
		answer, err = sc.GetAnswerStream(ctx, items, text, c.bot.Name, c.onDelta)
	} else {
		answer, err = c.completer.GetAnswer(ctx, items, text, c.bot.Name)
	}
	if err != nil {
		logger.WarnCF("chat", "Answer generation failed", map[string]interface{}{
			"question_id": question.ID,
			"error":       err.Error(),
		})
		return Message{}, err
	}

	reply := Message{
		ID:                uuid.NewString(),
		Role:              RoleModel,
		Text:              answer,
		RelatedQuestionID: question.ID,
	}
	c.append(reply)

	logger.InfoCF("chat", "Question answered", map[string]interface{}{
		"question_id": question.ID,
		"answer_id":   reply.ID,
		"answer_len":  len(answer),
	})
	return reply, nil
}

// TriggerAction runs a canned follow-up on a prior model message. The
// appended answer carries the resolved original question's id, not the
// intermediate message's.
func (c *Controller) TriggerAction(ctx context.Context, action Action, messageID string) (Message, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Message{}, ErrBusy
	}
	defer c.busy.Store(false)

	history := c.History()

	target, ok := messageByID(history, messageID)
	if !ok {
		return Message{}, ErrMessageNotFound
	}
	origin, ok := ResolveOriginalQuestion(history, target)
	if !ok {
		return Message{}, ErrQuestionNotFound
	}

	items := c.store.All()

	reply := Message{ID: uuid.NewString(), Role: RoleModel, RelatedQuestionID: origin.ID}
	switch action {
	case ActionExplain:
		text, err := c.completer.ReExplain(ctx, items, origin.Text, target.Text, c.bot.Name)
		if err != nil {
			return Message{}, err
		}
		reply.Text = text
	case ActionExample:
		text, err := c.completer.GetExample(ctx, items, origin.Text, target.Text, c.bot.Name)
		if err != nil {
			return Message{}, err
		}
		reply.Text = text
	case ActionImage:
		img, err := c.completer.GenerateImageForConcept(ctx, origin.Text, target.Text)
		if err != nil {
			return Message{}, err
		}
		reply.Text = imageCaption
		reply.Image = &GeneratedImage{Data: img.Data, MediaType: img.MediaType}
	default:
		return Message{}, fmt.Errorf("unknown action %q", action)
	}

	c.append(reply)

	logger.InfoCF("chat", "Follow-up action completed", map[string]interface{}{
		"action":      string(action),
		"question_id": origin.ID,
		"reply_id":    reply.ID,
	})
	return reply, nil
}

func (c *Controller) append(msg Message) {
	c.mu.Lock()
	c.history = append(c.history, msg)
	snapshot := make([]Message, len(c.history))
	copy(snapshot, c.history)
	observers := c.observers
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func messageByID(history []Message, id string) (Message, bool) {
	for _, m := range history {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}
