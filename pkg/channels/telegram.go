package channels

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/katsu224/asistenteRRHH/pkg/chat"
	"github.com/katsu224/asistenteRRHH/pkg/logger"
)

// TelegramChannel runs the assistant as a long-polling Telegram bot. Plain
// text is a question; /explicar, /ejemplo and /imagen trigger the follow-up
// actions on the latest answer in that chat. Each chat gets its own
// controller (and so its own session history).
type TelegramChannel struct {
	bot     *telego.Bot
	factory ControllerFactory

	mu       sync.Mutex
	sessions map[int64]*chat.Controller
}

func NewTelegramChannel(token string, factory ControllerFactory) (*TelegramChannel, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, err
	}
	return &TelegramChannel{
		bot:      bot,
		factory:  factory,
		sessions: make(map[int64]*chat.Controller),
	}, nil
}

// Run consumes updates until the context is cancelled.
func (t *TelegramChannel) Run(ctx context.Context) error {
	updates, err := t.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return err
	}

	logger.InfoCF("telegram", "Telegram channel started", nil)
	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		go t.handle(ctx, update.Message)
	}
	return nil
}

func (t *TelegramChannel) controllerFor(chatID int64) *chat.Controller {
	t.mu.Lock()
	defer t.mu.Unlock()
	ctrl, ok := t.sessions[chatID]
	if !ok {
		ctrl = t.factory()
		t.sessions[chatID] = ctrl
	}
	return ctrl
}

func (t *TelegramChannel) handle(ctx context.Context, msg *telego.Message) {
	chatID := msg.Chat.ID
	ctrl := t.controllerFor(chatID)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		t.sendText(ctx, chatID, "Hola, soy "+ctrl.Bot().Name+", tu asistente de Recursos Humanos. Pregúntame lo que necesites sobre la documentación cargada.")
	case text == "/explicar":
		t.triggerOnLastAnswer(ctx, ctrl, chatID, chat.ActionExplain)
	case text == "/ejemplo":
		t.triggerOnLastAnswer(ctx, ctrl, chatID, chat.ActionExample)
	case text == "/imagen":
		t.triggerOnLastAnswer(ctx, ctrl, chatID, chat.ActionImage)
	case strings.HasPrefix(text, "/"):
		t.sendText(ctx, chatID, "Comandos disponibles: /explicar, /ejemplo, /imagen.")
	default:
		reply, err := ctrl.SubmitQuestion(ctx, text)
		if err != nil {
			t.sendText(ctx, chatID, chat.UserMessage(err))
			return
		}
		t.sendText(ctx, chatID, reply.Text)
	}
}

func (t *TelegramChannel) triggerOnLastAnswer(ctx context.Context, ctrl *chat.Controller, chatID int64, action chat.Action) {
	last, ok := lastModelMessage(ctrl.History())
	if !ok {
		t.sendText(ctx, chatID, "Todavía no hay ninguna respuesta sobre la que actuar.")
		return
	}

	reply, err := ctrl.TriggerAction(ctx, action, last.ID)
	if err != nil {
		t.sendText(ctx, chatID, chat.UserMessage(err))
		return
	}

	if reply.Image != nil {
		photo := tu.Photo(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(reply.Image.Data), "respuesta.png")))
		photo.Caption = reply.Text
		if _, err := t.bot.SendPhoto(ctx, photo); err != nil {
			logger.WarnCF("telegram", "Failed to send photo", map[string]interface{}{
				"chat_id": chatID,
				"error":   err.Error(),
			})
		}
		return
	}
	t.sendText(ctx, chatID, reply.Text)
}

func (t *TelegramChannel) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		logger.WarnCF("telegram", "Failed to send message", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func lastModelMessage(history []chat.Message) (chat.Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == chat.RoleModel {
			return history[i], true
		}
	}
	return chat.Message{}, false
}
