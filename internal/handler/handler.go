package handler

import (
	"context"
	"time"

	"github.com/M0SENI/VisaBot/internal/dispatcher"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// eventTimeout bounds the storage work done for one update
const eventTimeout = 30 * time.Second

// Dispatcher is the conversation core the handlers feed
type Dispatcher interface {
	HandleMessage(ctx context.Context, msg dispatcher.Message)
	HandleCommand(ctx context.Context, cmd dispatcher.Command)
	Start(ctx context.Context, userID, chatID int64, registered bool)
	Cancel(ctx context.Context, userID, chatID int64)
}

// Handler turns telebot updates into dispatcher events
type Handler struct {
	bot        *tele.Bot
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, d Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		bot:        bot,
		dispatcher: d,
		logger:     logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	// Flow input. Unregistered commands such as /done arrive as text.
	h.bot.Handle(tele.OnText, h.handleMessage)
	h.bot.Handle(tele.OnPhoto, h.handleMessage)
	h.bot.Handle(tele.OnVideo, h.handleMessage)
	h.bot.Handle(tele.OnDocument, h.handleMessage)

	// Every inline button carries namespace:action data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

func eventContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), eventTimeout)
}

// chatID falls back to the sender for updates without a chat
func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}
