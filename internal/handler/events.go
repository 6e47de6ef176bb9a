package handler

import (
	"strings"
	"unicode"

	"github.com/M0SENI/VisaBot/internal/dispatcher"
	"github.com/M0SENI/VisaBot/internal/flow"
	"github.com/M0SENI/VisaBot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// inputOf reduces a message to what the flow steps look at
func inputOf(m *tele.Message) flow.Input {
	switch {
	case m.Photo != nil:
		return flow.Input{Kind: flow.KindPhoto, FileID: m.Photo.FileID, Text: m.Caption}
	case m.Video != nil:
		return flow.Input{Kind: flow.KindVideo, FileID: m.Video.FileID, MIME: m.Video.MIME, Text: m.Caption}
	case m.Document != nil:
		return flow.Input{Kind: flow.KindDocument, FileID: m.Document.FileID, MIME: m.Document.MIME, Text: m.Caption}
	default:
		return flow.Input{Kind: flow.KindText, Text: m.Text}
	}
}

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	registered, _ := c.Get(middleware.RegisteredKey).(bool)

	h.logger.Info("User started bot",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("username", c.Sender().Username),
		zap.Bool("registered", registered),
	)

	ctx, cancel := eventContext()
	defer cancel()
	h.dispatcher.Start(ctx, c.Sender().ID, chatID(c), registered)
	return nil
}

// handleCancel handles /cancel command
func (h *Handler) handleCancel(c tele.Context) error {
	ctx, cancel := eventContext()
	defer cancel()
	h.dispatcher.Cancel(ctx, c.Sender().ID, chatID(c))
	return nil
}

// handleMessage handles text and media messages
func (h *Handler) handleMessage(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Sender() == nil {
		return nil
	}

	ctx, cancel := eventContext()
	defer cancel()
	h.dispatcher.HandleMessage(ctx, dispatcher.Message{
		UserID: c.Sender().ID,
		ChatID: chatID(c),
		Input:  inputOf(msg),
	})
	return nil
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.Int64("user_id", c.Sender().ID),
	)

	cmd := dispatcher.Command{
		UserID:     c.Sender().ID,
		ChatID:     chatID(c),
		CallbackID: callback.ID,
		Data:       data,
	}
	if callback.Message != nil {
		cmd.MessageID = callback.Message.ID
	}

	ctx, cancel := eventContext()
	defer cancel()
	h.dispatcher.HandleCommand(ctx, cmd)
	return nil
}
