package dispatcher

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// reply sends a new message
func (d *Dispatcher) reply(ctx context.Context, chatID int64, p Prompt) {
	if _, err := d.transport.Send(ctx, chatID, p); err != nil {
		d.logger.Warn("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// show replaces the message that carried the pressed button.
// Photos cannot be edited into text, so photo prompts are deleted and resent.
func (d *Dispatcher) show(ctx context.Context, cmd *Command, p Prompt) {
	if p.PhotoID != "" {
		d.replace(ctx, cmd, p)
		return
	}

	err := d.transport.Edit(ctx, cmd.ChatID, cmd.MessageID, p)
	if err == nil {
		return
	}
	// same content pressed twice
	if strings.Contains(err.Error(), "message is not modified") {
		return
	}

	d.logger.Warn("Failed to edit message, sending new",
		zap.Int64("chat_id", cmd.ChatID),
		zap.Int("message_id", cmd.MessageID),
		zap.Error(err),
	)
	d.reply(ctx, cmd.ChatID, p)
}

// replace deletes the message that carried the pressed button and sends p
func (d *Dispatcher) replace(ctx context.Context, cmd *Command, p Prompt) {
	if cmd.MessageID != 0 {
		if err := d.transport.Delete(ctx, cmd.ChatID, cmd.MessageID); err != nil {
			d.logger.Debug("Failed to delete message", zap.Int("message_id", cmd.MessageID), zap.Error(err))
		}
	}
	d.reply(ctx, cmd.ChatID, p)
}

func (d *Dispatcher) answer(ctx context.Context, cmd *Command, text string, alert bool) {
	cmd.answered = true
	if cmd.CallbackID == "" {
		return
	}
	if err := d.transport.Answer(ctx, cmd.CallbackID, text, alert); err != nil {
		d.logger.Warn("Failed to answer callback", zap.String("callback_id", cmd.CallbackID), zap.Error(err))
	}
}

// alert answers the button press with a popup
func (d *Dispatcher) alert(ctx context.Context, cmd *Command, text string) {
	d.answer(ctx, cmd, text, true)
}
