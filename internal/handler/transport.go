package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/M0SENI/VisaBot/internal/dispatcher"

	tele "gopkg.in/telebot.v3"
)

var _ dispatcher.Transport = (*Transport)(nil)

// botAPI is the part of *tele.Bot the transport uses
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
	SendAlbum(to tele.Recipient, a tele.Album, opts ...interface{}) ([]tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Transport delivers dispatcher prompts through the Telegram Bot API
type Transport struct {
	bot botAPI
}

// NewTransport creates a transport over bot
func NewTransport(bot botAPI) *Transport {
	return &Transport{bot: bot}
}

func (t *Transport) Send(_ context.Context, chatID int64, p dispatcher.Prompt) (int, error) {
	var what interface{} = p.Text
	if p.PhotoID != "" {
		what = &tele.Photo{File: tele.File{FileID: p.PhotoID}, Caption: p.Text}
	}

	msg, err := t.bot.Send(tele.ChatID(chatID), what, markupOptions(p.Keyboard)...)
	if err != nil {
		return 0, fmt.Errorf("send to %d: %w", chatID, err)
	}
	return msg.ID, nil
}

func (t *Transport) Edit(_ context.Context, chatID int64, messageID int, p dispatcher.Prompt) error {
	stored := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if _, err := t.bot.Edit(stored, p.Text, markupOptions(p.Keyboard)...); err != nil {
		return fmt.Errorf("edit %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (t *Transport) Delete(_ context.Context, chatID int64, messageID int) error {
	stored := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if err := t.bot.Delete(stored); err != nil {
		return fmt.Errorf("delete %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (t *Transport) SendAlbum(_ context.Context, chatID int64, media []dispatcher.Media) error {
	album := make(tele.Album, 0, len(media))
	for _, m := range media {
		file := tele.File{FileID: m.FileID}
		switch m.Kind {
		case dispatcher.MediaVideo:
			album = append(album, &tele.Video{File: file, Caption: m.Caption})
		default:
			album = append(album, &tele.Photo{File: file, Caption: m.Caption})
		}
	}

	if _, err := t.bot.SendAlbum(tele.ChatID(chatID), album); err != nil {
		return fmt.Errorf("send album to %d: %w", chatID, err)
	}
	return nil
}

func (t *Transport) Answer(_ context.Context, callbackID, text string, alert bool) error {
	return t.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{Text: text, ShowAlert: alert})
}

// markupOptions renders a keyboard as send options; no keyboard means no options
func markupOptions(kb [][]dispatcher.Button) []interface{} {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, r := range kb {
		row := make([]tele.InlineButton, 0, len(r))
		for _, b := range r {
			row = append(row, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		rows = append(rows, row)
	}
	return []interface{}{&tele.ReplyMarkup{InlineKeyboard: rows}}
}
