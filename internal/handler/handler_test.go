package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/M0SENI/VisaBot/internal/dispatcher"
	"github.com/M0SENI/VisaBot/internal/flow"
	"github.com/M0SENI/VisaBot/internal/middleware"
	"github.com/M0SENI/VisaBot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type startCall struct {
	UserID, ChatID int64
	Registered     bool
}

type fakeDispatcher struct {
	mu       sync.Mutex
	messages []dispatcher.Message
	commands []dispatcher.Command
	starts   []startCall
	cancels  []int64
}

func (f *fakeDispatcher) HandleMessage(_ context.Context, msg dispatcher.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeDispatcher) HandleCommand(_ context.Context, cmd dispatcher.Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
}

func (f *fakeDispatcher) Start(_ context.Context, userID, chatID int64, registered bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, startCall{UserID: userID, ChatID: chatID, Registered: registered})
}

func (f *fakeDispatcher) Cancel(_ context.Context, userID, _ int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, userID)
}

func newTestHandler(t *testing.T) (*Handler, *fakeDispatcher) {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Token: "test", Offline: true})
	require.NoError(t, err)

	d := &fakeDispatcher{}
	return NewHandler(bot, d, testutil.NewTestLogger()), d
}

func userMessage(m *tele.Message) tele.Update {
	m.Sender = &tele.User{ID: 42, Username: "john"}
	m.Chat = &tele.Chat{ID: 42}
	return tele.Update{Message: m}
}

func TestInputOf(t *testing.T) {
	tests := []struct {
		name     string
		message  *tele.Message
		expected flow.Input
	}{
		{
			name:     "text",
			message:  &tele.Message{Text: "John Smith"},
			expected: flow.Input{Kind: flow.KindText, Text: "John Smith"},
		},
		{
			name:     "photo with caption",
			message:  &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p1"}}, Caption: "passport"},
			expected: flow.Input{Kind: flow.KindPhoto, FileID: "p1", Text: "passport"},
		},
		{
			name:     "video",
			message:  &tele.Message{Video: &tele.Video{File: tele.File{FileID: "v1"}, MIME: "video/mp4"}},
			expected: flow.Input{Kind: flow.KindVideo, FileID: "v1", MIME: "video/mp4"},
		},
		{
			name:     "document",
			message:  &tele.Message{Document: &tele.Document{File: tele.File{FileID: "d1"}, MIME: "video/quicktime"}},
			expected: flow.Input{Kind: flow.KindDocument, FileID: "d1", MIME: "video/quicktime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, inputOf(tt.message))
		})
	}
}

func TestHandler_HandleMessage(t *testing.T) {
	h, d := newTestHandler(t)
	c := h.bot.NewContext(userMessage(&tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p1"}}}))

	require.NoError(t, h.handleMessage(c))

	require.Len(t, d.messages, 1)
	assert.Equal(t, dispatcher.Message{
		UserID: 42,
		ChatID: 42,
		Input:  flow.Input{Kind: flow.KindPhoto, FileID: "p1"},
	}, d.messages[0])
}

func TestHandler_HandleCallback(t *testing.T) {
	h, d := newTestHandler(t)
	c := h.bot.NewContext(tele.Update{Callback: &tele.Callback{
		ID:      "cb1",
		Data:    " admin:view_product:3\n",
		Sender:  &tele.User{ID: 1000},
		Message: &tele.Message{ID: 77, Chat: &tele.Chat{ID: 1000}},
	}})

	require.NoError(t, h.handleCallback(c))

	require.Len(t, d.commands, 1)
	assert.Equal(t, dispatcher.Command{
		UserID:     1000,
		ChatID:     1000,
		MessageID:  77,
		CallbackID: "cb1",
		Data:       "admin:view_product:3",
	}, d.commands[0])
}

func TestHandler_HandleStart(t *testing.T) {
	h, d := newTestHandler(t)
	c := h.bot.NewContext(userMessage(&tele.Message{Text: "/start"}))
	c.Set(middleware.RegisteredKey, true)

	require.NoError(t, h.handleStart(c))
	require.NoError(t, h.handleCancel(c))

	assert.Equal(t, []startCall{{UserID: 42, ChatID: 42, Registered: true}}, d.starts)
	assert.Equal(t, []int64{42}, d.cancels)
}
