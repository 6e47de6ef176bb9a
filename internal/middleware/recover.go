package middleware

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover converts a handler panic into a logged error and a reply
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var userID int64
				if c.Sender() != nil {
					userID = c.Sender().ID
				}
				logger.Error("Recovered from panic in handler",
					zap.Int64("user_id", userID),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)

				if c.Callback() != nil {
					_ = c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
				} else if c.Chat() != nil {
					_ = c.Send(msgError)
				}
				err = fmt.Errorf("handler panic: %v", r)
			}()
			return next(c)
		}
	}
}
