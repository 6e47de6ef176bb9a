package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RegisteredKey holds true in the context when the sender was registered by this update
const RegisteredKey = "registered"

const (
	registerTimeout = 10 * time.Second
	msgError        = "An error occurred. Please try again later."
)

// UserRegistrar creates user records on first contact
type UserRegistrar interface {
	EnsureUser(ctx context.Context, p service.Profile, referralCode string) (*domain.User, bool, error)
}

// EnsureUser makes sure every sender has a user record before any handler runs
func EnsureUser(users UserRegistrar, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), registerTimeout)
			defer cancel()

			profile := service.Profile{
				UserID:    sender.ID,
				Username:  sender.Username,
				FirstName: sender.FirstName,
				LastName:  sender.LastName,
			}
			_, created, err := users.EnsureUser(ctx, profile, startPayload(c))
			if err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
				}
				return c.Send(msgError)
			}

			c.Set(RegisteredKey, created)
			return next(c)
		}
	}
}

// startPayload returns the referral code of a /start command, if any.
// telebot fills Payload for every command and strips the @botname suffix.
func startPayload(c tele.Context) string {
	if c.Callback() != nil {
		return ""
	}
	msg := c.Message()
	if msg == nil {
		return ""
	}
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return ""
	}
	if command, _, _ := strings.Cut(fields[0], "@"); command != "/start" {
		return ""
	}
	return strings.TrimSpace(msg.Payload)
}
