package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referralCodeLength = 8

// Profile is what the chat platform tells us about a sender
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// UserService handles user registration
type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Get returns a user by Telegram ID
func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// EnsureUser returns the user, creating the record on first contact.
// created reports whether the record is new. referralCode is the /start
// payload; unknown or own codes are ignored.
func (s *UserService) EnsureUser(ctx context.Context, p Profile, referralCode string) (user *domain.User, created bool, err error) {
	user, err = s.userRepo.GetUser(ctx, p.UserID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user = &domain.User{
		UserID:       p.UserID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		ReferralCode: newReferralCode(),
	}

	if code := strings.TrimSpace(referralCode); code != "" {
		referrer, err := s.userRepo.GetUserByReferralCode(ctx, strings.ToUpper(code))
		switch {
		case err == nil && referrer.UserID != p.UserID:
			user.ReferredBy = &referrer.UserID
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("Failed to resolve referral code", zap.String("code", code), zap.Error(err))
		}
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.UserID),
		zap.Bool("referred", user.ReferredBy != nil),
	)
	return user, true, nil
}

func newReferralCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:referralCodeLength])
}
