package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `user_id, username, first_name, last_name, full_name, address, mobile,
		passport_file_id, verification_video_id, referral_code, referred_by, created_at`

// GetUser returns the user with the given Telegram ID
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// GetUserByReferralCode returns the owner of a referral code
func (r *UserRepo) GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

// CreateUser inserts a user; an existing user is left untouched
func (r *UserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING created_at
	`
	var referredBy sql.NullInt64
	if user.ReferredBy != nil {
		referredBy = sql.NullInt64{Int64: *user.ReferredBy, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		user.UserID,
		nullString(user.Username),
		nullString(user.FirstName),
		nullString(user.LastName),
		user.ReferralCode,
		referredBy,
	).Scan(&user.CreatedAt)

	// ON CONFLICT DO NOTHING returns no row
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u                                                  domain.User
		username, firstName, lastName, fullName            sql.NullString
		address, mobile, passportFileID, verificationVideo sql.NullString
		referralCode                                       sql.NullString
		referredBy                                         sql.NullInt64
	)

	err := row.Scan(
		&u.UserID, &username, &firstName, &lastName, &fullName, &address, &mobile,
		&passportFileID, &verificationVideo, &referralCode, &referredBy, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.FullName = fullName.String
	u.Address = address.String
	u.Mobile = mobile.String
	u.PassportFileID = passportFileID.String
	u.VerificationVideoID = verificationVideo.String
	u.ReferralCode = referralCode.String
	if referredBy.Valid {
		id := referredBy.Int64
		u.ReferredBy = &id
	}
	return &u, nil
}
