package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var userCols = []string{
	"user_id", "username", "first_name", "last_name", "full_name", "address", "mobile",
	"passport_file_id", "verification_video_id", "referral_code", "referred_by", "created_at",
}

func TestUserRepo_GetUser(t *testing.T) {
	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedError error
	}{
		{
			name:   "user found",
			userID: 123,
			mockRows: sqlmock.NewRows(userCols).
				AddRow(123, "john", "John", nil, "John Smith", "12 Main St", "09121234567", "ph1", "vid1", "ABCD1234", int64(99), time.Now()),
		},
		{
			name:          "user not exists",
			userID:        456,
			mockError:     sql.ErrNoRows,
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			query := "SELECT (.+) FROM users WHERE user_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			user, err := repo.GetUser(context.Background(), tt.userID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.userID, user.UserID)
				assert.Equal(t, "John Smith", user.FullName)
				assert.Equal(t, "", user.LastName)
				if assert.NotNil(t, user.ReferredBy) {
					assert.Equal(t, int64(99), *user.ReferredBy)
				}
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetUserByReferralCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE referral_code = \\$1").
		WithArgs("ABCD1234").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(77, nil, "Ann", nil, nil, nil, nil, nil, nil, "ABCD1234", nil, time.Now()))

	user, err := repo.GetUserByReferralCode(context.Background(), "ABCD1234")

	assert.NoError(t, err)
	assert.Equal(t, int64(77), user.UserID)
	assert.Nil(t, user.ReferredBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	referrer := int64(77)
	user := &domain.User{
		UserID:       123,
		Username:     "john",
		FirstName:    "John",
		ReferralCode: "QWER5678",
		ReferredBy:   &referrer,
	}
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(123), "john", "John", nil, "QWER5678", int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	err = repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateUser_AlreadyExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	// ON CONFLICT DO NOTHING yields no row
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(123), nil, nil, nil, "QWER5678", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	err = repo.CreateUser(context.Background(), &domain.User{UserID: 123, ReferralCode: "QWER5678"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
