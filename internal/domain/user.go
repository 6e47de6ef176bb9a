package domain

import "time"

// User represents a bot user
type User struct {
	UserID              int64
	Username            string
	FirstName           string
	LastName            string
	FullName            string
	Address             string
	Mobile              string
	PassportFileID      string
	VerificationVideoID string
	ReferralCode        string
	ReferredBy          *int64
	CreatedAt           time.Time
}

// DisplayName returns the best available human name
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
