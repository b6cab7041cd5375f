package dto

import "time"

type UserOutput struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	DateJoined          time.Time `json:"date_joined"`
	IsEmailVerified     bool      `json:"is_email_verified"`
	LastLoginIP         *string   `json:"last_login_ip"`
	FailedLoginAttempts int       `json:"failed_login_attempts"`
}

// UpdateProfileInput lists the only fields a user may change on their own
// profile. Identity and security counters are never merged from input.
type UpdateProfileInput struct {
	Username *string `json:"username"`
}

type TokenResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *UserOutput `json:"user,omitempty"`
}
