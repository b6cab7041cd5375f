package domain

import "time"

type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	IsActive            bool
	IsEmailVerified     bool
	LastLoginIP         *string
	FailedLoginAttempts int
	AccountLockedUntil  *time.Time
	DateJoined          time.Time
	UpdatedAt           time.Time
}

// IsAccountLocked reports whether the account is currently locked due to
// failed login attempts. An expired lock timestamp does not count as
// locked, even though the stale fields persist until the next unlock.
func (u *User) IsAccountLocked() bool {
	return u.AccountLockedUntil != nil && time.Now().Before(*u.AccountLockedUntil)
}

// LoginAttempt is an immutable audit record. UserID is set only when the
// submitted email resolved to an existing user.
type LoginAttempt struct {
	ID        string
	Email     string
	IPAddress string
	UserAgent string
	Success   bool
	UserID    *string
	CreatedAt time.Time
}

type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// IsValid reports whether the token can still redeem a password reset:
// never used and not yet expired.
func (t *PasswordResetToken) IsValid() bool {
	return t.UsedAt == nil && time.Now().Before(t.ExpiresAt)
}

// TaskStats is the aggregate supplied by the task module for dashboards.
type TaskStats struct {
	Total        int `json:"total_tasks"`
	Completed    int `json:"completed_tasks"`
	Pending      int `json:"pending_tasks"`
	HighPriority int `json:"high_priority_tasks"`
}

// LoginStats summarizes a user's attempt history for the security view.
type LoginStats struct {
	TotalAttempts  int
	FailedAttempts int
	RecentFailed   int
}
