package constant

import "time"

const (
	// MaxFailedLoginAttempts is the number of consecutive failures that
	// triggers an account lock.
	MaxFailedLoginAttempts = 5

	// AccountLockMinutes is how long a triggered lock lasts.
	AccountLockMinutes = 30

	// ResetTokenTTL is the lifetime of a password reset token.
	ResetTokenTTL = time.Hour

	// DefaultRetentionDays is the age threshold for the cleanup job.
	DefaultRetentionDays = 90

	// MinPasswordLength applies to registration, reset and change flows.
	MinPasswordLength = 8

	RecentAttemptsWindow  = 7 * 24 * time.Hour
	LoginStatsWindow      = 30 * 24 * time.Hour
	DashboardAttemptLimit = 5
	UserAgentDisplayLimit = 100
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
