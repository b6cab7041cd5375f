package dto

import "time"

type TaskStatsOutput struct {
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	PendingTasks      int     `json:"pending_tasks"`
	HighPriorityTasks int     `json:"high_priority_tasks"`
	CompletionRate    float64 `json:"completion_rate"`
}

type LoginAttemptOutput struct {
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address"`
	Success   bool      `json:"success"`
	UserAgent string    `json:"user_agent"`
}

type DashboardResponse struct {
	User                *UserOutput          `json:"user"`
	Stats               *TaskStatsOutput     `json:"stats"`
	RecentLoginAttempts []LoginAttemptOutput `json:"recent_login_attempts"`
}

type AccountStatus struct {
	IsLocked            bool       `json:"is_locked"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	AccountLockedUntil  *time.Time `json:"account_locked_until"`
	IsEmailVerified     bool       `json:"is_email_verified"`
}

type LoginStatistics struct {
	TotalLoginAttempts   int     `json:"total_login_attempts"`
	FailedLoginAttempts  int     `json:"failed_login_attempts"`
	RecentFailedAttempts int     `json:"recent_failed_attempts"`
	LastLoginIP          *string `json:"last_login_ip"`
}

type SecurityTokens struct {
	ActivePasswordResetTokens int `json:"active_password_reset_tokens"`
}

type SecurityResponse struct {
	AccountStatus   *AccountStatus   `json:"account_status"`
	LoginStatistics *LoginStatistics `json:"login_statistics"`
	SecurityTokens  *SecurityTokens  `json:"security_tokens"`
}

type SecurityActionInput struct {
	Action string `json:"action"`
}
