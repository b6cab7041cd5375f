package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ochessi/tasknest/config"
	"github.com/Ochessi/tasknest/internal/auth/domain"
	"github.com/Ochessi/tasknest/internal/auth/dto"
	autherror "github.com/Ochessi/tasknest/internal/errors"
	authconstant "github.com/Ochessi/tasknest/pkg/constant"
	"github.com/Ochessi/tasknest/pkg/password"
)

type UserService struct {
	repo      domain.UserRepository
	resetRepo domain.ResetTokenRepository
	tokens    TokenGenerator
	stats     domain.TaskStatsProvider
	policy    password.Policy
	cfg       *config.Config
	log       *zap.Logger
}

func NewUserService(repo domain.UserRepository, resetRepo domain.ResetTokenRepository,
	tokens TokenGenerator, stats domain.TaskStatsProvider, policy password.Policy,
	cfg *config.Config, log *zap.Logger) *UserService {
	return &UserService{
		repo:      repo,
		resetRepo: resetRepo,
		tokens:    tokens,
		stats:     stats,
		policy:    policy,
		cfg:       cfg,
		log:       log,
	}
}

// Register creates a user and immediately issues a token pair, so the
// client is logged in straight after signup.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	fields := autherror.FieldErrors{}
	if input.Username == "" {
		fields["username"] = "username is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if input.Password != input.PasswordConfirm {
		fields["password_confirm"] = "passwords do not match"
	}
	if err := s.policy.Validate(input.Password, input.Username, email); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, fields
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Duplicate check is the sole deliberate enumeration exception.
		return nil, autherror.FieldErrors{"email": autherror.ErrEmailAlreadyInUse.Error()}
	}

	existing, err = s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.FieldErrors{"username": autherror.ErrUsernameTaken.Error()}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login runs the per-attempt state machine: unknown email, locked account,
// wrong password, disabled account, then success. Attempt-ledger writes
// are side effects that never change the login decision.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logAttempt(ctx, email, input, false, nil)
		return nil, autherror.ErrInvalidCredentials
	}

	// The locked branch deliberately records no attempt; see the security
	// report for the lock state instead.
	if user.IsAccountLocked() {
		return nil, autherror.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		attempts, err := s.repo.RecordFailedLogin(ctx, user.ID, s.cfg.LoginMaxAttempts, s.cfg.LockoutMinutes)
		if err != nil {
			s.log.Warn("failed to record failed login", zap.String("user_id", user.ID), zap.Error(err))
		} else if attempts >= s.cfg.LoginMaxAttempts {
			s.log.Info("account locked after repeated failures",
				zap.String("user_id", user.ID), zap.Int("attempts", attempts))
		}

		s.logAttempt(ctx, email, input, false, &user.ID)

		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, autherror.ErrAccountDisabled
	}

	if err := s.repo.Unlock(ctx, user.ID); err != nil {
		return nil, err
	}
	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil

	if input.IPAddress != "" {
		if err := s.repo.SetLastLoginIP(ctx, user.ID, input.IPAddress); err != nil {
			s.log.Warn("failed to update last login IP", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			user.LastLoginIP = &input.IPAddress
		}
	}

	s.logAttempt(ctx, email, input, true, &user.ID)

	return s.issueTokens(user)
}

// ChangePassword requires the current password; it does not revoke other
// sessions.
func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)) != nil {
		return autherror.FieldErrors{"old_password": autherror.ErrIncorrectPassword.Error()}
	}

	if input.NewPassword != input.NewPasswordConfirm {
		return autherror.FieldErrors{"new_password_confirm": "new passwords do not match"}
	}
	if err := s.policy.Validate(input.NewPassword, user.Username, user.Email); err != nil {
		return autherror.FieldErrors{"new_password": err.Error()}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hashed))
}

func (s *UserService) Profile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return toUserOutput(user), nil
}

// UpdateProfile merges only allow-listed fields; identity and security
// counters never move from input to the record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if input.Username != nil && *input.Username != user.Username {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, autherror.FieldErrors{"username": "username is required"}
		}

		existing, err := s.repo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, autherror.FieldErrors{"username": autherror.ErrUsernameTaken.Error()}
		}

		if err := s.repo.UpdateUsername(ctx, user.ID, username); err != nil {
			return nil, err
		}
		user.Username = username
	}

	return toUserOutput(user), nil
}

func (s *UserService) Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	stats, err := s.stats.CountTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if stats.Total > 0 {
		rate = float64(stats.Completed) / float64(stats.Total) * 100
		rate = float64(int(rate*100+0.5)) / 100
	}

	since := time.Now().Add(-authconstant.RecentAttemptsWindow)
	attempts, err := s.repo.RecentAttempts(ctx, userID, since, authconstant.DashboardAttemptLimit)
	if err != nil {
		return nil, err
	}

	recent := make([]dto.LoginAttemptOutput, 0, len(attempts))
	for _, a := range attempts {
		ua := a.UserAgent
		if len(ua) > authconstant.UserAgentDisplayLimit {
			ua = ua[:authconstant.UserAgentDisplayLimit] + "..."
		}
		recent = append(recent, dto.LoginAttemptOutput{
			Timestamp: a.CreatedAt,
			IPAddress: a.IPAddress,
			Success:   a.Success,
			UserAgent: ua,
		})
	}

	return &dto.DashboardResponse{
		User: toUserOutput(user),
		Stats: &dto.TaskStatsOutput{
			TotalTasks:        stats.Total,
			CompletedTasks:    stats.Completed,
			PendingTasks:      stats.Pending,
			HighPriorityTasks: stats.HighPriority,
			CompletionRate:    rate,
		},
		RecentLoginAttempts: recent,
	}, nil
}

func (s *UserService) Security(ctx context.Context, userID string) (*dto.SecurityResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	recentSince := time.Now().Add(-authconstant.LoginStatsWindow)
	stats, err := s.repo.LoginStats(ctx, userID, recentSince)
	if err != nil {
		return nil, err
	}

	activeTokens, err := s.resetRepo.CountActiveResetTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.SecurityResponse{
		AccountStatus: &dto.AccountStatus{
			IsLocked:            user.IsAccountLocked(),
			FailedLoginAttempts: user.FailedLoginAttempts,
			AccountLockedUntil:  user.AccountLockedUntil,
			IsEmailVerified:     user.IsEmailVerified,
		},
		LoginStatistics: &dto.LoginStatistics{
			TotalLoginAttempts:   stats.TotalAttempts,
			FailedLoginAttempts:  stats.FailedAttempts,
			RecentFailedAttempts: stats.RecentFailed,
			LastLoginIP:          user.LastLoginIP,
		},
		SecurityTokens: &dto.SecurityTokens{
			ActivePasswordResetTokens: activeTokens,
		},
	}, nil
}

// ClearFailedAttempts is the explicit unlock exposed on the security view.
func (s *UserService) ClearFailedAttempts(ctx context.Context, userID string) error {
	return s.repo.Unlock(ctx, userID)
}

func (s *UserService) issueTokens(user *domain.User) (*dto.TokenResponse, error) {
	access, refresh, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Access:  access,
		Refresh: refresh,
		User:    toUserOutput(user),
	}, nil
}

func (s *UserService) logAttempt(ctx context.Context, email string, input dto.LoginInput, success bool, userID *string) {
	ip := input.IPAddress
	if ip == "" {
		ip = "0.0.0.0"
	}

	attempt := &domain.LoginAttempt{
		ID:        uuid.NewString(),
		Email:     email,
		IPAddress: ip,
		UserAgent: input.UserAgent,
		Success:   success,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		s.log.Warn("failed to record login attempt", zap.String("email", email), zap.Error(err))
	}
}

func toUserOutput(user *domain.User) *dto.UserOutput {
	return &dto.UserOutput{
		ID:                  user.ID,
		Username:            user.Username,
		Email:               user.Email,
		DateJoined:          user.DateJoined,
		IsEmailVerified:     user.IsEmailVerified,
		LastLoginIP:         user.LastLoginIP,
		FailedLoginAttempts: user.FailedLoginAttempts,
	}
}
