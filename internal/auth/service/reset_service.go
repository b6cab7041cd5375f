package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ochessi/tasknest/internal/auth/domain"
	"github.com/Ochessi/tasknest/internal/auth/dto"
	autherror "github.com/Ochessi/tasknest/internal/errors"
	"github.com/Ochessi/tasknest/internal/mailer"
	authconstant "github.com/Ochessi/tasknest/pkg/constant"
	"github.com/Ochessi/tasknest/pkg/password"
)

type ResetService struct {
	repo      domain.UserRepository
	resetRepo domain.ResetTokenRepository
	mail      mailer.Mailer
	policy    password.Policy
	log       *zap.Logger
}

func NewResetService(repo domain.UserRepository, resetRepo domain.ResetTokenRepository,
	mail mailer.Mailer, policy password.Policy, log *zap.Logger) *ResetService {
	return &ResetService{
		repo:      repo,
		resetRepo: resetRepo,
		mail:      mail,
		policy:    policy,
		log:       log,
	}
}

// Request issues a reset token and dispatches the notification when the
// email belongs to an active user, and silently does nothing otherwise.
// Callers always answer with the same success-shaped response either way.
func (s *ResetService) Request(ctx context.Context, input dto.PasswordResetRequestInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return autherror.FieldErrors{"email": "email is required"}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return nil
	}

	now := time.Now()
	token := &domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(authconstant.ResetTokenTTL),
	}

	if err := s.resetRepo.CreateResetToken(ctx, token); err != nil {
		return err
	}

	// Mail failures are logged and swallowed; the HTTP response must not
	// depend on the mail backend.
	if err := s.mail.SendPasswordReset(ctx, user.Email, user.Username, token.Token); err != nil {
		s.log.Error("failed to send password reset email",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// Confirm redeems a reset token: sets the new password, clears any lock
// and consumes the token. Outstanding access tokens stay valid until
// natural expiry.
func (s *ResetService) Confirm(ctx context.Context, input dto.PasswordResetConfirmInput) error {
	fields := autherror.FieldErrors{}
	if input.Password != input.PasswordConfirm {
		fields["password_confirm"] = "passwords do not match"
	}
	if err := s.policy.Validate(input.Password); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) > 0 {
		return fields
	}

	token, err := s.resetRepo.GetResetToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if token == nil || !token.IsValid() {
		return autherror.FieldErrors{"token": autherror.ErrResetTokenInvalid.Error()}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, token.UserID, string(hashed)); err != nil {
		return err
	}

	if err := s.repo.Unlock(ctx, token.UserID); err != nil {
		return err
	}

	return s.resetRepo.MarkResetTokenUsed(ctx, token.ID)
}
