package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ochessi/tasknest/config"
	"github.com/Ochessi/tasknest/internal/auth/domain"
	"github.com/Ochessi/tasknest/internal/auth/handler"
	"github.com/Ochessi/tasknest/internal/auth/service"
	autherror "github.com/Ochessi/tasknest/internal/errors"
	"github.com/Ochessi/tasknest/internal/mocks"
	authconstant "github.com/Ochessi/tasknest/pkg/constant"
	"github.com/Ochessi/tasknest/pkg/password"
)

type handlerFixture struct {
	app       *fiber.App
	repo      *mocks.MockUserRepository
	resetRepo *mocks.MockResetTokenRepository
	stats     *mocks.MockTaskStatsProvider
	tokens    *mocks.MockTokenGenerator
	mail      *mocks.MockMailer
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	resetRepo := mocks.NewMockResetTokenRepository(ctrl)
	stats := mocks.NewMockTaskStatsProvider(ctrl)
	tokens := mocks.NewMockTokenGenerator(ctrl)
	mail := mocks.NewMockMailer(ctrl)

	cfg := &config.Config{
		LoginMaxAttempts: authconstant.MaxFailedLoginAttempts,
		LockoutMinutes:   authconstant.AccountLockMinutes,
	}
	policy := password.NewDefaultPolicy(authconstant.MinPasswordLength)
	log := zap.NewNop()

	userService := service.NewUserService(repo, resetRepo, tokens, stats, policy, cfg, log)
	resetService := service.NewResetService(repo, resetRepo, mail, policy, log)

	app := fiber.New()
	handler.RegisterRoutes(app, handler.NewAuthHandler(userService, resetService, tokens, log))

	return &handlerFixture{
		app:       app,
		repo:      repo,
		resetRepo: resetRepo,
		stats:     stats,
		tokens:    tokens,
		mail:      mail,
	}
}

func (f *handlerFixture) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	return body
}

func bearerAuth(f *handlerFixture, userID string) map[string]string {
	f.tokens.EXPECT().VerifyAccessToken("valid-access-token").
		Return(&service.JWTCustomClaims{UserID: userID}, nil)
	return map[string]string{fiber.HeaderAuthorization: "Bearer valid-access-token"}
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(nil, nil)
		f.repo.EXPECT().GetByUsername(gomock.Any(), "bob").Return(nil, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.tokens.EXPECT().Generate(gomock.Any()).Return("access-token", "refresh-token", nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/register", fiber.Map{
			"username":         "bob",
			"email":            "bob@example.com",
			"password":         "pass123456",
			"password_confirm": "pass123456",
		}, nil)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Registration successful", body["message"])
		tokens := body["tokens"].(map[string]any)
		assert.Equal(t, "access-token", tokens["access"])
	})

	t.Run("field errors", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").
			Return(&domain.User{ID: "existing"}, nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/register", fiber.Map{
			"username":         "bob",
			"email":            "bob@example.com",
			"password":         "pass123456",
			"password_confirm": "pass123456",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		fields := body["errors"].(map[string]any)
		assert.Contains(t, fields, "email")
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)

		user := &domain.User{
			ID:           "user-123",
			Email:        "bob@example.com",
			PasswordHash: hashedPassword(t, "correct123"),
			IsActive:     true,
		}

		f.repo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(user, nil)
		f.repo.EXPECT().Unlock(gomock.Any(), user.ID).Return(nil)
		f.repo.EXPECT().SetLastLoginIP(gomock.Any(), user.ID, gomock.Any()).Return(nil)
		f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), gomock.Any()).Return(nil)
		f.tokens.EXPECT().Generate(gomock.Any()).Return("access-token", "refresh-token", nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", fiber.Map{
			"email":    "bob@example.com",
			"password": "correct123",
		}, nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Login successful", body["message"])
	})

	t.Run("wrong password answers 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		user := &domain.User{
			ID:           "user-123",
			Email:        "bob@example.com",
			PasswordHash: hashedPassword(t, "correct123"),
			IsActive:     true,
		}

		f.repo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(user, nil)
		f.repo.EXPECT().RecordFailedLogin(gomock.Any(), user.ID, gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), gomock.Any()).Return(nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", fiber.Map{
			"email":    "bob@example.com",
			"password": "wrong12345",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, autherror.ErrInvalidCredentials.Error(), body["error"])
	})

	t.Run("unknown email answers the same 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)
		f.repo.EXPECT().RecordLoginAttempt(gomock.Any(), gomock.Any()).Return(nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", fiber.Map{
			"email":    "ghost@example.com",
			"password": "whatever123",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, autherror.ErrInvalidCredentials.Error(), body["error"])
	})

	t.Run("locked account answers 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		lockedUntil := time.Now().Add(20 * time.Minute)
		user := &domain.User{
			ID:                 "user-123",
			Email:              "bob@example.com",
			PasswordHash:       hashedPassword(t, "correct123"),
			IsActive:           true,
			AccountLockedUntil: &lockedUntil,
		}

		f.repo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(user, nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/login", fiber.Map{
			"email":    "bob@example.com",
			"password": "correct123",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, autherror.ErrAccountLocked.Error(), body["error"])
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("new access token", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.tokens.EXPECT().Refresh(gomock.Any(), "valid-refresh").Return("new-access", nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/token/refresh", fiber.Map{
			"refresh": "valid-refresh",
		}, nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "new-access", body["access"])
	})

	t.Run("invalid refresh answers 401", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.tokens.EXPECT().Refresh(gomock.Any(), "bad-refresh").Return("", autherror.ErrInvalidToken)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/token/refresh", fiber.Map{
			"refresh": "bad-refresh",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("revokes refresh token", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.tokens.EXPECT().Blacklist(gomock.Any(), "valid-refresh").Return(nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/logout", fiber.Map{
			"refresh": "valid-refresh",
		}, headers)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Successfully logged out", body["message"])
	})

	t.Run("bad refresh token answers 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.tokens.EXPECT().Blacklist(gomock.Any(), "garbage").Return(autherror.ErrInvalidToken)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/logout", fiber.Map{
			"refresh": "garbage",
		}, headers)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid token", body["error"])
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	t.Run("request is success shaped for unknown email", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/password/reset", fiber.Map{
			"email": "ghost@example.com",
		}, nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Contains(t, body["message"], "If your email is registered")
	})

	t.Run("confirm with bad token answers 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.resetRepo.EXPECT().GetResetToken(gomock.Any(), "nope").Return(nil, nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/password/reset/confirm", fiber.Map{
			"token":            "nope",
			"password":         "newpass12345",
			"password_confirm": "newpass12345",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		fields := body["errors"].(map[string]any)
		assert.Contains(t, fields, "token")
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	headers := bearerAuth(f, "user-123")
	user := &domain.User{ID: "user-123", PasswordHash: hashedPassword(t, "correct123")}

	f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(user, nil)
	f.repo.EXPECT().UpdatePassword(gomock.Any(), "user-123", gomock.Any()).Return(nil)

	resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/password/change", fiber.Map{
		"old_password":         "correct123",
		"new_password":         "newpass12345",
		"new_password_confirm": "newpass12345",
	}, headers)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMeEndpoints(t *testing.T) {
	t.Run("requires bearer token", func(t *testing.T) {
		f := newHandlerFixture(t)

		resp := f.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.tokens.EXPECT().VerifyAccessToken("bad-token").Return(nil, autherror.ErrInvalidToken)

		resp := f.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, map[string]string{
			fiber.HeaderAuthorization: "Bearer bad-token",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("returns profile", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", Username: "bob", Email: "bob@example.com", IsActive: true}, nil)

		resp := f.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, headers)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "bob", body["username"])
		assert.Equal(t, "bob@example.com", body["email"])
	})

	t.Run("updates username", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", Username: "bob", Email: "bob@example.com"}, nil)
		f.repo.EXPECT().GetByUsername(gomock.Any(), "bobby").Return(nil, nil)
		f.repo.EXPECT().UpdateUsername(gomock.Any(), "user-123", "bobby").Return(nil)

		resp := f.doJSON(t, http.MethodPatch, "/api/v1/users/me", fiber.Map{
			"username": "bobby",
		}, headers)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "bobby", body["username"])
	})
}

func TestDashboardEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	headers := bearerAuth(f, "user-123")
	f.repo.EXPECT().GetByID(gomock.Any(), "user-123").
		Return(&domain.User{ID: "user-123", Username: "bob", Email: "bob@example.com"}, nil)
	f.stats.EXPECT().CountTasksByUser(gomock.Any(), "user-123").
		Return(&domain.TaskStats{Total: 4, Completed: 1, Pending: 3, HighPriority: 2}, nil)
	f.repo.EXPECT().RecentAttempts(gomock.Any(), "user-123", gomock.Any(), gomock.Any()).
		Return(nil, nil)

	resp := f.doJSON(t, http.MethodGet, "/api/v1/users/dashboard", nil, headers)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(4), stats["total_tasks"])
	assert.Equal(t, float64(25), stats["completion_rate"])
}

func TestSecurityEndpoints(t *testing.T) {
	t.Run("report", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.User{ID: "user-123", FailedLoginAttempts: 2}, nil)
		f.repo.EXPECT().LoginStats(gomock.Any(), "user-123", gomock.Any()).
			Return(&domain.LoginStats{TotalAttempts: 10, FailedAttempts: 2, RecentFailed: 2}, nil)
		f.resetRepo.EXPECT().CountActiveResetTokens(gomock.Any(), "user-123").Return(0, nil)

		resp := f.doJSON(t, http.MethodGet, "/api/v1/auth/security", nil, headers)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		status := body["account_status"].(map[string]any)
		assert.Equal(t, false, status["is_locked"])
		assert.Equal(t, float64(2), status["failed_login_attempts"])
	})

	t.Run("clear failed attempts", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")
		f.repo.EXPECT().Unlock(gomock.Any(), "user-123").Return(nil)

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/security", fiber.Map{
			"action": "clear_failed_attempts",
		}, headers)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown action answers 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		headers := bearerAuth(f, "user-123")

		resp := f.doJSON(t, http.MethodPost, "/api/v1/auth/security", fiber.Map{
			"action": "self_destruct",
		}, headers)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid action", body["error"])
	})
}

func TestHealthEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.doJSON(t, http.MethodGet, "/api/v1/auth/health", nil, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "authentication", body["service"])
}
