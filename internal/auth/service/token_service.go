package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Ochessi/tasknest/internal/auth/service TokenGenerator

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Ochessi/tasknest/internal/auth/domain"
	autherror "github.com/Ochessi/tasknest/internal/errors"
	authconstant "github.com/Ochessi/tasknest/pkg/constant"
)

type TokenGenerator interface {
	Generate(user *domain.User) (access, refresh string, err error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Blacklist(ctx context.Context, refreshToken string) error
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	blacklist domain.TokenBlacklist
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int, blacklist domain.TokenBlacklist) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		blacklist:          blacklist,
	}
}

// Generate mints a stateless access token and a revocable refresh token.
// The refresh token carries a JWT ID so logout can blacklist it.
func (ts *TokenService) Generate(user *domain.User) (string, string, error) {
	now := time.Now()

	accessClaims := JWTCustomClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: authconstant.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshClaims := JWTCustomClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: authconstant.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		refreshClaims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// VerifyAccessToken parses and validates the given access token string.
// It is the verification contract every other resource module consumes.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.parse(tokenString, ts.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != authconstant.TokenTypeAccess {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) verifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.parse(tokenString, ts.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != authconstant.TokenTypeRefresh {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) parse(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

// Refresh mints a new access token from a valid, non-blacklisted refresh
// token. The refresh token itself is not rotated; it stays usable until
// logout or natural expiry.
func (ts *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ts.verifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	revoked, err := ts.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return "", autherror.ErrInvalidToken
	}

	now := time.Now()
	accessClaims := JWTCustomClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenType: authconstant.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(ts.AccessTokenSecret))
}

// Blacklist revokes the presented refresh token. A malformed or already
// invalid token yields ErrInvalidToken, never a server fault.
func (ts *TokenService) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := ts.verifyRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)

	if err := ts.blacklist.Add(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}
