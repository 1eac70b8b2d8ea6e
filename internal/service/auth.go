package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

const tokenIssuer = "credifyai"

// Auth issues and verifies API access tokens. One shared credential: callers
// exchange the configured API password for a short-lived bearer token.
type Auth struct {
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
	logger       *zap.Logger
}

// NewAuth creates the auth service. passwordHash is a bcrypt hash of the API
// password.
func NewAuth(passwordHash, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *Auth {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Auth{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// IssueToken exchanges the API password for a signed bearer token.
func (a *Auth) IssueToken(ctx context.Context, password string) (*domain.TokenResponse, error) {
	_, span := tracer.Start(ctx, "Auth.IssueToken")
	defer span.End()

	if password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "password is required"}
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		a.logger.Warn("token request with invalid password")
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "api-client",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(a.tokenTTL.Seconds()),
	}, nil
}

// VerifyToken validates a bearer token's signature, issuer and expiry.
func (a *Auth) VerifyToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, &domain.ErrUnauthorized{Message: "unexpected signing method"}
			}
			return a.jwtSecret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}
	return nil
}
