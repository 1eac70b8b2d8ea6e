package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

func newAuth(t *testing.T, password string, ttl time.Duration) *service.Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return service.NewAuth(string(hash), "test-secret", ttl, zap.NewNop())
}

func TestIssueToken_ValidPassword(t *testing.T) {
	auth := newAuth(t, "correct horse", time.Hour)

	resp, err := auth.IssueToken(context.Background(), "correct horse")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("response = %+v", resp)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d", resp.ExpiresIn)
	}

	if err := auth.VerifyToken(resp.AccessToken); err != nil {
		t.Errorf("VerifyToken: %v", err)
	}
}

func TestIssueToken_InvalidPassword(t *testing.T) {
	auth := newAuth(t, "correct horse", time.Hour)

	var unauthorized *domain.ErrUnauthorized
	if _, err := auth.IssueToken(context.Background(), "wrong"); !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	var validation *domain.ErrValidation
	if _, err := auth.IssueToken(context.Background(), ""); !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth := newAuth(t, "pw", time.Hour)

	if err := auth.VerifyToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}

	// Token signed with another secret must be rejected.
	resp, err := auth.IssueToken(context.Background(), "pw")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	wrongSecret := service.NewAuth("", "different", time.Hour, zap.NewNop())
	if err := wrongSecret.VerifyToken(resp.AccessToken); err == nil {
		t.Fatal("expected signature verification failure")
	}
}
