package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vpnshop/internal/apperr"
	"vpnshop/internal/dto"
)

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: map[string]time.Time{}}
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	user, err := env.user.Register(ctx, &dto.RegisterRequest{Email: " New@Example.com ", Password: "secret123", Name: "New"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "new@example.com" || user.IsAdmin {
		t.Errorf("Unexpected user %+v", user)
	}

	_, err = env.user.Register(ctx, &dto.RegisterRequest{Email: "new@example.com", Password: "secret123", Name: "Again"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Expected conflict, got %v", err)
	}

	token, claims, err := env.user.Login(ctx, &dto.LoginRequest{Email: "NEW@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || claims.UserID != user.ID {
		t.Errorf("Unexpected session %q %+v", token, claims)
	}

	if _, _, err := env.user.Login(ctx, &dto.LoginRequest{Email: "new@example.com", Password: "wrong"}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Expected unauthorized for wrong password, got %v", err)
	}
	if _, _, err := env.user.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Expected unauthorized for unknown email, got %v", err)
	}

	if err := env.user.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	for _, req := range []*dto.RegisterRequest{
		{Email: "", Password: "secret123", Name: "A"},
		{Email: "not-an-email", Password: "secret123", Name: "A"},
		{Email: "a@example.com", Password: "123", Name: "A"},
		{Email: "a@example.com", Password: "secret123", Name: " "},
	} {
		if _, err := env.user.Register(ctx, req); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("Register(%+v): expected invalid argument, got %v", req, err)
		}
	}
}
