package service

import (
	"context"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

type memoryUserStore struct {
	users []*model.User
}

func (m *memoryUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = int64(len(m.users) + 1)
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *memoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newTestAuthService() *AuthService {
	return NewAuthService(&memoryUserStore{}, "test-secret", time.Hour)
}

func TestRegister_EmptyEmail(t *testing.T) {
	_, err := newTestAuthService().Register(context.Background(), model.Credentials{
		Email:    "   ",
		Password: "password123",
	})
	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	_, err := newTestAuthService().Register(context.Background(), model.Credentials{
		Email:    "test@example.com",
		Password: "short",
	})
	if err != ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.Credentials{Email: " Test@Example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if reg.User.Email != "test@example.com" {
		t.Errorf("expected normalized email, got %q", reg.User.Email)
	}

	claims, err := crypto.ValidateToken(reg.Token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Errorf("token user %d, want %d", claims.UserID, reg.User.ID)
	}

	if _, err := svc.Register(ctx, model.Credentials{Email: "test@example.com", Password: "password456"}); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Login(ctx, model.Credentials{Email: "TEST@example.com", Password: "password123"}); err != nil {
		t.Errorf("Login() unexpected error: %v", err)
	}
	if _, err := svc.Login(ctx, model.Credentials{Email: "test@example.com", Password: "wrong-password"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, model.Credentials{Email: "nobody@example.com", Password: "password123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	me, err := svc.GetUser(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetUser() unexpected error: %v", err)
	}
	if me.Email != "test@example.com" {
		t.Errorf("GetUser() email = %q", me.Email)
	}
}
