package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newAuthService() *Service {
	svc := NewService(NewMemoryRepository())
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Password: "engine-no-9",
		Name:     "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != "USER" { // rbac.RoleUser; not imported to avoid an auth<->rbac import cycle
		t.Fatalf("new users get USER role, got %s", u.Role)
	}
	if !u.Active {
		t.Fatal("new users must be active")
	}
	if u.PasswordHash == "engine-no-9" {
		t.Fatal("password stored in plain text")
	}

	logged, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "engine-no-9",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("login returned wrong user: %s", logged.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService()
	req := RegisterRequest{Email: "ada@example.com", Password: "pw-123456", Name: "Ada"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuthService()
	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email: "ada@example.com", Password: "pw-123456", Name: "Ada",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email: "ada@example.com", Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password must fail with ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email: "nobody@example.com", Password: "pw-123456",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must fail with ErrInvalidCredentials, got %v", err)
	}
}
