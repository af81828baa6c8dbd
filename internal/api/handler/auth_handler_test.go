package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	now := time.Now().UTC()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Username != "John" || in.Email != "john@x.com" || in.Password != "secret1" || in.Age != 25 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: 1, Username: in.Username, Email: in.Email, Age: in.Age,
				Role: domain.RoleUser, Active: true, CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	body := strings.NewReader(`{"username":"John","email":"john@x.com","password":"secret1","age":25}`)
	c, rec := newContext(http.MethodPost, "/api/auth/register", body, "", nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode[registerResponse](t, rec)
	if resp.User.ID != 1 || resp.User.Role != "USER" || !resp.User.Active {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("response must not contain password material")
	}
}

func TestAuthHandler_Register_DuplicatePropagates(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	body := strings.NewReader(`{"username":"John","email":"john@x.com","password":"secret1","age":25}`)
	c, _ := newContext(http.MethodPost, "/api/auth/register", body, "", nil)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationFailsBeforeService(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	body := strings.NewReader(`{"username":"J","email":"not-an-email","password":"123","age":12}`)
	c, _ := newContext(http.MethodPost, "/api/auth/register", body, "", nil)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "email", "password", "age"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("message %q does not mention %s", err.Error(), field)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "john@x.com" || password != "secret1" {
				t.Fatalf("unexpected credentials %s/%s", email, password)
			}
			return &ports.LoginResult{Token: "tok", Role: domain.RoleUser, UserID: 1}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"john@x.com","password":"secret1"}`), "", nil)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode[loginResponse](t, rec)
	if resp.Token != "tok" || resp.Role != "USER" || resp.UserID != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InactivePropagates(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrAccountInactive
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"john@x.com","password":"secret1"}`), "", nil)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`), "", nil)

	if err := NewAuthHandler(&stubAuthService{}).Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
