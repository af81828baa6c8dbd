package ports

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      int
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token  string
	Role   domain.Role
	UserID int64
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
