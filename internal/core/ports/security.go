package ports

import (
	"context"
	"time"

	"github.com/userservice/user-service/internal/core/domain"
)

// TokenCodec signs and verifies bearer tokens. Decode never consults external
// state: it returns domain.ErrTokenMalformed or domain.ErrTokenExpired on failure.
type TokenCodec interface {
	Encode(email string, userID int64, role domain.Role, now time.Time) (string, error)
	Decode(token string) (*domain.TokenClaims, error)
}

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) bool
}

// PrincipalStore loads authorization identities. It is read-only.
type PrincipalStore interface {
	FindAuthIdentity(ctx context.Context, email string) (*domain.AuthIdentity, error)
	VerifyPassword(raw, hash string) bool
}

// AuthDecider turns an Authorization header into a principal or a rejection.
type AuthDecider interface {
	Decide(ctx context.Context, authHeader string) (*domain.Principal, error)
}
