package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of authorization roles an account can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps user-supplied input to a Role. Unknown values are rejected
// instead of being passed through.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is exactly one of the known roles. Unlike ParseRole
// it does not normalize, so it suits values read back from signed tokens.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Account is the local identity record owned by the account service.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthIdentity is the subset of an account needed to make authentication decisions.
type AuthIdentity struct {
	UserID       int64
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
}

// Identity projects the authentication view of the account.
func (a *Account) Identity() *AuthIdentity {
	return &AuthIdentity{
		UserID:       a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Active:       a.Active,
	}
}

var (
	ErrAccountNotFound    = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("user account is inactive or blacklisted")
	ErrForbidden          = errors.New("you are not authorized to access this resource")
)

// ValidationErrorf builds an error that matches ErrValidation.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
