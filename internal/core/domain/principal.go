package domain

import (
	"errors"
	"time"
)

// TokenClaims are the identity claims carried by a bearer token.
type TokenClaims struct {
	Email     string
	UserID    int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var (
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token has expired")
	ErrWeakSigningKey = errors.New("signing secret must be at least 32 bytes")
)

// Principal is the request-scoped identity resolved from a valid bearer token.
type Principal struct {
	UserID   int64
	Email    string
	Role     Role
	RawToken string
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccess reports whether the principal may act on a resource owned by
// targetUserID: admins may act on anything, everyone else only on their own.
func (p Principal) CanAccess(targetUserID int64) bool {
	return p.IsAdmin() || p.UserID == targetUserID
}

// RejectReason classifies why a request was not admitted.
type RejectReason string

const (
	RejectMissingHeader   RejectReason = "missing_header"
	RejectMalformedHeader RejectReason = "malformed_header"
	RejectExpired         RejectReason = "expired"
	RejectInvalid         RejectReason = "invalid"
	RejectUnknownIdentity RejectReason = "unknown_identity"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// AuthRejection is the terminal "rejected" state of an authentication decision.
// It unwraps to ErrUnauthenticated.
type AuthRejection struct {
	Reason  RejectReason
	Message string
}

func (r *AuthRejection) Error() string { return r.Message }

func (r *AuthRejection) Unwrap() error { return ErrUnauthenticated }

// Reject builds an AuthRejection.
func Reject(reason RejectReason, msg string) *AuthRejection {
	return &AuthRejection{Reason: reason, Message: msg}
}
