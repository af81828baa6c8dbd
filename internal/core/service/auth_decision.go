package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
	"github.com/userservice/user-service/internal/pkg/metrics"
)

const bearerPrefix = "Bearer "

// AuthDecisionPoint admits or rejects a request based on its Authorization
// header. The role embedded in the token is authoritative: it is not
// re-derived from the stored account, so a role change only takes effect once
// a new token is issued. The active flag is not checked here either; an
// already-issued token stays valid for a blacklisted account until it expires.
type AuthDecisionPoint struct {
	codec ports.TokenCodec
	store ports.PrincipalStore
	log   zerolog.Logger
}

func NewAuthDecisionPoint(codec ports.TokenCodec, store ports.PrincipalStore, log zerolog.Logger) *AuthDecisionPoint {
	return &AuthDecisionPoint{codec: codec, store: store, log: log}
}

// Decide returns the admitted principal, or an error wrapping a
// *domain.AuthRejection. Lookup failures other than "not found" are returned
// as is so the caller can report them as internal errors.
func (d *AuthDecisionPoint) Decide(ctx context.Context, authHeader string) (*domain.Principal, error) {
	principal, err := d.decide(ctx, authHeader)

	var rej *domain.AuthRejection
	switch {
	case err == nil:
		metrics.AuthDecisionsTotal.WithLabelValues("admitted", "").Inc()
	case errors.As(err, &rej):
		metrics.AuthDecisionsTotal.WithLabelValues("rejected", string(rej.Reason)).Inc()
		d.log.Debug().Str("reason", string(rej.Reason)).Msg("request rejected")
	default:
		metrics.AuthDecisionsTotal.WithLabelValues("error", "").Inc()
	}
	return principal, err
}

func (d *AuthDecisionPoint) decide(ctx context.Context, authHeader string) (*domain.Principal, error) {
	if authHeader == "" {
		return nil, domain.Reject(domain.RejectMissingHeader, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, domain.Reject(domain.RejectMalformedHeader, "invalid authorization header")
	}
	raw := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if raw == "" {
		return nil, domain.Reject(domain.RejectMalformedHeader, "invalid authorization header")
	}

	claims, err := d.codec.Decode(raw)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.Reject(domain.RejectExpired, "token has expired")
		}
		return nil, domain.Reject(domain.RejectInvalid, "invalid token")
	}

	identity, err := d.store.FindAuthIdentity(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Reject(domain.RejectUnknownIdentity, "invalid token")
		}
		return nil, err
	}
	if identity.Email != claims.Email || identity.UserID != claims.UserID {
		return nil, domain.Reject(domain.RejectInvalid, "invalid token")
	}

	return &domain.Principal{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		RawToken: raw,
	}, nil
}

// IsAuthorized reports whether principal may act on targetUserID.
func IsAuthorized(principal domain.Principal, targetUserID int64) bool {
	return principal.CanAccess(targetUserID)
}
