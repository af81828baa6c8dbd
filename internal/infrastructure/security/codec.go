package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userservice/user-service/internal/core/domain"
)

// MinSecretLength is the smallest secret accepted for HS256 signing.
const MinSecretLength = 32

type tokenClaims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs.
type JWTCodec struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTCodec derives the signing key from secret. It fails when the secret is
// shorter than MinSecretLength. A nil clock defaults to time.Now.
func NewJWTCodec(secret string, ttl time.Duration, clock func() time.Time) (*JWTCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w (got %d)", domain.ErrWeakSigningKey, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if clock == nil {
		clock = time.Now
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &JWTCodec{
		key: key,
		ttl: ttl,
		now: clock,
		// Expiry is checked in Decode: a token stays valid up to and including exp.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// TTL returns the configured token lifetime.
func (c *JWTCodec) TTL() time.Duration { return c.ttl }

// Encode issues a token valid from now until now+TTL. JWT dates carry whole
// seconds, so now is truncated first and the encoded expiry is exactly
// issued-at plus TTL.
func (c *JWTCodec) Encode(email string, userID int64, role domain.Role, now time.Time) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}
	now = now.Truncate(time.Second)

	claims := tokenClaims{
		UserID: userID,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded claims.
func (c *JWTCodec) Decode(token string) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}
	if c.now().After(claims.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrTokenMalformed, claims.Role)
	}

	out := &domain.TokenClaims{
		Email:     claims.Subject,
		UserID:    claims.UserID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
