package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/api/apierror"
	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

const principalKey = "principal"

// Gate admits a request only when decider resolves a principal from its
// Authorization header. Paths starting with one of publicPrefixes skip the
// decision. Rejections are answered with 401 here and never reach the handler.
func Gate(decider ports.AuthDecider, publicPrefixes []string, log zerolog.Logger) echo.MiddlewareFunc {
	prefixes := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPublic(c.Request().URL.Path, prefixes) {
				return next(c)
			}

			principal, err := decider.Decide(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				var rejection *domain.AuthRejection
				if errors.As(err, &rejection) {
					return apierror.Write(c, http.StatusUnauthorized, rejection.Message)
				}
				log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("authentication decision failed")
				return apierror.Write(c, http.StatusInternalServerError, "internal server error")
			}

			WithPrincipal(c, principal)
			return next(c)
		}
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// PrincipalFrom returns the principal stored by Gate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// WithPrincipal stores p on c. Used by Gate and by handler tests.
func WithPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}
