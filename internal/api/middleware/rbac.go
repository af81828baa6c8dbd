package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userservice/user-service/internal/api/apierror"
	"github.com/userservice/user-service/internal/core/domain"
)

// RequireRole enforces role-based access control on an admitted principal.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return apierror.Write(c, http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[p.Role]; !ok {
				return apierror.Write(c, http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
