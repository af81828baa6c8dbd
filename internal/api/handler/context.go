package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userservice/user-service/internal/api/middleware"
	"github.com/userservice/user-service/internal/core/domain"
)

// principal returns the identity admitted by the gate. Its absence means the
// route was registered without the gate, which is reported as 401.
func principal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// userIDParam parses the :userId path parameter.
func userIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationErrorf("userId must be a positive integer")
	}
	return id, nil
}

// authorizedTarget resolves the principal and the :userId parameter and
// applies the owner-or-admin rule.
func authorizedTarget(c echo.Context) (*domain.Principal, int64, error) {
	p, err := principal(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := userIDParam(c)
	if err != nil {
		return nil, 0, err
	}
	if !p.CanAccess(id) {
		return nil, 0, domain.ErrForbidden
	}
	return p, id, nil
}

// bindAndValidate binds the JSON body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationErrorf("invalid payload")
	}
	return c.Validate(req)
}
