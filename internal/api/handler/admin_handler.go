package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

// AdminHandler serves /admin routes. The router guards them with RequireRole.
type AdminHandler struct {
	accounts ports.AccountService
	ledger   ports.CascadeLedger
}

// NewAdminHandler builds the handler. ledger may be nil, in which case the
// failure listing is always empty.
func NewAdminHandler(accounts ports.AccountService, ledger ports.CascadeLedger) *AdminHandler {
	return &AdminHandler{accounts: accounts, ledger: ledger}
}

// List handles GET /admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  query     string  false  "Username substring"
// @Param        email     query     string  false  "Email substring"
// @Param        active    query     bool    false  "Active flag"
// @Param        role      query     string  false  "USER or ADMIN"
// @Param        page      query     int     false  "Zero-based page"
// @Param        size      query     int     false  "Page size (max 100)"
// @Success      200       {object}  userPageResponse
// @Failure      400       {object}  apierror.Body
// @Failure      403       {object}  apierror.Body
// @Router       /admin/users [get]
func (h *AdminHandler) List(c echo.Context) error {
	var in ports.ListAccountsInput
	err := echo.QueryParamsBinder(c).
		String("username", &in.Username).
		String("email", &in.Email).
		String("role", &in.Role).
		Int("page", &in.Page).
		Int("size", &in.Size).
		BindError()
	if err != nil {
		return domain.ValidationErrorf("invalid query parameters")
	}
	if c.QueryParam("active") != "" {
		var active bool
		if err := echo.QueryParamsBinder(c).Bool("active", &active).BindError(); err != nil {
			return domain.ValidationErrorf("active must be true or false")
		}
		in.Active = &active
	}

	page, err := h.accounts.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserPage(page))
}

// Create handles POST /admin/users.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adminCreateUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  apierror.Body
// @Failure      409   {object}  apierror.Body
// @Router       /admin/users [post]
func (h *AdminHandler) Create(c echo.Context) error {
	var req adminCreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return domain.ValidationErrorf("role must be one of USER, ADMIN")
		}
		in.Role = role
	}

	account, err := h.accounts.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(account))
}

// Get handles GET /admin/users/:userId.
//
// @Summary      Get any user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  userResponse
// @Failure      404     {object}  apierror.Body
// @Router       /admin/users/{userId} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Update handles PATCH /admin/users/:userId.
//
// @Summary      Update any user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int                     true  "User id"
// @Param        body    body      adminUpdateUserRequest  true  "Fields to change"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  apierror.Body
// @Failure      404     {object}  apierror.Body
// @Failure      409     {object}  apierror.Body
// @Router       /admin/users/{userId} [patch]
func (h *AdminHandler) Update(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req adminUpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateByAdmin(c.Request().Context(), id, toAdminUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Delete handles DELETE /admin/users/:userId and cascades to the wallet service.
//
// @Summary      Delete any user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  adminActionResponse
// @Failure      404     {object}  apierror.Body
// @Router       /admin/users/{userId} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	p, id, err := adminTarget(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.DeleteByAdmin(c.Request().Context(), id, p.RawToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminActionResponse("User deleted successfully", result))
}

// Blacklist handles POST /admin/users/blacklist/:userId.
//
// @Summary      Blacklist a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  adminActionResponse
// @Failure      404     {object}  apierror.Body
// @Router       /admin/users/blacklist/{userId} [post]
func (h *AdminHandler) Blacklist(c echo.Context) error {
	p, id, err := adminTarget(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.Blacklist(c.Request().Context(), id, p.RawToken)
	if err != nil {
		return err
	}
	msg := "User blacklisted successfully"
	if !result.Changed {
		msg = "User is already blacklisted"
	}
	return c.JSON(http.StatusOK, toAdminActionResponse(msg, result))
}

// Unblock handles POST /admin/users/blacklist/:userId/unblock.
//
// @Summary      Unblock a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  adminActionResponse
// @Failure      404     {object}  apierror.Body
// @Router       /admin/users/blacklist/{userId}/unblock [post]
func (h *AdminHandler) Unblock(c echo.Context) error {
	p, id, err := adminTarget(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.Unblock(c.Request().Context(), id, p.RawToken)
	if err != nil {
		return err
	}
	msg := "User unblocked successfully"
	if !result.Changed {
		msg = "User is already active"
	}
	return c.JSON(http.StatusOK, toAdminActionResponse(msg, result))
}

// CascadeFailures handles GET /admin/cascade-failures.
//
// @Summary      List unresolved wallet cascade failures
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   cascadeFailureResponse
// @Router       /admin/cascade-failures [get]
func (h *AdminHandler) CascadeFailures(c echo.Context) error {
	if h.ledger == nil {
		return c.JSON(http.StatusOK, []cascadeFailureResponse{})
	}
	failures, err := h.ledger.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCascadeFailureResponses(failures))
}

func adminTarget(c echo.Context) (*domain.Principal, int64, error) {
	p, err := principal(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := userIDParam(c)
	if err != nil {
		return nil, 0, err
	}
	return p, id, nil
}
