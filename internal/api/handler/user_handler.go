package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userservice/user-service/internal/core/ports"
)

// UserHandler serves the owner-or-admin routes under /users/:userId.
type UserHandler struct {
	accounts ports.AccountService
	wallets  ports.WalletClient
}

func NewUserHandler(accounts ports.AccountService, wallets ports.WalletClient) *UserHandler {
	return &UserHandler{accounts: accounts, wallets: wallets}
}

// Get handles GET /users/:userId.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  userResponse
// @Failure      401     {object}  apierror.Body
// @Failure      403     {object}  apierror.Body
// @Failure      404     {object}  apierror.Body
// @Router       /users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	_, id, err := authorizedTarget(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Patch handles PATCH /users/:userId. Only username, password and age may change.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int               true  "User id"
// @Param        body    body      patchUserRequest  true  "Fields to change"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  apierror.Body
// @Failure      403     {object}  apierror.Body
// @Failure      404     {object}  apierror.Body
// @Router       /users/{userId} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	_, id, err := authorizedTarget(c)
	if err != nil {
		return err
	}

	var req patchUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Patch(c.Request().Context(), id, toAccountPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Delete handles DELETE /users/:userId.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  apierror.Body
// @Failure      404     {object}  apierror.Body
// @Router       /users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	_, id, err := authorizedTarget(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// Wallets handles GET /users/:userId/wallets by proxying the wallet service
// with the caller's token.
//
// @Summary      List a user's wallets
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {array}   walletResponse
// @Failure      403     {object}  apierror.Body
// @Failure      503     {object}  apierror.Body
// @Router       /users/{userId}/wallets [get]
func (h *UserHandler) Wallets(c echo.Context) error {
	p, id, err := authorizedTarget(c)
	if err != nil {
		return err
	}

	wallets, err := h.wallets.ListWallets(c.Request().Context(), id, p.RawToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWalletResponses(wallets))
}
