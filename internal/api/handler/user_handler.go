package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// UserHandler serves account listings and the role/block/delete mutations.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// ListAll handles GET /auth/users — every account below topAdmin.
//
// @Summary      List all accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /auth/users [get]
func (h *UserHandler) ListAll(c echo.Context) error {
	users, err := h.accounts.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", users)
}

// ListCreated handles GET /auth/admin/users — accounts created by the
// caller, newest first.
//
// @Summary      List accounts created by the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /auth/admin/users [get]
func (h *UserHandler) ListCreated(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.accounts.ListCreatedBy(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users fetched successfully", users)
}

// ListCreatedOf handles GET /unit-manager/:id — accounts created by the
// account :id.
//
// @Summary      List accounts created by a given account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Creator account id"
// @Success      200  {object}  envelope
// @Router       /unit-manager/{id} [get]
func (h *UserHandler) ListCreatedOf(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	users, err := h.accounts.ListCreatedBy(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users fetched successfully", users)
}

// ToggleBlock handles PATCH /auth/users/:userId/block.
//
// @Summary      Toggle an account's blocked flag
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Account id"
// @Success      200     {object}  envelope
// @Failure      404     {object}  envelope
// @Router       /auth/users/{userId}/block [patch]
func (h *UserHandler) ToggleBlock(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.ToggleBlock(c.Request().Context(), actor, c.Param("userId"))
	if err != nil {
		return err
	}

	message := "User unblocked successfully"
	if user.IsBlocked {
		message = "User blocked successfully"
	}
	return respond(c, http.StatusOK, message, user)
}

// UpdateRole handles PATCH /auth/users/:userId/role.
//
// @Summary      Change an account's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "Account id"
// @Param        body    body      updateRoleRequest  true  "New role"
// @Success      200     {object}  envelope
// @Failure      400     {object}  envelope
// @Failure      404     {object}  envelope
// @Router       /auth/users/{userId}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.UpdateRole(c.Request().Context(), actor, c.Param("userId"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", user)
}

// Delete handles DELETE /auth/users/:userId.
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Account id"
// @Success      200     {object}  envelope
// @Failure      404     {object}  envelope
// @Failure      409     {object}  envelope
// @Router       /auth/users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), actor, c.Param("userId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
