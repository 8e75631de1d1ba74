package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/api/metrics"
	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// AuthHandler handles signup, login, and subordinate creation.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup handles POST /auth/signup — self-registration, always role=user.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()
	return respond(c, http.StatusCreated, "User registered successfully", account)
}

// Login handles POST /auth/login — authenticates and issues the access and
// refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, "Login successful", loginData{
		User:         result.Account,
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// CreateSubordinate handles POST /auth/admin/create-unit-manager — an admin
// or unit manager creates an account below their own tier.
//
// @Summary      Create a subordinate account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      signupRequest  true  "Account details incl. role"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /auth/admin/create-unit-manager [post]
func (h *AuthHandler) CreateSubordinate(c echo.Context) error {
	var req signupRequest
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

	account, err := h.accounts.CreateSubordinate(c.Request().Context(), actor, ports.CreateSubordinateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()
	return respond(c, http.StatusCreated, "User created successfully", account)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountBlocked):
		return "blocked"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	default:
		return "invalid_credentials"
	}
}
