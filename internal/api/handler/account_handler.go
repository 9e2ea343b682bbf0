package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopkit/accounts-api/internal/api/metrics"
	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
)

const invalidPayloadMessage = "Invalid JSON payload."

type AccountHandler struct {
	service ports.AccountService
	schema  domain.Schema
	log     zerolog.Logger
}

func NewAccountHandler(service ports.AccountService, schema domain.Schema, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, schema: schema, log: log}
}

// Create registers a new account.
//
// @Summary      Create a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  simpleUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		metrics.AccountsCreatedTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: invalidPayloadMessage})
	}

	user, err := h.service.CreateAccount(c.Request().Context(), req.toInput())
	if err != nil {
		metrics.AccountsCreatedTotal.WithLabelValues(resultOf(err)).Inc()
		return h.respondError(c, err, "create account")
	}

	metrics.AccountsCreatedTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, toCreateResponse(h.schema, user))
}

// Login authenticates a user and returns the user with a session token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: invalidPayloadMessage})
	}

	res, err := h.service.Login(c.Request().Context(), ports.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(resultOf(err)).Inc()
		return h.respondError(c, err, "login")
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, toLoginResponse(h.schema, res))
}

// respondError maps service errors to status codes and client messages.
// Infrastructure failures are logged and answered generically.
func (h *AccountHandler) respondError(c echo.Context, err error, op string) error {
	var (
		required   *domain.RequiredFieldsError
		validation *domain.ValidationError
	)

	switch {
	case errors.As(err, &required):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: required.Message()})
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: validation.Messages})
	case errors.Is(err, domain.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid email format."})
	case errors.Is(err, domain.ErrEmailInUse):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Email is already in use."})
	case errors.Is(err, domain.ErrPasswordMismatch):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Passwords do not match."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid email or password."})
	}

	h.log.Error().
		Err(err).
		Str("op", op).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")

	if errors.Is(err, domain.ErrStoreUnavailable) {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Database error."})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error."})
}

func resultOf(err error) string {
	var (
		required   *domain.RequiredFieldsError
		validation *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.ResultUnauthorized
	case errors.As(err, &required), errors.As(err, &validation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmailInUse),
		errors.Is(err, domain.ErrPasswordMismatch):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
