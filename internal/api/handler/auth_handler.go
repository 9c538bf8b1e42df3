package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/api/metrics"
	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new account and returns its first session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	session, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues("signup", loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSessionResponse(session))
}

// Login exchanges credentials for a fresh session. The stored refresh token
// is replaced.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues("login", loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

func bindCredentials(c echo.Context) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, UserID: s.UserID}
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUserExists):
		return "invalid"
	default:
		return "error"
	}
}
