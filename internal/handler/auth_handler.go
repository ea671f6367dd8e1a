package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uniapply/internal/service"
)

// AuthHandler handles token endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenResponse represents an authentication response.
type TokenResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
}

// Login godoc
// @Summary Obtain an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	access, refresh, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	projection := newUserResponse(user)
	return c.JSON(http.StatusOK, TokenResponse{
		Access:  access,
		Refresh: refresh,
		User:    &projection,
	})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{Access: access})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body RefreshRequest true "Refresh token"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token/logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
