package handler

import (
	"fmt"
	"net/http"

	"calreminder/internal/application/dto"
	"calreminder/internal/application/service"
	"calreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles the sign-in lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
	frontendURL string
	log         logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, frontendURL string, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Status reports whether the session is signed in.
func (h *AuthHandler) Status(c echo.Context) error {
	authenticated, err := h.authService.Probe(c.Request().Context())
	if err != nil {
		// A failed probe still answers the question: not signed in.
		h.log.Warn(fmt.Sprintf("Status probe failed: %v", err))
		authenticated = false
	}
	return c.JSON(http.StatusOK, dto.AuthStatusResponse{Authenticated: authenticated})
}

// Start redirects the caller to the provider consent page.
func (h *AuthHandler) Start(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, h.authService.AuthURL())
}

// Callback finishes the sign-in flow and bounces back to the frontend.
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Missing code in callback."})
	}
	if err := h.authService.CompleteSignIn(c.Request().Context(), code); err != nil {
		h.log.Error("OAuth callback exchange failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to complete sign-in."})
	}
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/?auth=success")
}

// Logout signs the session out. Idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.SignOut(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to sign out."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}
