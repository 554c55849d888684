package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves the account endpoints
type Handler struct {
	uc UseCase
}

// NewHandler creates the auth HTTP handler
func NewHandler(uc UseCase) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes registers public auth endpoints and session-guarded profile
// endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)

	api := e.Group("/api/auth", auth)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)
	api.PUT("/me", h.UpdateProfile)
	api.PUT("/password", h.ChangePassword)
}

// Register handles POST /api/auth/register
func (h *Handler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	resp, err := h.uc.Register(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return utils.ErrorResponseHandler(c, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			return utils.BadRequestResponse(c, err.Error())
		default:
			return utils.InternalServerErrorResponse(c, "Registration failed")
		}
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Account created", resp)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	resp, err := h.uc.Login(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return utils.UnauthorizedResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Login failed")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Logged in", resp)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return utils.InternalServerErrorResponse(c, "Logout failed")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to load profile")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", user)
}

// UpdateProfile handles PUT /api/auth/me
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to update profile")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Profile updated", user)
}

// ChangePassword handles PUT /api/auth/password
func (h *Handler) ChangePassword(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return utils.UnauthorizedResponse(c, "Current password is incorrect")
		case errors.Is(err, ErrWeakPassword):
			return utils.BadRequestResponse(c, err.Error())
		default:
			return utils.InternalServerErrorResponse(c, "Failed to change password")
		}
	}
	return utils.SuccessResponse(c, http.StatusOK, "Password changed", nil)
}
