package notifications

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves the notification endpoints
type Handler struct {
	uc UseCase
}

// NewHandler creates the notifications HTTP handler
func NewHandler(uc UseCase) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes registers the notification endpoints, all behind session auth
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	api := e.Group("/api/notifications", auth)
	api.GET("", h.List)
	api.GET("/unread-count", h.UnreadCount)
	api.PUT("/:id/read", h.MarkRead)
	api.PUT("/read-all", h.MarkAllRead)
}

// List handles GET /api/notifications?unread=true
func (h *Handler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	unreadOnly := c.QueryParam("unread") == "true"
	list, err := h.uc.List(c.Request().Context(), userID, unreadOnly)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to list notifications")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *Handler) UnreadCount(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	count, err := h.uc.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to count notifications")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]int{"unread_count": count})
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *Handler) MarkRead(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid notification ID")
	}

	updated, err := h.uc.MarkRead(c.Request().Context(), userID, id)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to mark notification read")
	}
	if !updated {
		return utils.NotFoundResponse(c, "Notification not found")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Notification marked read", nil)
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *Handler) MarkAllRead(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	count, err := h.uc.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to mark notifications read")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]int64{"marked_read": count})
}
