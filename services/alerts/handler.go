package alerts

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves alert management and monitor control endpoints
type Handler struct {
	uc      UseCase
	monitor *Monitor
}

// NewHandler creates the alerts HTTP handler
func NewHandler(uc UseCase, monitor *Monitor) *Handler {
	return &Handler{uc: uc, monitor: monitor}
}

// RegisterRoutes registers the alert endpoints, all behind session auth
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	api := e.Group("/api/alerts", auth)
	api.POST("", h.CreateAlert)
	api.GET("", h.ListAlerts)
	api.DELETE("/:id", h.CancelAlert)
	api.POST("/monitor/start", h.StartMonitor)
	api.POST("/monitor/stop", h.StopMonitor)
	api.GET("/monitor/status", h.MonitorStatus)
}

// CreateAlert handles POST /api/alerts
func (h *Handler) CreateAlert(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	alert, err := h.uc.CreateAlert(c.Request().Context(), userID, &req)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Price alert created", alert)
}

// ListAlerts handles GET /api/alerts
func (h *Handler) ListAlerts(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	alerts, err := h.uc.GetAlerts(c.Request().Context(), userID)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to list alerts")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", alerts)
}

// CancelAlert handles DELETE /api/alerts/:id
func (h *Handler) CancelAlert(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid alert ID")
	}

	if err := h.uc.CancelAlert(c.Request().Context(), userID, alertID); err != nil {
		if err == ErrAlertNotFound {
			return utils.NotFoundResponse(c, "Alert not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to cancel alert")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Alert cancelled", nil)
}

// StartMonitor handles POST /api/alerts/monitor/start
func (h *Handler) StartMonitor(c echo.Context) error {
	status := h.monitor.Start()
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]string{"status": status})
}

// StopMonitor handles POST /api/alerts/monitor/stop
func (h *Handler) StopMonitor(c echo.Context) error {
	status := h.monitor.Stop()
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]string{"status": status})
}

// MonitorStatus handles GET /api/alerts/monitor/status
func (h *Handler) MonitorStatus(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]bool{"running": h.monitor.Running()})
}
