package planner

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves the trip planning endpoint
type Handler struct {
	uc UseCase
}

// NewHandler creates the planner HTTP handler
func NewHandler(uc UseCase) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes registers the planning endpoint behind session auth
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/api/plan", h.PlanTrip, auth)
}

// PlanTrip handles POST /api/plan
func (h *Handler) PlanTrip(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	trip, err := h.uc.PlanTrip(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrAgentUnavailable) {
			return utils.ServiceUnavailableResponse(c, "Trip planning is temporarily unavailable")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Trip planned", trip)
}
