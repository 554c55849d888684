package trips

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves trip and budget endpoints
type Handler struct {
	uc UseCase
}

// NewHandler creates the trips HTTP handler
func NewHandler(uc UseCase) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes registers trip and budget endpoints, all behind session auth
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	trips := e.Group("/api/trips", auth)
	trips.POST("", h.CreateTrip)
	trips.GET("", h.ListTrips)
	trips.GET("/:id", h.GetTrip)
	trips.PUT("/:id", h.UpdateTrip)
	trips.DELETE("/:id", h.DeleteTrip)
	trips.GET("/:id/pdf", h.DownloadItinerary)

	budgets := e.Group("/api/budgets", auth)
	budgets.POST("", h.CreateBudget)
	budgets.GET("", h.ListBudgets)
	budgets.GET("/summary", h.BudgetSummary)
	budgets.DELETE("/:id", h.DeleteBudget)
	budgets.POST("/:id/transactions", h.AddExpense)
	budgets.GET("/:id/transactions", h.ListTransactions)
}

// CreateTrip handles POST /api/trips
func (h *Handler) CreateTrip(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	trip, err := h.uc.CreateTrip(c.Request().Context(), userID, &req)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Trip created", trip)
}

// ListTrips handles GET /api/trips?status=...
func (h *Handler) ListTrips(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	status := models.TripStatus(c.QueryParam("status"))
	trips, err := h.uc.ListTrips(c.Request().Context(), userID, status)
	if err != nil {
		if status != "" {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to list trips")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", trips)
}

// GetTrip handles GET /api/trips/:id
func (h *Handler) GetTrip(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	trip, err := h.uc.GetTrip(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return utils.NotFoundResponse(c, "Trip not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to load trip")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", trip)
}

// UpdateTrip handles PUT /api/trips/:id
func (h *Handler) UpdateTrip(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	var req models.UpdateTripRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	trip, err := h.uc.UpdateTrip(c.Request().Context(), userID, tripID, &req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return utils.NotFoundResponse(c, "Trip not found")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip updated", trip)
}

// DeleteTrip handles DELETE /api/trips/:id
func (h *Handler) DeleteTrip(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	if err := h.uc.DeleteTrip(c.Request().Context(), userID, tripID); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return utils.NotFoundResponse(c, "Trip not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to delete trip")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip deleted", nil)
}

// DownloadItinerary handles GET /api/trips/:id/pdf
func (h *Handler) DownloadItinerary(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	doc, err := h.uc.BuildItineraryPDF(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return utils.NotFoundResponse(c, "Trip not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to build itinerary")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="itinerary-%s.pdf"`, tripID))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// CreateBudget handles POST /api/budgets
func (h *Handler) CreateBudget(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	budget, err := h.uc.CreateBudget(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return utils.NotFoundResponse(c, "Trip not found")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Budget created", budget)
}

// ListBudgets handles GET /api/budgets?trip_id=...
func (h *Handler) ListBudgets(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := optionalTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	budgets, err := h.uc.ListBudgets(c.Request().Context(), userID, tripID)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to list budgets")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", budgets)
}

// BudgetSummary handles GET /api/budgets/summary?trip_id=...
func (h *Handler) BudgetSummary(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := optionalTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	summary, err := h.uc.BudgetSummary(c.Request().Context(), userID, tripID)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to build summary")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// DeleteBudget handles DELETE /api/budgets/:id
func (h *Handler) DeleteBudget(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid budget ID")
	}

	if err := h.uc.DeleteBudget(c.Request().Context(), userID, budgetID); err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return utils.NotFoundResponse(c, "Budget not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to delete budget")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Budget deleted", nil)
}

// AddExpense handles POST /api/budgets/:id/transactions
func (h *Handler) AddExpense(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid budget ID")
	}

	var req models.AddTransactionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	budget, err := h.uc.AddExpense(c.Request().Context(), userID, budgetID, &req)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return utils.NotFoundResponse(c, "Budget not found")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Transaction recorded", budget)
}

// ListTransactions handles GET /api/budgets/:id/transactions
func (h *Handler) ListTransactions(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid budget ID")
	}

	txns, err := h.uc.ListTransactions(c.Request().Context(), userID, budgetID)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return utils.NotFoundResponse(c, "Budget not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to list transactions")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", txns)
}

func optionalTripID(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("trip_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
