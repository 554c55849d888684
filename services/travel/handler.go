package travel

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/utils"
)

// Handler serves the travel search endpoints
type Handler struct {
	flights    *AmadeusClient
	hotels     *HotelsClient
	activities *ActivitiesClient
	weather    *WeatherClient
}

// NewHandler creates the travel search HTTP handler
func NewHandler(flights *AmadeusClient, hotels *HotelsClient, activities *ActivitiesClient, weather *WeatherClient) *Handler {
	return &Handler{flights: flights, hotels: hotels, activities: activities, weather: weather}
}

// RegisterRoutes registers the search endpoints, all behind session auth
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	api := e.Group("/api", auth)
	api.POST("/flights/search", h.SearchFlights)
	api.POST("/hotels/search", h.SearchHotels)
	api.POST("/activities/search", h.SearchActivities)
	api.POST("/weather/forecast", h.Forecast)
}

// SearchFlights handles POST /api/flights/search
func (h *Handler) SearchFlights(c echo.Context) error {
	if !h.flights.Configured() {
		return utils.ServiceUnavailableResponse(c, "Flight search is not configured")
	}

	var req models.FlightSearchRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	result, err := h.flights.SearchFlights(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return utils.ServiceUnavailableResponse(c, "Flight search is temporarily unavailable")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SearchHotels handles POST /api/hotels/search
func (h *Handler) SearchHotels(c echo.Context) error {
	if !h.hotels.Configured() {
		return utils.ServiceUnavailableResponse(c, "Hotel search is not configured")
	}

	var req models.HotelSearchRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	result, err := h.hotels.SearchHotels(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return utils.ServiceUnavailableResponse(c, "Hotel search is temporarily unavailable")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SearchActivities handles POST /api/activities/search
func (h *Handler) SearchActivities(c echo.Context) error {
	if !h.activities.Configured() {
		return utils.ServiceUnavailableResponse(c, "Activity search is not configured")
	}

	var req models.ActivitySearchRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	result, err := h.activities.SearchActivities(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return utils.ServiceUnavailableResponse(c, "Activity search is temporarily unavailable")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Forecast handles POST /api/weather/forecast
func (h *Handler) Forecast(c echo.Context) error {
	var req models.WeatherRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	result, err := h.weather.Forecast(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return utils.ServiceUnavailableResponse(c, "Weather forecast is temporarily unavailable")
		}
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.SuccessResponse(c, http.StatusOK, "", result)
}
