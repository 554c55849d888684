package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/mmcloughlin/geohash"
	"github.com/voyago/travelplanner/internal/pkg/constants"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/utils"
)

// geohashPrecision gives ~150m cells, enough for coarse trip tracking
const geohashPrecision = 7

// LocationCache persists the latest sample per trip for the REST surface
type LocationCache interface {
	StoreLastLocation(ctx context.Context, tripID string, sample models.LocationSample) error
	GetLastLocation(ctx context.Context, tripID string) (*models.LocationSample, error)
}

// Handler serves the trip WebSocket endpoint and the location REST surface
type Handler struct {
	hub      *Hub
	resolver middleware.TokenResolver
	cache    LocationCache
	upgrader websocket.Upgrader
}

// NewHandler creates a realtime handler
func NewHandler(hub *Hub, resolver middleware.TokenResolver, cache LocationCache) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		cache:    cache,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the realtime endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	e.GET("/ws/trips/:id", h.HandleTripSocket)
	e.GET("/api/trips/:id/location", h.GetLastLocation, authMW)
	e.GET("/api/trips/:id/location/history", h.GetLocationHistory, authMW)
}

// HandleTripSocket upgrades the request and attaches the client to the trip
// channel and to its own user channel for targeted pushes
func (h *Handler) HandleTripSocket(c echo.Context) error {
	token := middleware.ExtractBearerToken(c)
	if token == "" {
		return utils.UnauthorizedResponse(c, "Authorization required")
	}

	userID, err := h.resolver.Resolve(c.Request().Context(), token)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Invalid or expired session")
	}

	tripID := c.Param("id")

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := NewConnection(ws, userID)
	h.hub.Connect(conn, TripChannel(tripID))
	h.hub.Connect(conn, UserChannel(userID))
	defer h.hub.Close(conn)

	// Replay retained history to the new subscriber
	history := h.hub.LocationHistory(tripID, LocationHistoryCap)
	if err := conn.Send(constants.EventHistory, history); err != nil {
		return nil
	}

	logger.Info("WebSocket client connected",
		logger.String("trip_id", tripID),
		logger.String("user_id", userID.String()))

	h.readLoop(ws, conn, tripID)

	logger.Info("WebSocket client disconnected",
		logger.String("trip_id", tripID),
		logger.String("user_id", userID.String()))
	return nil
}

func (h *Handler) readLoop(ws *websocket.Conn, conn *Connection, tripID string) {
	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			_ = conn.Send(constants.EventError, models.WSErrorMessage{
				Code:    constants.ErrorInvalidFormat,
				Message: "Invalid message format",
			})
			continue
		}

		switch msg.Type {
		case constants.EventLocationUpdate:
			h.handleLocationUpdate(conn, tripID, msg.Data)
		case constants.EventPing:
			_ = conn.Send(constants.EventPong, nil)
		default:
			// Opaque passthrough to everyone on the trip channel
			h.hub.Broadcast(TripChannel(tripID), msg)
		}
	}
}

func (h *Handler) handleLocationUpdate(conn *Connection, tripID string, data json.RawMessage) {
	var sample models.LocationSample
	if err := json.Unmarshal(data, &sample); err != nil {
		_ = conn.Send(constants.EventError, models.WSErrorMessage{
			Code:    constants.ErrorInvalidLocation,
			Message: "Invalid location format",
		})
		return
	}

	if sample.Latitude < -90 || sample.Latitude > 90 ||
		sample.Longitude < -180 || sample.Longitude > 180 {
		_ = conn.Send(constants.EventError, models.WSErrorMessage{
			Code:    constants.ErrorInvalidLocation,
			Message: "Coordinates out of range",
		})
		return
	}

	sample.Geohash = geohash.EncodeWithPrecision(sample.Latitude, sample.Longitude, geohashPrecision)
	stored := h.hub.StoreLocation(tripID, sample)

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := h.cache.StoreLastLocation(ctx, tripID, stored); err != nil {
			logger.Warn("Failed to cache last location",
				logger.String("trip_id", tripID),
				logger.Err(err))
		}
		cancel()
	}

	h.hub.BroadcastEvent(TripChannel(tripID), constants.EventLocationUpdate, stored)
}

// GetLastLocation returns the most recent cached sample for a trip
func (h *Handler) GetLastLocation(c echo.Context) error {
	tripID := c.Param("id")

	sample, err := h.cache.GetLastLocation(c.Request().Context(), tripID)
	if err != nil {
		return utils.NotFoundResponse(c, "No location data for trip")
	}

	return utils.SuccessResponse(c, http.StatusOK, "", sample)
}

// GetLocationHistory returns the retained in-memory history for a trip
func (h *Handler) GetLocationHistory(c echo.Context) error {
	tripID := c.Param("id")

	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return utils.BadRequestResponse(c, "Invalid limit")
	}

	history := h.hub.LocationHistory(tripID, limit)
	return utils.SuccessResponse(c, http.StatusOK, "", history)
}
