package constants

// WebSocket event types
const (
	EventError          = "error"
	EventPing           = "ping"
	EventPong           = "pong"
	EventHistory        = "history"
	EventLocationUpdate = "location_update"
	EventPriceAlert     = "price_alert"
	EventNotification   = "notification"
)

// WebSocket error codes
const (
	ErrorInvalidFormat   = "invalid_format"
	ErrorInvalidLocation = "invalid_location"
	ErrorUnauthorized    = "unauthorized"
	ErrorInternalError   = "internal_error"
)
