package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification kinds
const (
	NotificationInfo          = "info"
	NotificationSuccess       = "success"
	NotificationWarning       = "warning"
	NotificationError         = "error"
	NotificationPriceDrop     = "price_drop"
	NotificationPriceIncrease = "price_increase"
	NotificationTripReminder  = "trip_reminder"
	NotificationBudgetAlert   = "budget_alert"
)

// Notification represents a persisted user notification
type Notification struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Title     string          `json:"title" db:"title"`
	Message   string          `json:"message" db:"message"`
	Kind      string          `json:"kind" db:"kind"`
	Data      json.RawMessage `json:"data,omitempty" db:"data"`
	IsRead    bool            `json:"is_read" db:"is_read"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
