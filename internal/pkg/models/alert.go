package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AlertKind identifies which snapshot fetcher serves a price alert
type AlertKind string

const (
	AlertKindFlight AlertKind = "flight"
	AlertKindHotel  AlertKind = "hotel"
)

// PriceAlert is a persisted watch on a price. The search params are opaque to
// the alert store and the monitor; only the fetcher for the alert's kind
// interprets them.
type PriceAlert struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	Kind         AlertKind       `json:"kind" db:"kind"`
	SearchParams json.RawMessage `json:"search_params" db:"search_params"`
	InitialPrice float64         `json:"initial_price" db:"initial_price"`
	CurrentPrice float64         `json:"current_price" db:"current_price"`
	TargetPrice  *float64        `json:"target_price,omitempty" db:"target_price"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	LastChecked  *time.Time      `json:"last_checked,omitempty" db:"last_checked"`
}

// PriceChange describes the outcome of a price update on an alert
type PriceChange struct {
	AlertID       uuid.UUID       `json:"alert_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Kind          AlertKind       `json:"kind"`
	SearchParams  json.RawMessage `json:"search_params"`
	OldPrice      float64         `json:"old_price"`
	NewPrice      float64         `json:"new_price"`
	Delta         float64         `json:"delta"`
	PercentChange float64         `json:"percent_change"`
}

// CreateAlertRequest is the payload for alert creation
type CreateAlertRequest struct {
	Kind         AlertKind       `json:"kind"`
	SearchParams json.RawMessage `json:"search_params"`
	InitialPrice float64         `json:"initial_price"`
	TargetPrice  *float64        `json:"target_price,omitempty"`
}
