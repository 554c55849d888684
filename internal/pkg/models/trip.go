package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus represents the current status of a trip
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusBooked    TripStatus = "booked"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip represents a planned journey
type Trip struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Destination string     `json:"destination" db:"destination"`
	Source      string     `json:"source,omitempty" db:"source"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Travelers   int        `json:"travelers" db:"travelers"`
	Status      TripStatus `json:"status" db:"status"`
	TripPlan    string     `json:"trip_plan,omitempty" db:"trip_plan"`
	UserRequest string     `json:"user_request,omitempty" db:"user_request"`
	Rating      *int       `json:"rating,omitempty" db:"rating"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateTripRequest is the payload for trip creation
type CreateTripRequest struct {
	Destination string     `json:"destination"`
	Source      string     `json:"source,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Travelers   int        `json:"travelers,omitempty"`
	TripPlan    string     `json:"trip_plan,omitempty"`
	UserRequest string     `json:"user_request,omitempty"`
}

// UpdateTripRequest is the payload for a trip update; nil fields are untouched
type UpdateTripRequest struct {
	Destination *string     `json:"destination,omitempty"`
	Source      *string     `json:"source,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	Travelers   *int        `json:"travelers,omitempty"`
	Status      *TripStatus `json:"status,omitempty"`
	TripPlan    *string     `json:"trip_plan,omitempty"`
	Rating      *int        `json:"rating,omitempty"`
}
