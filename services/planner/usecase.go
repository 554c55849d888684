package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// PlanRequest is the payload for an itinerary planning request
type PlanRequest struct {
	Destination string     `json:"destination"`
	Source      string     `json:"source,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Travelers   int        `json:"travelers,omitempty"`
	Request     string     `json:"request,omitempty"`
}

// Planner drafts an itinerary from a free-form request
type Planner interface {
	Plan(ctx context.Context, request string) (string, error)
	Configured() bool
}

// TripCreator persists a planned trip
type TripCreator interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req *models.CreateTripRequest) (*models.Trip, error)
}

// UseCase turns a planning request into a saved trip with an itinerary
type UseCase interface {
	PlanTrip(ctx context.Context, userID uuid.UUID, req *PlanRequest) (*models.Trip, error)
}

type plannerUC struct {
	agent Planner
	trips TripCreator
}

// NewUseCase creates the planning use case
func NewUseCase(agent Planner, trips TripCreator) UseCase {
	return &plannerUC{agent: agent, trips: trips}
}

// PlanTrip asks the agent for an itinerary and persists it as a new trip
func (uc *plannerUC) PlanTrip(ctx context.Context, userID uuid.UUID, req *PlanRequest) (*models.Trip, error) {
	if req.Destination == "" {
		return nil, errors.New("destination is required")
	}
	if !uc.agent.Configured() {
		return nil, ErrAgentUnavailable
	}

	prompt := buildPrompt(req)
	plan, err := uc.agent.Plan(ctx, prompt)
	if err != nil {
		return nil, err
	}

	trip, err := uc.trips.CreateTrip(ctx, userID, &models.CreateTripRequest{
		Destination: req.Destination,
		Source:      req.Source,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		TripPlan:    plan,
		UserRequest: req.Request,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Trip planned",
		logger.String("trip_id", trip.ID.String()),
		logger.String("destination", trip.Destination))
	return trip, nil
}

func buildPrompt(req *PlanRequest) string {
	prompt := fmt.Sprintf("Plan a trip to %s", req.Destination)
	if req.Source != "" {
		prompt += fmt.Sprintf(" from %s", req.Source)
	}
	if req.StartDate != nil && req.EndDate != nil {
		nights := int(req.EndDate.Sub(*req.StartDate).Hours() / 24)
		prompt += fmt.Sprintf(", %d nights starting %s", nights, req.StartDate.Format("2006-01-02"))
	}
	if req.Travelers > 1 {
		prompt += fmt.Sprintf(" for %d travelers", req.Travelers)
	}
	if req.Request != "" {
		prompt += ". " + req.Request
	}
	return prompt
}
