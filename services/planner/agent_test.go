package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

func TestAgentPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Kyoto")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Day 1: Fushimi Inari."}},
			},
		})
	}))
	t.Cleanup(server.Close)

	client := NewAgentClient(models.AgentConfig{
		Endpoint: server.URL, APIKey: "test-key", Model: "gpt-4o-mini",
	})

	plan, err := client.Plan(context.Background(), "Plan a trip to Kyoto")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Fushimi Inari.", plan)
}

func TestAgentUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewAgentClient(models.AgentConfig{Endpoint: server.URL, APIKey: "k", Model: "m"})
	_, err := client.Plan(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}

func TestAgentEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewAgentClient(models.AgentConfig{Endpoint: server.URL, APIKey: "k", Model: "m"})
	_, err := client.Plan(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}

type fakePlanner struct {
	plan       string
	err        error
	configured bool
	prompts    []string
}

func (p *fakePlanner) Plan(_ context.Context, request string) (string, error) {
	p.prompts = append(p.prompts, request)
	if p.err != nil {
		return "", p.err
	}
	return p.plan, nil
}

func (p *fakePlanner) Configured() bool { return p.configured }

type fakeTripCreator struct {
	created *models.CreateTripRequest
}

func (f *fakeTripCreator) CreateTrip(_ context.Context, userID uuid.UUID, req *models.CreateTripRequest) (*models.Trip, error) {
	f.created = req
	return &models.Trip{
		ID:          uuid.New(),
		UserID:      userID,
		Destination: req.Destination,
		TripPlan:    req.TripPlan,
		Status:      models.TripStatusPlanned,
	}, nil
}

func TestPlanTripPersistsItinerary(t *testing.T) {
	agent := &fakePlanner{plan: "Day 1: arrive.", configured: true}
	creator := &fakeTripCreator{}
	uc := NewUseCase(agent, creator)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	trip, err := uc.PlanTrip(context.Background(), uuid.New(), &PlanRequest{
		Destination: "Kyoto",
		Source:      "Jakarta",
		StartDate:   &start,
		EndDate:     &end,
		Travelers:   2,
		Request:     "Focus on temples",
	})
	require.NoError(t, err)
	assert.Equal(t, "Day 1: arrive.", trip.TripPlan)

	require.Len(t, agent.prompts, 1)
	assert.Contains(t, agent.prompts[0], "Kyoto")
	assert.Contains(t, agent.prompts[0], "4 nights")
	assert.Contains(t, agent.prompts[0], "2 travelers")
	assert.Contains(t, agent.prompts[0], "Focus on temples")
	require.NotNil(t, creator.created)
	assert.Equal(t, "Focus on temples", creator.created.UserRequest)
}

func TestPlanTripUnconfiguredAgent(t *testing.T) {
	uc := NewUseCase(&fakePlanner{configured: false}, &fakeTripCreator{})
	_, err := uc.PlanTrip(context.Background(), uuid.New(), &PlanRequest{Destination: "Kyoto"})
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}
