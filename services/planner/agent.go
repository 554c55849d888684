package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/voyago/travelplanner/internal/pkg/models"
)

// ErrAgentUnavailable wraps planning agent failures
var ErrAgentUnavailable = errors.New("planning agent unavailable")

const systemPrompt = `You are a travel planning assistant. Produce a concise ` +
	`day-by-day itinerary for the requested trip. Include suggested areas to ` +
	`stay, two or three activities per day and a one-line food tip. Plain text, ` +
	`one day per paragraph.`

// AgentClient calls an OpenAI-compatible chat completions endpoint to draft
// itineraries
type AgentClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

// NewAgentClient creates a planning agent client
func NewAgentClient(cfg models.AgentConfig) *AgentClient {
	return &AgentClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether the agent endpoint and key are present
func (c *AgentClient) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Plan asks the agent for an itinerary matching the free-form request
func (c *AgentClient) Plan(ctx context.Context, request string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: request},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: agent returned %d", ErrAgentUnavailable, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("%w: malformed agent response", ErrAgentUnavailable)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAgentUnavailable, chat.Error.Message)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrAgentUnavailable)
	}
	return chat.Choices[0].Message.Content, nil
}
