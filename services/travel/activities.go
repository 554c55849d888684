package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/voyago/travelplanner/internal/pkg/models"
)

// ActivitiesClient searches points of interest via the Foursquare Places API
type ActivitiesClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewActivitiesClient creates a Foursquare places client
func NewActivitiesClient(cfg models.ProvidersConfig) *ActivitiesClient {
	return &ActivitiesClient{
		baseURL: strings.TrimRight(cfg.FoursquareBaseURL, "/"),
		apiKey:  cfg.FoursquareAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether API credentials are present
func (c *ActivitiesClient) Configured() bool {
	return c.apiKey != ""
}

type foursquareResponse struct {
	Results []struct {
		Name       string `json:"name"`
		Distance   int    `json:"distance"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
	} `json:"results"`
}

// SearchActivities queries points of interest near a city center
func (c *ActivitiesClient) SearchActivities(ctx context.Context, req *models.ActivitySearchRequest) ([]models.Activity, error) {
	if req.City == "" {
		return nil, errors.New("city is required")
	}

	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	q := url.Values{
		"near":  {req.City},
		"limit": {strconv.Itoa(limit)},
		"sort":  {"RELEVANCE"},
	}
	if req.Type != "" {
		q.Set("query", req.Type)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v3/places/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: activity search returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed activity response", ErrProviderUnavailable)
	}

	activities := make([]models.Activity, 0, len(body.Results))
	for _, r := range body.Results {
		a := models.Activity{
			Name:     r.Name,
			Address:  r.Location.FormattedAddress,
			Distance: r.Distance,
		}
		if len(r.Categories) > 0 {
			a.Category = r.Categories[0].Name
		}
		activities = append(activities, a)
	}
	return activities, nil
}
