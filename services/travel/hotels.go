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

// HotelsClient searches hotel offers through a RapidAPI-hosted aggregator
type HotelsClient struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *http.Client
}

// NewHotelsClient creates a hotel search client
func NewHotelsClient(cfg models.ProvidersConfig) *HotelsClient {
	return &HotelsClient{
		baseURL: strings.TrimRight(cfg.HotelsBaseURL, "/"),
		apiKey:  cfg.RapidAPIKey,
		apiHost: cfg.RapidAPIHost,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether API credentials are present
func (c *HotelsClient) Configured() bool {
	return c.apiKey != ""
}

type hotelsResponse struct {
	Properties []struct {
		Name    string  `json:"name"`
		Address string  `json:"address"`
		Rating  float64 `json:"rating"`
		Price   struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"price"`
	} `json:"properties"`
}

// SearchHotels queries hotel offers for a city and stay window
func (c *HotelsClient) SearchHotels(ctx context.Context, req *models.HotelSearchRequest) (*models.HotelSearchResult, error) {
	if req.City == "" {
		return nil, errors.New("city is required")
	}

	checkin := req.Checkin
	if checkin == "" {
		checkin = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}
	checkout := req.Checkout
	if checkout == "" {
		checkout = time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	}

	q := url.Values{
		"location": {req.City},
		"checkin":  {checkin},
		"checkout": {checkout},
	}
	adults := req.Adults
	if adults <= 0 {
		adults = 2
	}
	q.Set("adults", strconv.Itoa(adults))
	rooms := req.Rooms
	if rooms <= 0 {
		rooms = 1
	}
	q.Set("rooms", strconv.Itoa(rooms))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: hotel search returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body hotelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed hotel response", ErrProviderUnavailable)
	}

	result := &models.HotelSearchResult{
		City:     req.City,
		Checkin:  checkin,
		Checkout: checkout,
	}
	for _, p := range body.Properties {
		if req.MaxPrice != nil && p.Price.Amount > *req.MaxPrice {
			continue
		}
		result.Hotels = append(result.Hotels, models.Hotel{
			Name:          p.Name,
			Address:       p.Address,
			Rating:        p.Rating,
			PricePerNight: p.Price.Amount,
			Currency:      p.Price.Currency,
		})
	}
	return result, nil
}

// Snapshot returns the cheapest current nightly rate for a saved hotel search
func (c *HotelsClient) Snapshot(ctx context.Context, params json.RawMessage) (float64, error) {
	var req models.HotelSearchRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return 0, fmt.Errorf("invalid hotel search params: %w", err)
	}

	result, err := c.SearchHotels(ctx, &req)
	if err != nil {
		return 0, err
	}
	if len(result.Hotels) == 0 {
		return 0, fmt.Errorf("%w: no offers for %s", ErrProviderUnavailable, req.City)
	}

	min := result.Hotels[0].PricePerNight
	for _, h := range result.Hotels[1:] {
		if h.PricePerNight < min {
			min = h.PricePerNight
		}
	}
	return min, nil
}
