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
	"sync"
	"time"

	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// ErrProviderUnavailable wraps upstream travel API failures
var ErrProviderUnavailable = errors.New("travel provider unavailable")

// tokenExpiryBuffer refreshes OAuth tokens slightly before the provider
// would reject them
const tokenExpiryBuffer = 30 * time.Second

// AmadeusClient searches flights via the Amadeus self-service API
type AmadeusClient struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewAmadeusClient creates an Amadeus flight search client
func NewAmadeusClient(cfg models.ProvidersConfig) *AmadeusClient {
	return &AmadeusClient{
		baseURL:   strings.TrimRight(cfg.AmadeusBaseURL, "/"),
		apiKey:    cfg.AmadeusAPIKey,
		apiSecret: cfg.AmadeusAPISecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether API credentials are present
func (c *AmadeusClient) Configured() bool {
	return c.apiKey != "" && c.apiSecret != ""
}

// token returns a cached OAuth access token, refreshing when near expiry
func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryBuffer)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.apiKey},
		"client_secret": {c.apiSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: malformed token response", ErrProviderUnavailable)
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

type amadeusOffersResponse struct {
	Data []struct {
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Departure   struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		TravelerPricings []struct {
			FareDetailsBySegment []struct {
				Cabin string `json:"cabin"`
			} `json:"fareDetailsBySegment"`
		} `json:"travelerPricings"`
	} `json:"data"`
}

// SearchFlights queries flight offers for the given route and date
func (c *AmadeusClient) SearchFlights(ctx context.Context, req *models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	if req.Origin == "" || req.Destination == "" {
		return nil, errors.New("origin and destination are required")
	}

	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"originLocationCode":      {strings.ToUpper(req.Origin)},
		"destinationLocationCode": {strings.ToUpper(req.Destination)},
		"max":                     {"10"},
	}
	date := req.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}
	q.Set("departureDate", date)
	adults := req.Passengers
	if adults <= 0 {
		adults = 1
	}
	q.Set("adults", strconv.Itoa(adults))
	if req.TravelClass != "" {
		q.Set("travelClass", strings.ToUpper(req.TravelClass))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/shopping/flight-offers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: flight search returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body amadeusOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed flight response", ErrProviderUnavailable)
	}

	result := &models.FlightSearchResult{
		Origin:      strings.ToUpper(req.Origin),
		Destination: strings.ToUpper(req.Destination),
		Date:        date,
	}
	for _, offer := range body.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		itin := offer.Itineraries[0]
		first := itin.Segments[0]
		last := itin.Segments[len(itin.Segments)-1]
		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}

		flight := models.Flight{
			Airline:       first.CarrierCode,
			FlightNumber:  first.CarrierCode + first.Number,
			Origin:        first.Departure.IataCode,
			Destination:   last.Arrival.IataCode,
			DepartureTime: first.Departure.At,
			ArrivalTime:   last.Arrival.At,
			Duration:      itin.Duration,
			Stops:         len(itin.Segments) - 1,
			Price:         price,
			Currency:      offer.Price.Currency,
		}
		if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
			flight.TravelClass = offer.TravelerPricings[0].FareDetailsBySegment[0].Cabin
		}
		result.Flights = append(result.Flights, flight)
	}

	logger.Debug("Flight search complete",
		logger.String("route", result.Origin+"-"+result.Destination),
		logger.Int("offers", len(result.Flights)))
	return result, nil
}

// Snapshot returns the cheapest current offer for a saved flight search
func (c *AmadeusClient) Snapshot(ctx context.Context, params json.RawMessage) (float64, error) {
	var req models.FlightSearchRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return 0, fmt.Errorf("invalid flight search params: %w", err)
	}

	result, err := c.SearchFlights(ctx, &req)
	if err != nil {
		return 0, err
	}
	if len(result.Flights) == 0 {
		return 0, fmt.Errorf("%w: no offers for %s-%s", ErrProviderUnavailable, req.Origin, req.Destination)
	}

	min := result.Flights[0].Price
	for _, f := range result.Flights[1:] {
		if f.Price < min {
			min = f.Price
		}
	}
	return min, nil
}
