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

// WeatherClient fetches forecasts from the Open-Meteo API, which needs no key
type WeatherClient struct {
	baseURL string
	http    *http.Client
}

// NewWeatherClient creates a weather forecast client
func NewWeatherClient(cfg models.ProvidersConfig) *WeatherClient {
	return &WeatherClient{
		baseURL: strings.TrimRight(cfg.WeatherBaseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type coordinates struct {
	Lat float64
	Lng float64
}

// cityCoords covers popular destinations so forecasts work without a separate
// geocoding call
var cityCoords = map[string]coordinates{
	"jakarta":   {-6.2088, 106.8456},
	"bali":      {-8.4095, 115.1889},
	"denpasar":  {-8.6705, 115.2126},
	"singapore": {1.3521, 103.8198},
	"tokyo":     {35.6762, 139.6503},
	"kyoto":     {35.0116, 135.7681},
	"bangkok":   {13.7563, 100.5018},
	"paris":     {48.8566, 2.3522},
	"london":    {51.5074, -0.1278},
	"new york":  {40.7128, -74.0060},
	"sydney":    {-33.8688, 151.2093},
	"rome":      {41.9028, 12.4964},
	"barcelona": {41.3851, 2.1734},
	"dubai":     {25.2048, 55.2708},
	"mumbai":    {19.0760, 72.8777},
	"delhi":     {28.6139, 77.2090},
	"seoul":     {37.5665, 126.9780},
	"amsterdam": {52.3676, 4.9041},
	"istanbul":  {41.0082, 28.9784},
	"cairo":     {30.0444, 31.2357},
}

// weatherCodes maps WMO interpretation codes to short descriptions
var weatherCodes = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Fog", 48: "Depositing rime fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
	71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	80: "Rain showers", 81: "Moderate rain showers", 82: "Violent rain showers",
	95: "Thunderstorm", 96: "Thunderstorm with hail", 99: "Thunderstorm with heavy hail",
}

type openMeteoResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WeatherCode      []int     `json:"weathercode"`
	} `json:"daily"`
}

// Forecast returns a daily forecast for a known city
func (c *WeatherClient) Forecast(ctx context.Context, req *models.WeatherRequest) (*models.WeatherResult, error) {
	if req.City == "" {
		return nil, errors.New("city is required")
	}

	coords, ok := cityCoords[strings.ToLower(strings.TrimSpace(req.City))]
	if !ok {
		return nil, fmt.Errorf("unknown city: %s", req.City)
	}

	days := req.Days
	if days <= 0 || days > 16 {
		days = 7
	}

	q := url.Values{
		"latitude":      {strconv.FormatFloat(coords.Lat, 'f', 4, 64)},
		"longitude":     {strconv.FormatFloat(coords.Lng, 'f', 4, 64)},
		"daily":         {"temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode"},
		"forecast_days": {strconv.Itoa(days)},
		"timezone":      {"auto"},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: forecast returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed forecast response", ErrProviderUnavailable)
	}

	result := &models.WeatherResult{City: req.City}
	for i, date := range body.Daily.Time {
		day := models.DailyForecast{Date: date}
		if i < len(body.Daily.TemperatureMax) {
			day.MaxTempC = body.Daily.TemperatureMax[i]
		}
		if i < len(body.Daily.TemperatureMin) {
			day.MinTempC = body.Daily.TemperatureMin[i]
		}
		if i < len(body.Daily.PrecipitationSum) {
			p := body.Daily.PrecipitationSum[i]
			day.PrecipitationMM = &p
		}
		if i < len(body.Daily.WeatherCode) {
			if desc, ok := weatherCodes[body.Daily.WeatherCode[i]]; ok {
				day.Condition = desc
			} else {
				day.Condition = "Unknown"
			}
		}
		result.Forecast = append(result.Forecast, day)
	}
	return result, nil
}
