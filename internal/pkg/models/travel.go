package models

// FlightSearchRequest is the payload for a flight search
type FlightSearchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD
	Passengers  int    `json:"passengers,omitempty"`
	TravelClass string `json:"travel_class,omitempty"`
}

// Flight represents a single flight offer
type Flight struct {
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	TravelClass   string  `json:"travel_class"`
}

// FlightSearchResult holds flight search results
type FlightSearchResult struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Date        string   `json:"date"`
	Flights     []Flight `json:"flights"`
}

// HotelSearchRequest is the payload for a hotel search
type HotelSearchRequest struct {
	City     string   `json:"city"`
	Checkin  string   `json:"checkin,omitempty"`
	Checkout string   `json:"checkout,omitempty"`
	Adults   int      `json:"adults,omitempty"`
	Rooms    int      `json:"rooms,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// Hotel represents a single hotel offer
type Hotel struct {
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	PricePerNight float64 `json:"price_per_night"`
	Currency      string  `json:"currency"`
}

// HotelSearchResult holds hotel search results
type HotelSearchResult struct {
	City     string  `json:"city"`
	Checkin  string  `json:"checkin"`
	Checkout string  `json:"checkout"`
	Hotels   []Hotel `json:"hotels"`
}

// ActivitySearchRequest is the payload for an activity search
type ActivitySearchRequest struct {
	City  string `json:"city"`
	Type  string `json:"type,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Activity represents a point of interest
type Activity struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address,omitempty"`
	Distance int    `json:"distance,omitempty"` // meters from city center
}

// WeatherRequest is the payload for a weather forecast
type WeatherRequest struct {
	City string `json:"city"`
	Days int    `json:"days,omitempty"`
}

// DailyForecast represents one day of forecast data
type DailyForecast struct {
	Date            string   `json:"date"`
	MaxTempC        float64  `json:"max_temp_c"`
	MinTempC        float64  `json:"min_temp_c"`
	PrecipitationMM *float64 `json:"precipitation_mm,omitempty"`
	Condition       string   `json:"condition"`
}

// WeatherResult holds a multi-day forecast for a city
type WeatherResult struct {
	City     string          `json:"city"`
	Forecast []DailyForecast `json:"forecast"`
}
