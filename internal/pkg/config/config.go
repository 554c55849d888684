package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// InitConfig loads configuration from an env file (local only) and the process
// environment
func InitConfig(configPath string) *models.Config {
	env := GetEnv("APP_ENV", "local")
	if env == "local" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "travelplanner")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 8000)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 30)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 30)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "localhost")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "travelplanner")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 10)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 5)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "localhost")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// Session config
	configs.Session.TTLHours = GetEnvAsInt("SESSION_TTL_HOURS", 24)

	// Price monitor config
	configs.Alerts.IntervalSeconds = GetEnvAsInt("ALERT_CHECK_INTERVAL", 300)
	configs.Alerts.BackoffSeconds = GetEnvAsInt("ALERT_CHECK_BACKOFF", 60)
	configs.Alerts.ChangeThreshold = GetEnvAsFloat("ALERT_CHANGE_THRESHOLD", 5.0)
	configs.Alerts.AutoStart = GetEnvAsBool("ALERT_MONITOR_AUTOSTART", true)

	// Travel providers config
	configs.Providers.AmadeusBaseURL = GetEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	configs.Providers.AmadeusAPIKey = GetEnv("AMADEUS_API_KEY", "")
	configs.Providers.AmadeusAPISecret = GetEnv("AMADEUS_API_SECRET", "")
	configs.Providers.HotelsBaseURL = GetEnv("HOTELS_BASE_URL", "https://hotels-com-provider.p.rapidapi.com")
	configs.Providers.RapidAPIKey = GetEnv("RAPIDAPI_KEY", "")
	configs.Providers.RapidAPIHost = GetEnv("RAPIDAPI_HOST", "hotels-com-provider.p.rapidapi.com")
	configs.Providers.FoursquareBaseURL = GetEnv("FOURSQUARE_BASE_URL", "https://api.foursquare.com")
	configs.Providers.FoursquareAPIKey = GetEnv("FOURSQUARE_API_KEY", "")
	configs.Providers.WeatherBaseURL = GetEnv("WEATHER_BASE_URL", "https://api.open-meteo.com")

	// Agent config
	configs.Agent.Endpoint = GetEnv("AGENT_ENDPOINT", "https://api.groq.com/openai")
	configs.Agent.APIKey = GetEnv("AGENT_API_KEY", "")
	configs.Agent.Model = GetEnv("AGENT_MODEL", "llama-3.3-70b-versatile")

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
