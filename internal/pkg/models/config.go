package models

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Alerts    AlertsConfig
	Providers ProvidersConfig
	Agent     AgentConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// SessionConfig contains bearer-token session configuration
type SessionConfig struct {
	TTLHours int
}

// AlertsConfig contains price monitor configuration
type AlertsConfig struct {
	IntervalSeconds int
	BackoffSeconds  int
	ChangeThreshold float64 // percent change that triggers a notification
	AutoStart       bool
}

// ProvidersConfig contains third-party travel API configuration
type ProvidersConfig struct {
	AmadeusBaseURL    string
	AmadeusAPIKey     string
	AmadeusAPISecret  string
	HotelsBaseURL     string
	RapidAPIKey       string
	RapidAPIHost      string
	FoursquareBaseURL string
	FoursquareAPIKey  string
	WeatherBaseURL    string
}

// AgentConfig contains the LLM planning agent configuration
type AgentConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
