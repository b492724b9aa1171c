package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

type Config struct {
	Server     ServerConfig
	Prediction PredictionConfig
	Weather    WeatherConfig
	Twilio     TwilioConfig
	DB         DatabaseConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type PredictionConfig struct {
	Interval time.Duration
	Areas    []models.MonitoredArea
}

type WeatherConfig struct {
	BaseURL string
	APIKey  string
}

type TwilioConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

// defaultAreas are the monitored high-risk coastal and inland cities scanned
// by the prediction scheduler when MONITORED_AREAS is unset.
var defaultAreas = []models.MonitoredArea{
	{Lat: 19.0760, Lng: 72.8777, Name: "Mumbai"},
	{Lat: 22.5726, Lng: 88.3639, Name: "Kolkata"},
	{Lat: 13.0827, Lng: 80.2707, Name: "Chennai"},
	{Lat: 17.3850, Lng: 78.4867, Name: "Hyderabad"},
	{Lat: 23.8315, Lng: 91.2868, Name: "Agartala"},
	{Lat: 20.2961, Lng: 85.8245, Name: "Bhubaneswar"},
}

func Load() (*Config, error) {
	areas, err := parseAreas(os.Getenv("MONITORED_AREAS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Prediction: PredictionConfig{
			Interval: getEnvDuration("PREDICTION_INTERVAL", 15*time.Minute),
			Areas:    areas,
		},
		Weather: WeatherConfig{
			BaseURL: getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
			APIKey:  os.Getenv("OPENWEATHERMAP_API_KEY"),
		},
		Twilio: TwilioConfig{
			BaseURL:    getEnv("TWILIO_API_URL", "https://api.twilio.com"),
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/prism.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Prediction.Interval < time.Minute {
		return fmt.Errorf("prediction interval must be at least 1 minute")
	}
	if len(c.Prediction.Areas) == 0 {
		return fmt.Errorf("at least one monitored area is required")
	}

	if c.Twilio.AccountSID != "" && !strings.HasPrefix(c.Twilio.AccountSID, "AC") {
		return fmt.Errorf("invalid Twilio account SID: must start with AC")
	}

	return nil
}

// parseAreas reads a "Name,lat,lng;Name,lat,lng" list. An empty value falls
// back to the default registry.
func parseAreas(raw string) ([]models.MonitoredArea, error) {
	if raw == "" {
		return defaultAreas, nil
	}

	var areas []models.MonitoredArea
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid monitored area %q: want Name,lat,lng", entry)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in monitored area %q", entry)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in monitored area %q", entry)
		}
		areas = append(areas, models.MonitoredArea{
			Name: strings.TrimSpace(parts[0]),
			Lat:  lat,
			Lng:  lng,
		})
	}
	if len(areas) == 0 {
		return nil, fmt.Errorf("MONITORED_AREAS is set but contains no areas")
	}
	return areas, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
