package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

const (
	GeocoderOpenWeather = "openweather"
	GeocoderGoogle      = "google"

	WeatherOpenWeather = "openweather"
	WeatherAPI         = "weatherapi"
	WeatherOpenMeteo   = "openmeteo"
)

// ErrMissingAPIKey is returned when OPENWEATHER_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY environment variable is not set")

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GoogleAPIKey      string

	// Upstream selection.
	Geocoder        string
	WeatherProvider string
	GeocodeCountry  string

	// DatabaseURL is a SQLite path, a postgres DSN or "memory".
	DatabaseURL string

	HTTPTimeout        time.Duration
	UpstreamMaxRetries int

	// StatsInterval controls how often cache sizes are collected.
	StatsInterval time.Duration

	LogLevel log.Level
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Infof("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderOpenWeather))
	switch cfg.Geocoder {
	case GeocoderOpenWeather:
	case GeocoderGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GEOCODER=%s requires GOOGLE_API_KEY", cfg.Geocoder)
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", WeatherOpenWeather))
	switch cfg.WeatherProvider {
	case WeatherOpenWeather, WeatherOpenMeteo:
	case WeatherAPI:
		if cfg.WeatherAPIKey == "" {
			return nil, fmt.Errorf("WEATHER_PROVIDER=%s requires WEATHERAPI_API_KEY", cfg.WeatherProvider)
		}
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.WeatherProvider)
	}

	cfg.GeocodeCountry = getenvDefault("GEOCODE_COUNTRY", "IN")
	cfg.DatabaseURL = getenvDefault("DATABASE_URL", "weather.db")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	cfg.HTTPTimeout = timeout

	retries, err := getenvInt("UPSTREAM_MAX_RETRIES", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: %w", err)
	}
	cfg.UpstreamMaxRetries = retries
	if cfg.UpstreamMaxRetries < 0 {
		return nil, fmt.Errorf("UPSTREAM_MAX_RETRIES must not be negative")
	}

	interval, err := time.ParseDuration(getenvDefault("STATS_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}
	cfg.StatsInterval = interval

	cfg.LogLevel = parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func parseLogLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	if v := os.Getenv(key); v != "" {
		return strconv.Atoi(v)
	}
	return def, nil
}
