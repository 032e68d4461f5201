package weather

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by a Store when no record exists for a key.
	ErrCacheMiss = errors.New("no cached record")

	// ErrCoordinatesNotFound is returned when a pincode cannot be resolved,
	// whether the pincode is bad or the upstream is unavailable.
	ErrCoordinatesNotFound = errors.New("unable to resolve coordinates for pincode")

	// ErrWeatherUnavailable is returned when no weather payload could be produced.
	ErrWeatherUnavailable = errors.New("unable to fetch weather information")
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Payload is an upstream weather document. It is stored and echoed verbatim.
type Payload = json.RawMessage

// Stats is a point-in-time count of cached records.
type Stats struct {
	Pincodes       int64     `json:"pincodes"`
	WeatherRecords int64     `json:"weatherRecords"`
	CollectedAt    time.Time `json:"collectedAt"`
}
