package weather

import (
	"context"
)

// Geocoder resolves a pincode to coordinates using an upstream API.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, pincode string) (Coordinates, error)
}

// Fetcher retrieves the current weather document for a coordinate pair.
type Fetcher interface {
	Name() string
	FetchCurrent(ctx context.Context, coords Coordinates) (Payload, error)
}

// Store is the contract the SQL and in-memory stores satisfy.
// Lookups return ErrCacheMiss when nothing is stored for the key.
// Saves keep the first value written for a key and ignore later ones.
type Store interface {
	GetCoordinates(ctx context.Context, pincode string) (Coordinates, error)
	SaveCoordinates(ctx context.Context, pincode string, coords Coordinates) error
	GetWeather(ctx context.Context, pincode, date string) (Payload, error)
	SaveWeather(ctx context.Context, pincode, date string, payload Payload) error
	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
}
