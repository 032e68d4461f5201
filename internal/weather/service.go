package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
)

// Service resolves pincodes to coordinates and coordinates to weather,
// consulting the store before the upstream providers.
type Service struct {
	store    Store
	geocoder Geocoder
	fetcher  Fetcher
}

// NewService creates a new Service.
func NewService(store Store, geocoder Geocoder, fetcher Fetcher) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		fetcher:  fetcher,
	}
}

// ResolveCoordinates returns the coordinates for pincode, geocoding and
// persisting them on a store miss. Every upstream failure is reported as
// ErrCoordinatesNotFound.
func (s *Service) ResolveCoordinates(ctx context.Context, pincode string) (Coordinates, error) {
	coords, err := s.store.GetCoordinates(ctx, pincode)
	if err == nil {
		log.Debugf("coordinates cache hit for pincode %s", pincode)
		return coords, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Treat a broken read as a miss and go upstream.
		log.Errorw("coordinates lookup failed", "pincode", pincode, "error", err)
	}

	if s.geocoder == nil {
		log.Errorf("no geocoder configured; cannot resolve pincode %s", pincode)
		return Coordinates{}, ErrCoordinatesNotFound
	}

	coords, err = s.geocoder.Geocode(ctx, pincode)
	if err != nil {
		log.Errorw("geocoding failed", "provider", s.geocoder.Name(), "pincode", pincode, "error", err)
		return Coordinates{}, fmt.Errorf("%w: %v", ErrCoordinatesNotFound, err)
	}

	if err := s.store.SaveCoordinates(ctx, pincode, coords); err != nil {
		log.Errorw("failed to cache coordinates", "pincode", pincode, "error", err)
	}

	return coords, nil
}

// ResolveWeather returns the weather payload cached under (pincode, date),
// fetching and persisting the current conditions at coords on a store miss.
// The upstream only serves current conditions, so date partitions the cache
// and is not sent upstream.
func (s *Service) ResolveWeather(ctx context.Context, coords Coordinates, date, pincode string) (Payload, error) {
	payload, err := s.store.GetWeather(ctx, pincode, date)
	if err == nil {
		log.Debugf("weather cache hit for pincode %s on %s", pincode, date)
		return payload, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Errorw("weather lookup failed", "pincode", pincode, "date", date, "error", err)
	}

	if s.fetcher == nil {
		log.Errorf("no weather provider configured; cannot fetch weather for %s", pincode)
		return nil, ErrWeatherUnavailable
	}

	payload, err = s.fetcher.FetchCurrent(ctx, coords)
	if err != nil {
		log.Errorw("weather fetch failed", "provider", s.fetcher.Name(), "pincode", pincode, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}

	if err := s.store.SaveWeather(ctx, pincode, date, payload); err != nil {
		log.Errorw("failed to cache weather", "pincode", pincode, "date", date, "error", err)
	}

	return payload, nil
}

// Stats delegates to the underlying store.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx)
}

// Ping delegates to the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
