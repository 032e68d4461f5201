package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/pincode-weather/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Data lives for the life of the process.
type MemoryStore struct {
	mu sync.RWMutex

	// key: pincode
	coords map[string]weather.Coordinates

	payloads map[weatherKey]weather.Payload
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		coords:   make(map[string]weather.Coordinates),
		payloads: make(map[weatherKey]weather.Payload),
	}
}

type weatherKey struct {
	pincode string
	date    string
}

// GetCoordinates returns the coordinates stored for pincode.
func (s *MemoryStore) GetCoordinates(_ context.Context, pincode string) (weather.Coordinates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coords[pincode]
	if !ok {
		return weather.Coordinates{}, weather.ErrCacheMiss
	}
	return c, nil
}

// SaveCoordinates stores coords for pincode unless a value already exists.
func (s *MemoryStore) SaveCoordinates(_ context.Context, pincode string, coords weather.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.coords[pincode]; !ok {
		s.coords[pincode] = coords
	}
	return nil
}

// GetWeather returns a copy of the payload stored for (pincode, date).
func (s *MemoryStore) GetWeather(_ context.Context, pincode, date string) (weather.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payloads[weatherKey{pincode: pincode, date: date}]
	if !ok {
		return nil, weather.ErrCacheMiss
	}
	return append(weather.Payload(nil), p...), nil
}

// SaveWeather stores payload for (pincode, date) unless a value already exists.
func (s *MemoryStore) SaveWeather(_ context.Context, pincode, date string, payload weather.Payload) error {
	key := weatherKey{pincode: pincode, date: date}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payloads[key]; !ok {
		s.payloads[key] = append(weather.Payload(nil), payload...)
	}
	return nil
}

// Stats counts the stored records.
func (s *MemoryStore) Stats(_ context.Context) (weather.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return weather.Stats{
		Pincodes:       int64(len(s.coords)),
		WeatherRecords: int64(len(s.payloads)),
		CollectedAt:    time.Now().UTC(),
	}, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
