package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/pincode-weather/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	country string
	circuit *gobreaker.CircuitBreaker

	// lookup is geocoder.Geocoding outside of tests.
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey. The key is
// package state in geocoder, so only one GoogleGeocoder should exist.
func NewGoogleGeocoder(apiKey, country string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey

	return &GoogleGeocoder{
		name:    "google",
		apiKey:  apiKey,
		country: country,
		circuit: newCircuitBreaker("google-geocoding"),
		lookup:  geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Geocode resolves pincode within the configured country. The geocoder
// package has no context support; a cancelled ctx abandons the lookup.
func (g *GoogleGeocoder) Geocode(ctx context.Context, pincode string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("google: %w", errMissingAPIKey)
	}

	type result struct {
		loc geocoder.Location
		err error
	}

	ch := make(chan result, 1)
	go func() {
		out, err := g.circuit.Execute(func() (interface{}, error) {
			return g.lookup(geocoder.Address{
				PostalCode: pincode,
				Country:    g.country,
			})
		})
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{loc: out.(geocoder.Location)}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if errors.Is(r.err, gobreaker.ErrOpenState) || errors.Is(r.err, gobreaker.ErrTooManyRequests) {
				return weather.Coordinates{}, fmt.Errorf("%w: %v", errCircuitOpen, r.err)
			}
			return weather.Coordinates{}, r.err
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return weather.Coordinates{}, errMissingCoords
		}
		return weather.Coordinates{
			Latitude:  r.loc.Latitude,
			Longitude: r.loc.Longitude,
		}, nil
	}
}
