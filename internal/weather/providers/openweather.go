package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/pincode-weather/internal/weather"
)

// OpenWeatherProvider implements weather.Geocoder and weather.Fetcher for OpenWeatherMap.
type OpenWeatherProvider struct {
	name       string
	apiKey     string
	country    string
	geocodeURL string
	weatherURL string
	httpCfg    HTTPClientConfig
	geoCircuit *gobreaker.CircuitBreaker
	wxCircuit  *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider returns a provider that geocodes pincodes within country
// and fetches current conditions.
func NewOpenWeatherProvider(httpCfg HTTPClientConfig, apiKey, country string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:       "openweathermap",
		apiKey:     apiKey,
		country:    country,
		geocodeURL: "https://api.openweathermap.org/geo/1.0/zip",
		weatherURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg:    httpCfg,
		geoCircuit: newCircuitBreaker("openweather-geocoding"),
		wxCircuit:  newCircuitBreaker("openweather-current"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Geocode resolves pincode through the zip geocoding endpoint.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, pincode string) (weather.Coordinates, error) {
	if p.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		zip := pincode
		if p.country != "" {
			zip = fmt.Sprintf("%s,%s", pincode, p.country)
		}

		values := url.Values{}
		values.Set("zip", zip)
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.geocodeURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.geoCircuit, buildRequest)
	if err != nil {
		return weather.Coordinates{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Zip     string   `json:"zip"`
		Name    string   `json:"name"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
		Country string   `json:"country"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if payload.Lat == nil || payload.Lon == nil {
		return weather.Coordinates{}, errMissingCoords
	}

	return weather.Coordinates{
		Latitude:  *payload.Lat,
		Longitude: *payload.Lon,
	}, nil
}

// FetchCurrent returns the raw current weather document for coords.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, coords weather.Coordinates) (weather.Payload, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.weatherURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.wxCircuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return readJSONObject(resp.Body)
}
