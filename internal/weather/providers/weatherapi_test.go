package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/pincode-weather/internal/weather"
)

func newTestWeatherAPI(t *testing.T, handler http.HandlerFunc) *WeatherAPIProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewWeatherAPIProvider(NewHTTPClientConfig(srv.Client(), 0), "test-key")
	p.baseURL = srv.URL + "/v1/current.json"
	return p
}

func TestWeatherAPIFetchCurrent(t *testing.T) {
	body := `{"location":{"name":"Pune"},"current":{"temp_c":25.0,"condition":{"text":"Sunny"}}}`
	p := newTestWeatherAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/current.json", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "18.520400,73.856700", q.Get("q"))
		assert.Len(t, q, 2)
		_, _ = w.Write([]byte(body))
	})

	payload, err := p.FetchCurrent(context.Background(), weather.Coordinates{Latitude: 18.5204, Longitude: 73.8567})
	require.NoError(t, err)
	assert.JSONEq(t, body, string(payload))
}

func TestWeatherAPIMissingAPIKey(t *testing.T) {
	var calls int32
	p := newTestWeatherAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	p.apiKey = ""

	_, err := p.FetchCurrent(context.Background(), weather.Coordinates{Latitude: 1, Longitude: 2})
	assert.ErrorIs(t, err, errMissingAPIKey)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
